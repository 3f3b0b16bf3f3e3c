// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/report"
	"github.com/pdiddy/last30days/internal/research"
	"github.com/pdiddy/last30days/internal/search"
)

var researchCmd = &cobra.Command{
	Use:   "research <topic...>",
	Short: "Collect recent Reddit threads and X posts about a topic",
	Long: `Research resolves which sources are usable, picks a model per source and
asks it for recent discussion about the topic. Reddit results can be
supplemented with a direct search of named subreddits. Items outside the
date window are dropped.

With --synthesize the results are summarized and you are asked what you want
to create; a prompt is generated for each answer until you type q.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	f := researchCmd.Flags()
	f.String("sources", "auto", "sources to query: auto, reddit, x, both, web")
	f.Bool("include-web", false, "also include general web search results")
	f.String("depth", string(search.DepthDefault), "search depth: quick, default, deep")
	f.Int("days", dates.DefaultDays, "size of the date window in days")
	f.StringSlice("subreddits", nil, "subreddits to search directly (comma-separated)")
	f.Int("count-per", search.DefaultCountPer, "posts per subreddit in the direct search")
	f.String("format", string(report.FormatTable), "output format: table, json, yaml, markdown, html")
	f.String("save", "", "save the run to a YAML file")
	f.Bool("synthesize", false, "synthesize results and generate prompts")
	f.String("vision", "", "with --synthesize, generate one prompt for this vision and exit")
	f.String("model", "", "synthesis model")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	formatFlag, _ := f.GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	requested, _ := f.GetString("sources")
	includeWeb, _ := f.GetBool("include-web")
	depth, _ := f.GetString("depth")
	days, _ := f.GetInt("days")
	subreddits, _ := f.GetStringSlice("subreddits")
	countPer, _ := f.GetInt("count-per")
	savePath, _ := f.GetString("save")
	doSynth, _ := f.GetBool("synthesize")
	vision, _ := f.GetString("vision")

	ctx := cmd.Context()
	p, err := research.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("closing model memo", zap.Error(err))
		}
	}()

	res, runErr := p.Run(ctx, research.Request{
		Topic:      strings.Join(args, " "),
		Sources:    requested,
		IncludeWeb: includeWeb,
		Depth:      search.ParseDepth(depth),
		Days:       days,
		Subreddits: subreddits,
		CountPer:   countPer,
	})
	if res != nil && savePath != "" {
		if err := research.SaveRun(savePath, res); err != nil {
			return err
		}
		logger.Info("run saved", zap.String("path", savePath), zap.String("id", res.ID))
	}
	if runErr != nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, res, format, ""); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if !doSynth {
		return nil
	}
	return runSession(cmd, res, vision)
}
