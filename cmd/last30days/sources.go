package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/last30days/internal/bird"
	"github.com/pdiddy/last30days/internal/sources"
)

// sourcesReport is what the sources command prints.
type sourcesReport struct {
	Available   sources.Availability `json:"available"`
	Effective   string               `json:"effective"`
	Message     string               `json:"message,omitempty"`
	MissingKeys string               `json:"missing_keys"`
	XStrategy   sources.XStrategy    `json:"x_strategy"`
	Bird        bird.Status          `json:"bird"`
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show which sources and X strategy would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		requested, _ := cmd.Flags().GetString("sources")
		includeWeb, _ := cmd.Flags().GetBool("include-web")
		asJSON, _ := cmd.Flags().GetBool("json")

		probe := bird.NewProbe(cfg.BirdBinary)
		available := sources.ResolveAvailability(cfg)
		set, msg := sources.ResolveEffective(requested, available, includeWeb)
		r := sourcesReport{
			Available:   available,
			Effective:   set.Token(),
			Message:     msg,
			MissingKeys: sources.MissingKeys(cfg),
			XStrategy:   sources.ResolveXStrategy(cfg, probe),
			Bird:        probe.Status(),
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		printSources(cmd, r, probe.Binary())
		return nil
	},
}

func printSources(cmd *cobra.Command, r sourcesReport, bin string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Available:    %s\n", r.Available)
	fmt.Fprintf(out, "Effective:    %s\n", r.Effective)
	fmt.Fprintf(out, "Missing keys: %s\n", r.MissingKeys)
	fmt.Fprintf(out, "X strategy:   %s\n", r.XStrategy)
	switch {
	case r.Bird.Authenticated:
		fmt.Fprintf(out, "%s:         logged in as @%s\n", bin, r.Bird.Identity)
	case r.Bird.Installed:
		fmt.Fprintf(out, "%s:         installed, not logged in\n", bin)
	case r.Bird.CanInstall:
		fmt.Fprintf(out, "%s:         not installed (npm available)\n", bin)
	default:
		fmt.Fprintf(out, "%s:         not installed\n", bin)
	}
	if r.Message != "" {
		fmt.Fprintf(out, "\n%s\n", r.Message)
	}
}

func init() {
	sourcesCmd.Flags().String("sources", "auto", "requested sources: auto, reddit, x, both, web")
	sourcesCmd.Flags().Bool("include-web", false, "also include general web search")
	sourcesCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(sourcesCmd)
}
