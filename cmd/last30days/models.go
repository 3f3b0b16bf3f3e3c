package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/models"
	"github.com/pdiddy/last30days/internal/research"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the model chosen for each task",
	Long: `Models resolves the model for every research task: a pinned model first,
then the remembered choice, then a catalog probe. With --clear the remembered
choices are forgotten so the next run probes again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearMemo, _ := cmd.Flags().GetBool("clear")
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

		out := cmd.OutOrStdout()
		if clearMemo {
			keys, err := p.Selector.Memo.Keys(ctx)
			if err != nil {
				return fmt.Errorf("listing model memo: %w", err)
			}
			if err := p.Selector.Memo.Clear(ctx); err != nil {
				return fmt.Errorf("clearing model memo: %w", err)
			}
			fmt.Fprintf(out, "Model memo cleared (%d entries).\n", len(keys))
			return nil
		}

		selected := p.Selector.SelectAll(ctx, cfg)
		if len(selected) == 0 {
			fmt.Fprintln(out, "No OPENROUTER_API_KEY configured; no models in use.")
			return nil
		}
		for _, task := range models.Tasks {
			fmt.Fprintf(out, "%-18s  %s\n", task, selected[task])
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("clear", false, "forget remembered model choices")
	rootCmd.AddCommand(modelsCmd)
}
