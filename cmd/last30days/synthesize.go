package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/last30days/internal/research"
	"github.com/pdiddy/last30days/internal/synth"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Synthesize a saved run and generate prompts from it",
	Long: `Synthesize reloads a run saved with "research --save" and asks the synthesis
model for the patterns in it, then generates prompts for the visions you
describe. No source is queried again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		vision, _ := cmd.Flags().GetString("vision")
		res, err := research.LoadRun(from)
		if err != nil {
			return err
		}
		return runSession(cmd, res, vision)
	},
}

func init() {
	synthesizeCmd.Flags().String("from", "", "saved run file (required)")
	synthesizeCmd.Flags().String("vision", "", "generate one prompt for this vision and exit")
	synthesizeCmd.Flags().String("model", "", "synthesis model")
	_ = synthesizeCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(synthesizeCmd)
}

// runSession synthesizes res and runs the prompt loop on the terminal.
func runSession(cmd *cobra.Command, res *research.Result, vision string) error {
	if set := res.SourceSet(); !set.Reddit && !set.X && len(res.Items()) == 0 {
		return fmt.Errorf("run %s searched %q: no Reddit or X results to synthesize", res.ID, res.Sources)
	}
	if !cfg.HasAPIKey() {
		return errors.New("synthesis requires OPENROUTER_API_KEY")
	}
	s := &synth.Session{
		Engine: synth.New(newHTTPClient(), cfg, ""),
		Out:    cmd.OutOrStdout(),
		Vision: vision,
	}
	return s.Run(cmd.Context(), res.Topic, res.Reddit, res.X)
}
