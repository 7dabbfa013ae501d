package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recast/internal/pipeline"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "voices <episode-url>",
		Short: "Show the voice each speaker will use",
		Long: "Scrape and preprocess the episode if needed, then print the speaker to voice\n" +
			"mapping without synthesizing anything.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			p, err := pipeline.New(pipeline.Options{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}
			plan, err := p.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(plan.Voices))
			for _, e := range plan.Voices {
				rows = append(rows, []string{
					e.Speaker,
					string(e.Role),
					strconv.Itoa(e.Segments),
					e.Voice,
					yesNo(e.Overflow),
				})
			}
			title := fmt.Sprintf("%s (%s, %s)", plan.Episode, cfg.TTS.Backend, cfg.TTS.VoiceMode)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(title, []string{"Speaker", "Role", "Segments", "Voice", "Overflow"}, rows, 2))
			return nil
		},
	}
}
