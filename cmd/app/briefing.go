package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"MarketPulse/internal/di"
	"MarketPulse/internal/domain/models"

	"github.com/spf13/cobra"
)

func newBriefingCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Compute today's daily briefing once and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q, want json or text", format)
			}
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}

			uc, cleanup, err := di.InitializeBriefing(cfg, log)
			if err != nil {
				return fmt.Errorf("briefing initialization failed: %w", err)
			}
			defer cleanup()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return writeBriefing(cmd.OutOrStdout(), uc.Generate(ctx), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: json or text")
	return cmd
}

func writeBriefing(w io.Writer, b models.BriefingResponse, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	if _, err := fmt.Fprintf(w, "%s  score %d/100  (%s)\n\n", b.Signal, b.Score, b.Timestamp.Format("2006-01-02 15:04 MST")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", b.Briefing); err != nil {
		return err
	}
	for _, f := range b.Factors {
		if _, err := fmt.Fprintf(w, "%+4d  %-32s %s\n", f.Points, f.Name, f.Detail); err != nil {
			return err
		}
	}
	return nil
}
