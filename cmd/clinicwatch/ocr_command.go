package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clinicwatch/internal/logging"
	"clinicwatch/internal/screenshot"
)

func newOCRCommand(ctx *commandContext) *cobra.Command {
	var showText bool
	cmd := &cobra.Command{
		Use:   "ocr <image>",
		Short: "Classify a saved screenshot with the configured markers and region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			shot, err := screenshot.Open(args[0], false)
			if err != nil {
				return err
			}
			img, err := shot.Decode()
			if err != nil {
				return err
			}

			classifier := newClassifier(cfg, logging.NewNop())
			navigated, err := classifier.IsNavigated(cmd.Context(), img)
			if err != nil {
				return fmt.Errorf("navigation check: %w", err)
			}
			available, err := classifier.IsAvailable(cmd.Context(), img)
			if err != nil {
				return fmt.Errorf("availability check: %w", err)
			}

			region := cfg.Detection.AvailabilityRegion.Rect()
			rows := [][]string{
				{"Navigated", yesNo(navigated.Navigated), strings.Join(cfg.Detection.NavigationMarkers, " | ")},
				{"Available", yesNo(available.Available), "absent: " + cfg.Detection.NegativeIndicator},
				{"Ambiguous", yesNo(available.Ambiguous), fmt.Sprintf("region %v of %v", region, img.Bounds())},
				{"Spacing-sensitive", yesNo(navigated.Diverged || available.Diverged), fmt.Sprintf("normalize_text = %t", cfg.Detection.NormalizeText)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Result", "Criteria"}, rows))
			if showText {
				fmt.Fprintf(out, "\nFull-frame text:\n%s\n", navigated.Text)
				fmt.Fprintf(out, "\nRegion text:\n%s\n", available.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showText, "text", false, "Print the recognized text")
	return cmd
}
