package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/plexwalk/filter"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().BoolVar(&allPresets, "all-presets", false, "report matches for every preset in config")
	cmd.MarkFlagsMutuallyExclusive("filter", "preset", "all-presets")
}

// checkFilterFlags fails early on a bad expression or an unknown preset
func checkFilterFlags() error {
	if expr := strings.TrimSpace(filterExpr); expr != "" {
		if _, err := filters.Compile(expr); err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	if preset != "" {
		if _, ok := filters.GetFilter(preset); !ok {
			return fmt.Errorf("preset '%s' not found in config (available: %s)",
				preset, strings.Join(filters.ListFilters(), ", "))
		}
	}

	if allPresets && len(filters.ListFilters()) == 0 {
		return fmt.Errorf("no filter presets configured")
	}
	return nil
}

// printFiltered prints the records selected by -f, --preset or --all-presets.
// Without a filter flag the records are printed only when showUnfiltered is set.
func printFiltered(cmd *cobra.Command, records []filter.Record, showUnfiltered bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case allPresets:
		results, err := filters.EvaluateAll(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to apply presets: %w", err)
		}
		for _, name := range filters.ListFilters() {
			f, _ := filters.GetFilter(name)
			logger.Info().Str("preset", name).Int("records", len(records)).Int("matches", len(results[name])).Msg("Evaluated preset")
			fmt.Fprintf(out, "\nPreset %s: %s\n", name, f.Expression())
			printRecords(out, results[name])
		}

	case strings.TrimSpace(filterExpr) != "":
		expr := strings.TrimSpace(filterExpr)
		f, err := filters.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		matches, err := filters.Evaluate(ctx, f, records)
		if err != nil {
			return fmt.Errorf("failed to apply filter: %w", err)
		}
		logger.Info().Str("filter", expr).Int("records", len(records)).Int("matches", len(matches)).Msg("Filtered records")
		printRecords(out, matches)

	case preset != "":
		matches, err := filters.EvaluateFilter(ctx, preset, records)
		if err != nil {
			return fmt.Errorf("failed to apply preset: %w", err)
		}
		logger.Info().Str("preset", preset).Int("records", len(records)).Int("matches", len(matches)).Msg("Filtered records")
		printRecords(out, matches)

	case showUnfiltered:
		printRecords(out, records)
	}

	return nil
}
