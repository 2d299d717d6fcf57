package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/plexwalk/filter"
	"github.com/s0up4200/plexwalk/plex"
	"github.com/s0up4200/plexwalk/walker"
)

var (
	walkLevels      int
	walkConcurrency int
)

// walkCmd traverses the section tree
var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Traverse the library section tree breadth-first",
	Long: `Fetch the top-level sections, then walk their directories level by level.
Each round fetches every key discovered by the round before it. Fetch
failures are counted and reported; the command fails if any occurred.

With -f or --preset, every record found along the way is filtered and the
matches are printed. --all-presets reports the matches of every preset.`,
	Args: cobra.NoArgs,
	RunE: runWalk,
}

func init() {
	walkCmd.Flags().IntVarP(&walkLevels, "levels", "l", 0, "number of fetch rounds (overrides walk.levels)")
	walkCmd.Flags().IntVarP(&walkConcurrency, "concurrency", "c", 0, "fetches in flight per round (overrides walk.concurrency)")
	addFilterFlags(walkCmd)

	rootCmd.AddCommand(walkCmd)
}

func runWalk(cmd *cobra.Command, args []string) error {
	levels := cfg.Walk.Levels
	if cmd.Flags().Changed("levels") {
		levels = walkLevels
	}
	concurrency := cfg.Walk.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = walkConcurrency
	}
	if levels < 1 {
		return fmt.Errorf("levels must be at least 1, got %d", levels)
	}
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}

	if err := checkFilterFlags(); err != nil {
		return err
	}

	ctx := cmd.Context()
	sections, err := plexClient.LibrarySections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list library sections: %w", err)
	}

	var records []filter.Record
	w := walker.New(plexClient, logger,
		walker.WithConcurrency(concurrency),
		walker.WithSeparator(cfg.Walk.Separator),
		walker.WithVisitor(func(key string, section *plex.LibrarySection) {
			for _, m := range section.Metadata {
				records = append(records, filter.FromMetadatum(m, key))
			}
		}),
	)

	logger.Info().
		Int("roots", len(sections.Directories)).
		Int("levels", levels).
		Int("concurrency", concurrency).
		Msg("Starting walk")

	result, err := w.Walk(ctx, sections.Directories, levels)
	if err != nil {
		printWalkResult(cmd.OutOrStdout(), result)
		return fmt.Errorf("walk interrupted: %w", err)
	}

	printWalkResult(cmd.OutOrStdout(), result)

	if err := printFiltered(cmd, records, false); err != nil {
		return err
	}

	if result.Errors > 0 {
		return fmt.Errorf("walk finished with %d errors out of %d fetches", result.Errors, result.Fetched)
	}
	return nil
}
