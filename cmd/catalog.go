package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/plexwalk/filter"
)

// infoCmd shows the server descriptor
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show server information",
	Long: `Fetch the server descriptor and print its identity and version.
When server.min_version is configured, fail if the server is older.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

// sectionsCmd lists the top-level library sections
var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List library sections",
	Args:  cobra.NoArgs,
	RunE:  runSections,
}

// sectionCmd lists one section's directories and records
var sectionCmd = &cobra.Command{
	Use:   "section KEY",
	Short: "Show a library section",
	Long: `Fetch a library section by key and list its directories and records.
KEY may be a bare section id ("1") or a compound key ("1/all", "1/genre").`,
	Args: cobra.ExactArgs(1),
	RunE: runSection,
}

// searchCmd runs a server-side search
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	addFilterFlags(searchCmd)

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(sectionCmd)
	rootCmd.AddCommand(searchCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := plexClient.ServerInformation(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get server information: %w", err)
	}

	printServerInfo(cmd.OutOrStdout(), info)

	if cfg.Server.MinVersion == "" {
		return nil
	}
	ok, err := info.AtLeast(cfg.Server.MinVersion)
	if err != nil {
		return fmt.Errorf("failed to compare server version: %w", err)
	}
	if !ok {
		return fmt.Errorf("server version %s is older than required %s", info.Version, cfg.Server.MinVersion)
	}
	logger.Debug().Str("version", info.Version).Str("min_version", cfg.Server.MinVersion).Msg("Server version check passed")
	return nil
}

func runSections(cmd *cobra.Command, args []string) error {
	sections, err := plexClient.LibrarySections(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list library sections: %w", err)
	}

	printDirectories(cmd.OutOrStdout(), sections.Title1, sections.Directories)
	return nil
}

func runSection(cmd *cobra.Command, args []string) error {
	key := args[0]
	section, err := plexClient.LibrarySection(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("failed to get library section %q: %w", key, err)
	}

	printSection(cmd.OutOrStdout(), key, section)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := checkFilterFlags(); err != nil {
		return err
	}

	query := args[0]
	results, err := plexClient.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search %q failed: %w", query, err)
	}

	records := make([]filter.Record, 0, len(results.Results))
	for _, r := range results.Results {
		records = append(records, filter.FromSearchResult(r))
	}
	logger.Debug().Str("query", query).Int("results", len(records)).Msg("Search complete")

	return printFiltered(cmd, records, true)
}
