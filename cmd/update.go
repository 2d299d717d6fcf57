package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/plexwalk/config"
)

const defaultRepository = "s0up4200/plexwalk"

var (
	checkOnly  bool
	repository string
)

// updateCmd replaces the running binary with the latest release
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update plexwalk to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInitialize,
	RunE:              runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check whether an update is available")
	updateCmd.Flags().StringVar(&repository, "repo", defaultRepository, "GitHub repository to fetch releases from")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", appVersion)
	}

	repo := repository
	if !cmd.Flags().Changed("repo") {
		// the config is optional here, it only supplies update.repository
		if c, err := config.Load(cfgFile, nil); err == nil && c.Update.Repository != "" {
			repo = c.Update.Repository
		}
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repo)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "plexwalk %s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "Update available: %s -> %s\n", current, latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().Str("from", current.String()).Str("to", latest.Version()).Str("asset", latest.AssetName).Msg("Updating")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "Updated plexwalk to %s\n", latest.Version())
	return nil
}
