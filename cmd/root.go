package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/plexwalk/config"
	"github.com/s0up4200/plexwalk/filter"
	"github.com/s0up4200/plexwalk/plex"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	plexClient *plex.Client
	filters    *filter.Manager

	appVersion   = "dev"
	appBuildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
	allPresets bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plexwalk",
	Short: "Browse and traverse a Plex media server catalog",
	Long: `plexwalk talks to the JSON API of a Plex media server. It reads the
server descriptor, lists library sections, runs searches and walks the
section tree breadth-first, reporting how many nodes could not be fetched.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion records the build information reported by the version command.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("url", "", "Plex server URL (overrides plex.url)")
	rootCmd.PersistentFlags().String("token", "", "Plex token (overrides plex.token)")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and creates the client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	plexClient, err = plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger,
		plex.WithTimeout(cfg.Plex.Timeout),
		plex.WithUserAgent("plexwalk/"+appVersion),
		plex.WithClientIdentifier("plexwalk"),
	)
	if err != nil {
		return fmt.Errorf("failed to create Plex client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// skipInitialize replaces initializeApp for commands that need no server
func skipInitialize(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInitialize,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "plexwalk %s (built %s)\n", appVersion, appBuildTime)
	},
}
