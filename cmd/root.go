package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/recipes/config"
	"github.com/s0up4200/recipes/filter"
	"github.com/s0up4200/recipes/network"
	"github.com/s0up4200/recipes/recipes"
)

var (
	cfgFile   string
	debug     bool
	cfg       *config.Config
	logger    zerolog.Logger
	api       recipes.API
	filters   *filter.Manager
	formatter = recipes.NewConsoleFormatter()

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Browse the recipe catalogue from the terminal",
	Long: `recipes is a CLI client for a recipe REST API. It pages through the
catalogue, searches it, shows single recipes in full and narrows listings
with filter expressions.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information shown by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	logger = setupLogger(cfg.Logging)

	service := network.NewClient(logger,
		network.WithBaseURL(cfg.API.BaseURL),
		network.WithTimeout(cfg.API.Timeout),
		network.WithPayloadLogging(cfg.API.DebugPayloads),
		network.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
	)
	api = recipes.NewClient(service, logger)

	filters = filter.NewManager(filter.WithCompiler(
		filter.NewCompiler(filter.WithCache(100), filter.WithLogger(logger)),
	))
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("base_url", cfg.API.BaseURL).
		Int("page_size", cfg.Pagination.PageSize).
		Strs("presets", filters.ListFilters()).
		Msg("Initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
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
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// resolveFilter returns the filter selected by --preset or --filter, or nil
func resolveFilter() (filter.CompiledFilter, error) {
	f, err := filters.Resolve(preset, filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if f != nil {
		logger.Info().Str("filter", f.Expression()).Msg("Filtering recipes")
	}
	return f, nil
}

func applyFilter(f filter.CompiledFilter, items []recipes.Recipe) []recipes.Recipe {
	if f == nil {
		return items
	}
	return filter.Apply(f, items)
}

func formatOptions() recipes.FormatOptions {
	return recipes.FormatOptions{ShowDetails: cfg.Output.ShowDetails}
}

// waitSettled waits for dispatched work and reports an interrupted command,
// since a cancelled fetch leaves no visible error behind.
func waitSettled(ctx context.Context, wait func()) error {
	wait()
	return ctx.Err()
}

// stateError turns a visible state machine error into a command error
func stateError(message string, visible bool) error {
	if !visible {
		return nil
	}
	return errors.New(message)
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("recipes %s (built %s)\n", version, buildTime)
	},
}
