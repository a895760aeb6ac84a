// =============================================================================
// Timetable - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// shares the configuration and the logger set up here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (timetable)
//   ├── buildCmd    (timetable build)
//   ├── venuesCmd   (timetable venues)
//   ├── runCmd      (timetable run)
//   ├── validateCmd (timetable validate)
//   ├── xsdCmd      (timetable xsd)
//   └── versionCmd  (timetable version)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itxprashant/IITD-timetable-generator/internal/config"
	"github.com/itxprashant/IITD-timetable-generator/internal/pipeline"
)

// skipSetup marks commands that need neither configuration nor logger.
const skipSetup = "skip-setup"

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

var (
	cfgFile string
	verbose bool

	dryRun  bool
	offline bool

	coursesFile string
	catalogFile string
)

// cfg and logger are set by setup before any subcommand runs.
var (
	cfg    *config.Config
	logger *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Timetable catalogue builder - courses offered export to courses.json",
	Long: `timetable turns the institute's "Courses Offered" export into the course
catalogue used by the timetable generator, and fills in lecture venues from
the published room allotment chart.

Example Usage:
  timetable run                        # build the catalogue and sync venues
  timetable build --courses ./Courses_Offered.xlsx
  timetable venues --offline           # use the chart already on disk
  timetable validate                   # check the catalogue on disk`,

	SilenceUsage: true,

	PersistentPreRunE: setup,

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). An interrupt
// cancels the running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", config.DefaultPath,
		"Path to the configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	flags.StringVar(&coursesFile, "courses", "",
		"Course export to read (overrides courses_file)")
	flags.StringVar(&catalogFile, "catalog", "",
		"Catalogue file to write (overrides catalog_file)")
}

// addPipelineFlags registers the flags shared by the commands that write the
// catalogue.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Build and scan without writing any file")
	cmd.Flags().BoolVar(&offline, "offline", false,
		"Do not download the room chart; use the local copy")
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	loaded, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if coursesFile != "" {
		loaded.CoursesFile = coursesFile
	}
	if catalogFile != "" {
		loaded.CatalogFile = catalogFile
	}
	if verbose {
		loaded.LogLevel = "debug"
	}

	built, err := newLogger(loaded)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, logger = loaded, built
	logger.Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.String("courses_file", cfg.CoursesFile),
		zap.String("catalog_file", cfg.CatalogFile),
		zap.String("room_chart_file", cfg.RoomChartFile),
	)
	return nil
}

// newLogger builds a console logger at the configured level. Logs go to
// stderr and, when configured, to a log file.
func newLogger(c *config.Config) (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.DisableStacktrace = level > zapcore.DebugLevel
	zc.OutputPaths = []string{"stderr"}
	if c.LogFile != "" {
		zc.OutputPaths = append(zc.OutputPaths, c.LogFile)
	}
	return zc.Build()
}

// newPipeline returns a pipeline for the loaded configuration and the
// command line switches.
func newPipeline() *pipeline.Pipeline {
	return pipeline.New(cfg, logger, pipeline.Options{
		DryRun:  dryRun,
		Offline: offline,
	})
}
