package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cataloguePath string
	debug         bool
	logger        *zap.SugaredLogger
	parser        *config.InputParser
}

func newRootCmd() *cobra.Command {
	a := &app{parser: config.NewInputParser(), logger: zap.NewNop().Sugar()}

	root := &cobra.Command{
		Use:   "rdcalc",
		Short: "Sentence release date calculator",
		Long: `rdcalc works out the statutory release dates of a booking from its
sentences and adjustments, validating the booking first so that problems are
reported in plain terms before any calculation failure.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if a.debug {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger.Sugar()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.cataloguePath, "catalogue", "", "Rules catalogue YAML (defaults to the built-in rules with no early release schemes)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		a.calculateCmd(),
		a.validateCmd(),
		a.unusedDeductionsCmd(),
		a.batchCmd(),
		a.compareCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rdcalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func (a *app) catalogue() (domain.RulesCatalogue, error) {
	if a.cataloguePath == "" {
		return domain.DefaultRulesCatalogue(), nil
	}
	return a.parser.LoadCatalogue(a.cataloguePath)
}

func (a *app) engine() (*calculation.Engine, error) {
	catalogue, err := a.catalogue()
	if err != nil {
		return nil, err
	}
	engine, err := calculation.NewEngine(catalogue)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(a.logger)
	return engine, nil
}

func (a *app) orchestrator() (*validation.Orchestrator, error) {
	engine, err := a.engine()
	if err != nil {
		return nil, err
	}
	orch := validation.NewOrchestrator(engine)
	orch.Logger = a.logger
	return orch, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
