package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rpgo/dta-calculator/internal/calculation"
	"github.com/rpgo/dta-calculator/internal/config"
	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	referenceFile string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taxcalc",
		Short:         "UK personal tax calculator with double taxation relief",
		Long:          "taxcalc computes UK income tax, capital gains tax and double taxation relief on foreign income.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&referenceFile, "reference", "r", "", "reference data file (defaults to the built-in tables)")

	root.AddCommand(
		newCalculateCmd(),
		newValidateCmd(),
		newTreatiesCmd(),
		newServeCmd(),
		newExampleCmd(),
	)
	return root
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadReference(parser *config.InputParser) (*domain.ReferenceData, error) {
	if referenceFile == "" {
		return parser.DefaultReferenceData()
	}
	return parser.LoadReferenceData(referenceFile)
}

func newEngine(logger *slog.Logger) (*calculation.Engine, error) {
	ref, err := loadReference(config.NewInputParser())
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	return calculation.NewEngine(ref, calculation.WithLogger(calculation.NewSlogLogger(logger)))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
