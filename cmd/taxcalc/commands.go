package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpgo/dta-calculator/internal/api"
	"github.com/rpgo/dta-calculator/internal/config"
	"github.com/rpgo/dta-calculator/internal/output"
	"github.com/rpgo/dta-calculator/pkg/dateutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCalculateCmd() *cobra.Command {
	var inputFile, format, saveDir string
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Run a full tax calculation for an input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			engine, err := newEngine(logger)
			if err != nil {
				return err
			}
			input, err := config.NewInputParser().LoadInput(inputFile)
			if err != nil {
				return err
			}
			result, err := engine.Calculate(*input)
			if err != nil {
				return err
			}
			if saveDir != "" {
				f, err := output.LookupFormatter(format)
				if err != nil {
					return err
				}
				name, err := output.WriteFormatted(f, result, saveDir)
				if err != nil {
					return err
				}
				logger.Info("report written", "file", name)
				return nil
			}
			return output.Render(cmd.OutOrStdout(), result, format)
		},
	}
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "calculation input file (YAML or JSON)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", fmt.Sprintf("output format %v", output.AvailableFormatterNames()))
	cmd.Flags().StringVar(&saveDir, "save", "", "write a timestamped report into this directory instead of stdout")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var inputFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check UK figures and foreign income records without calculating",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(newLogger())
			if err != nil {
				return err
			}
			input, err := config.NewInputParser().LoadInput(inputFile)
			if err != nil {
				return err
			}
			result := engine.ValidateInput(*input)
			out := cmd.OutOrStdout()
			for _, e := range result.Errors {
				fmt.Fprintf(out, "ERROR   %s\n", output.DescribeIssue(e))
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "WARNING %s\n", output.DescribeIssue(w))
			}
			if !result.IsValid {
				return fmt.Errorf("%d validation error(s)", len(result.Errors))
			}
			fmt.Fprintf(out, "%d record(s) valid, %d warning(s)\n", len(input.ForeignIncome), len(result.Warnings))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "calculation input file (YAML or JSON)")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newTreatiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "treaties",
		Short: "List the double taxation agreements in the reference data",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(newLogger())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-24s %-10s %s\n", "CODE", "COUNTRY", "METHOD", "MAX CREDIT")
			for _, t := range engine.Treaties.All() {
				fmt.Fprintf(out, "%-4s %-24s %-10s %s\n", t.CountryCode, t.Country, t.ReliefMethod, output.FormatPercentage(t.MaxCreditPercentage))
			}
			fmt.Fprintf(out, "%d treaties; other countries get unilateral credit relief\n", engine.Treaties.Len())
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	var origins []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			engine, err := newEngine(logger)
			if err != nil {
				return err
			}
			handler := api.NewHandler(engine, api.NewMetrics(), logger)

			server := &http.Server{
				Addr:         addr,
				Handler:      api.NewRouter(handler, origins),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			logger.Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins")
	return cmd
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleInput()
			if ref, err := loadReference(parser); err == nil {
				if current := dateutil.TaxYearFor(time.Now()); ref.TaxYears[current] != nil {
					example.TaxYear = current
				}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(example); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
