package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rdcalc/internal/batch"
	"github.com/rgehrsitz/rdcalc/internal/output"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

func (a *app) batchCmd() *cobra.Command {
	var (
		concurrency int
		metricsFile string
		stage       string
		ersed       bool
	)
	cmd := &cobra.Command{
		Use:   "batch [booking-file-or-directory...]",
		Short: "Calculate many bookings concurrently",
		Long: `Validates and calculates every booking file given, expanding directories
to the *.yaml and *.yml files they contain. A failing booking is reported and
the run carries on.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ceiling, err := validation.ParseStage(stage)
			if err != nil {
				return err
			}
			files, err := bookingFiles(args)
			if err != nil {
				return err
			}

			jobs := make([]batch.Job, 0, len(files))
			for _, f := range files {
				booking, err := a.parser.LoadFromFile(f)
				if err != nil {
					return err
				}
				inputs := booking.Inputs
				if cmd.Flags().Changed("ersed") {
					inputs.CalculateErsed = ersed
				}
				jobs = append(jobs, batch.Job{Name: f, Source: booking.SourceData, Inputs: inputs})
			}

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			runner := batch.NewRunner(orch)
			runner.Concurrency = concurrency
			runner.Ceiling = ceiling
			runner.Logger = a.logger
			runner.Metrics = batch.NewMetrics()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			outcomes, runErr := runner.Run(ctx, jobs)
			w := cmd.OutOrStdout()
			for _, o := range outcomes {
				fmt.Fprintf(w, "%-40s %-10s %s\n", o.Name, o.Result, describe(o))
			}
			counts := batch.Summary(outcomes)
			fmt.Fprintf(w, "\n%d bookings: %d calculated, %d invalid, %d failed, %d cancelled\n", len(outcomes),
				counts[batch.ResultCalculated], counts[batch.ResultInvalid], counts[batch.ResultFailed], counts[batch.ResultCancelled])

			if metricsFile != "" {
				if err := runner.Metrics.WriteTextfile(metricsFile); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			if counts[batch.ResultFailed] > 0 {
				return fmt.Errorf("%d booking(s) failed", counts[batch.ResultFailed])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", batch.DefaultConcurrency, "Bookings to process at once")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().StringVar(&stage, "stage", validation.StageOther.String(), "Highest validation stage to run")
	cmd.Flags().BoolVar(&ersed, "ersed", false, "Calculate the early removal scheme date for every booking")
	return cmd
}

func describe(o batch.Outcome) string {
	switch o.Result {
	case batch.ResultCalculated:
		var parts []string
		for _, d := range o.Output.SortedDates() {
			parts = append(parts, fmt.Sprintf("%s=%s", d.Type, output.FormatDate(d.Date)))
		}
		return strings.Join(parts, " ")
	case batch.ResultInvalid:
		codes := make([]string, len(o.Messages))
		for i, m := range o.Messages {
			codes[i] = string(m.Code)
		}
		return fmt.Sprintf("%s: %s", o.Stage, strings.Join(codes, ", "))
	default:
		if o.Err != nil {
			return o.Err.Error()
		}
		return ""
	}
}

func bookingFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no booking files found in %s", strings.Join(args, ", "))
	}
	return files, nil
}
