package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/output"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

// errValidation is returned when validation reported problems. The
// messages themselves have already been printed.
type errValidation struct {
	count int
	stage validation.Stage
}

func (e errValidation) Error() string {
	return fmt.Sprintf("validation stage %s reported %d problem(s)", e.stage, e.count)
}

func (a *app) calculateCmd() *cobra.Command {
	var (
		format  string
		stage   string
		ersed   bool
		save    bool
		noCheck bool
	)
	cmd := &cobra.Command{
		Use:   "calculate [booking-file]",
		Short: "Validate a booking and calculate its release dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "),
					strings.Join(output.AvailableFormatAliases(), ", "))
			}
			ceiling, err := validation.ParseStage(stage)
			if err != nil {
				return err
			}

			booking, err := a.parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			inputs := booking.Inputs
			if cmd.Flags().Changed("ersed") {
				inputs.CalculateErsed = ersed
			}

			var out *domain.CalculationOutput
			if noCheck {
				out, err = a.calculateUnchecked(booking.SourceData, inputs)
				if err != nil {
					return err
				}
			} else {
				orch, err := a.orchestrator()
				if err != nil {
					return err
				}
				res, err := orch.Run(booking.SourceData, inputs, ceiling)
				if err != nil {
					return err
				}
				if len(res.Messages) > 0 {
					text, ferr := output.FormatValidationMessages(res.Messages, format)
					if ferr != nil {
						return ferr
					}
					cmd.OutOrStdout().Write(text)
					return errValidation{count: len(res.Messages), stage: res.Stage}
				}
				out = res.Output
			}
			if out == nil {
				return fmt.Errorf("booking %s produced no calculation", booking.BookingID)
			}

			if save {
				filename, err := output.WriteFormatted(formatter, out, extensionFor(formatter))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}
			data, err := formatter.Format(out)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console-lite", "Output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringVar(&stage, "stage", validation.StageOther.String(), "Highest validation stage to run (INITIAL, UNSUPPORTED, INVALID, OTHER)")
	cmd.Flags().BoolVar(&ersed, "ersed", false, "Calculate the early removal scheme date (overrides the booking file)")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a timestamped file instead of stdout")
	cmd.Flags().BoolVar(&noCheck, "no-validate", false, "Skip validation and calculate directly")
	return cmd
}

func (a *app) calculateUnchecked(src domain.SourceData, inputs domain.UserInputs) (*domain.CalculationOutput, error) {
	engine, err := a.engine()
	if err != nil {
		return nil, err
	}
	booking, err := calculation.BuildBooking(src, a.logger)
	if err != nil {
		return nil, err
	}
	return engine.Calculate(booking, inputs)
}

func extensionFor(f output.Formatter) string {
	switch f.Name() {
	case "json", "yaml", "html", "csv":
		return f.Name()
	case "detailed-csv":
		return "csv"
	default:
		return "txt"
	}
}

func (a *app) validateCmd() *cobra.Command {
	var (
		format string
		stage  string
	)
	cmd := &cobra.Command{
		Use:   "validate [booking-file]",
		Short: "Run the validation stages on a booking without printing dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ceiling, err := validation.ParseStage(stage)
			if err != nil {
				return err
			}
			booking, err := a.parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			res, err := orch.Run(booking.SourceData, booking.Inputs, ceiling)
			if err != nil {
				return err
			}
			text, err := output.FormatValidationMessages(res.Messages, format)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(text)
			if len(res.Messages) > 0 {
				return errValidation{count: len(res.Messages), stage: res.Stage}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format: console or json")
	cmd.Flags().StringVar(&stage, "stage", validation.StageOther.String(), "Highest validation stage to run")
	return cmd
}
