package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rdcalc/internal/compare"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		templates []string
		format    string
		list      bool
	)
	cmd := &cobra.Command{
		Use:   "compare [booking-file]",
		Short: "Compare a booking's release dates across what-if scenarios",
		Long: `Calculates the booking as supplied and again under each template
(for example without deductions, or without any early release scheme) and
shows how every date moves. With no --template every built-in template is
used.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := compare.CreateBuiltInTemplates()
			w := cmd.OutOrStdout()
			if list {
				for _, name := range registry.List() {
					t, _ := registry.Get(name)
					fmt.Fprintf(w, "%-20s %s\n", t.Name, t.Description)
				}
				return nil
			}

			booking, err := a.parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			catalogue, err := a.catalogue()
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				templates = registry.List()
			}

			ce := compare.NewCompareEngine(catalogue)
			ce.TemplateRegistry = registry
			ce.Logger = a.logger
			set, err := ce.Compare(cmd.Context(), booking.SourceData, booking.Inputs, templates)
			if err != nil {
				return err
			}
			set.BookingPath = args[0]

			var text string
			switch strings.ToLower(format) {
			case "table", "":
				text = (&compare.TableFormatter{}).Format(set)
			case "compact":
				text = (&compare.TableFormatter{}).FormatCompact(set) + "\n"
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
				text += "\n"
			default:
				return fmt.Errorf("unknown format %q (available: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(w, text)
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&templates, "template", "t", nil, "Scenario template to compare against the base (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, compact, csv or json")
	cmd.Flags().BoolVar(&list, "list", false, "List the available templates")
	return cmd
}
