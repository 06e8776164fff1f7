package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/deductions"
	"github.com/rgehrsitz/rdcalc/internal/output"
)

func (a *app) unusedDeductionsCmd() *cobra.Command {
	var (
		person string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "unused-deductions [booking-file]",
		Short: "Work out unused remand and tagged bail days for a booking",
		Long: `Recalculates the booking with its adjustments, ignoring any stored
unused-deductions record, and reports how many deduction days could not be
absorbed and what should happen to the stored record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			booking, err := a.parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if person == "" {
				person = booking.PersonID
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			provider := config.FileSourceProvider{Path: args[0], Parser: a.parser}
			reconciler := deductions.NewReconciler(provider, engine)
			reconciler.Inputs = booking.Inputs
			reconciler.Logger = a.logger

			res, err := reconciler.Reconcile(cmd.Context(), person, booking.Adjustments)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(w, "Person:              %s\n", res.PersonID)
			fmt.Fprintf(w, "Deduction days:      %d\n", res.TotalDeductions)
			fmt.Fprintf(w, "Absorbable days:     %d\n", res.AbsorbableDays)
			fmt.Fprintf(w, "Unused days:         %d\n", res.UnusedDays)
			fmt.Fprintf(w, "Controlling release: %s\n", output.FormatDate(res.ControllingRelease))
			fmt.Fprintf(w, "Action:              %s\n", res.Action)
			if res.Record != nil {
				fmt.Fprintf(w, "Record:              %s %d days\n", res.Record.Type, res.Record.Days)
			}
			for _, d := range res.Duplicates {
				fmt.Fprintf(w, "Delete duplicate:    %s %d days\n", d.ID, d.EffectiveDays())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&person, "person", "", "Person ID (defaults to the booking file's person_id)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
