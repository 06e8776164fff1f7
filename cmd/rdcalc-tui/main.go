package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/tui"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cataloguePath string
	cmd := &cobra.Command{
		Use:          "rdcalc-tui [booking-file]",
		Short:        "Interactive release date viewer",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookingPath := args[0]
			if _, err := os.Stat(bookingPath); os.IsNotExist(err) {
				return fmt.Errorf("booking file not found: %s", bookingPath)
			}

			catalogue := domain.DefaultRulesCatalogue()
			if cataloguePath != "" {
				var err error
				catalogue, err = config.NewInputParser().LoadCatalogue(cataloguePath)
				if err != nil {
					return err
				}
			}
			engine, err := calculation.NewEngine(catalogue)
			if err != nil {
				return err
			}

			model := tui.NewModel(bookingPath, validation.NewOrchestrator(engine))

			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cataloguePath, "catalogue", "", "Rules catalogue YAML")
	return cmd
}
