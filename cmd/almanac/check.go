package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alderwick/almanac/internal/cli"
	"github.com/alderwick/almanac/internal/engine"
	"github.com/alderwick/almanac/internal/model"
)

func checkCmd() *cobra.Command {
	var (
		dateText string
		explain  bool
	)

	cmd := &cobra.Command{
		Use:   "check <note-or-spec>",
		Short: "Check whether an event occurs on a date",
		Long: `Check whether an event occurs on a given date.

The argument is a note ID or name, or an inline JSON recurrence spec.
Dates are written year/month/day with a 1-based month.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			date, err := parseDate(dateText)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			eng, err := newEngine(store)
			if err != nil {
				return err
			}

			spec, note, err := resolveSpec(ctx, store, args[0])
			if err != nil {
				return err
			}

			label := "event"
			if note != nil {
				label = note.Name
			}

			if explain {
				printExplanation(cmd, eng, spec, date, label)
				return nil
			}

			if eng.IsOccurring(spec, date) {
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("✓ %s occurs on %s", label, date)))
			} else {
				cmd.Println(cli.FormatSubtle(fmt.Sprintf("✗ %s does not occur on %s", label, date)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateText, "date", "", "date to check (year/month/day, month is 1-based)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().BoolVar(&explain, "explain", false, "show each evaluation stage")

	return cmd
}

func printExplanation(cmd *cobra.Command, eng *engine.Engine, spec *model.RecurrenceSpec, date model.Date, label string) {
	ex := eng.Explain(spec, date)

	cmd.Println(cli.FormatTitle(fmt.Sprintf("%s on %s", label, date)))
	cmd.Printf("  %s %s\n", stageMark(ex.WithinBounds), "within start/end bounds")
	if ex.SpanCovered {
		cmd.Printf("  %s %s\n", stageMark(true), "inside a multi-day span")
	} else {
		cmd.Printf("  %s pattern match (%s)\n", stageMark(ex.PatternMatch), spec.Kind())
	}
	if ex.MoonFilter != nil {
		cmd.Printf("  %s moon conditions\n", stageMark(*ex.MoonFilter))
	}
	for _, cr := range ex.Conditions {
		detail := fmt.Sprintf("%s %s %v", cr.Condition.Field, cr.Condition.Op, cr.Condition.Value)
		if cr.Resolved {
			detail += fmt.Sprintf(" (observed %v)", cr.Value)
		} else {
			detail += " (field unavailable on this calendar)"
		}
		cmd.Printf("  %s condition: %s\n", stageMark(cr.Passed), detail)
	}

	if ex.Occurring {
		cmd.Println(cli.FormatSuccess("→ occurs"))
	} else {
		cmd.Println(cli.FormatWarning("→ does not occur"))
	}
}

func stageMark(ok bool) string {
	if ok {
		return cli.FormatSuccess("✓")
	}
	return cli.FormatError("✗")
}
