package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alderwick/almanac/internal/cli"
	"github.com/alderwick/almanac/internal/model"
)

func resolveCmd() *cobra.Command {
	var (
		year  int
		years int
	)

	cmd := &cobra.Command{
		Use:   "resolve <note-or-spec>",
		Short: "Resolve a computed event's date for a year",
		Long: `Resolve the concrete date of a computed event for one or more years
by running its anchor-and-step chain against the calendar.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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
			if spec.Kind() != model.RepeatComputed || spec.ComputedConfig == nil {
				return fmt.Errorf("resolve requires a computed event, got kind %q", spec.Kind())
			}
			if years < 1 {
				years = 1
			}

			if note != nil {
				cmd.Println(cli.FormatTitle(note.Name))
			}
			for y := year; y < year+years; y++ {
				date := eng.ResolveComputedDate(spec.ComputedConfig, y)
				if date == nil {
					cmd.Printf("  %d: %s\n", y, cli.FormatWarning("unresolvable"))
					continue
				}
				cal := eng.Calendar()
				cmd.Printf("  %d: %s (%s)\n", y, date, cli.FormatSubtle(cal.WeekdayName(cal.DayOfWeek(*date))))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "first year to resolve")
	cmd.Flags().IntVar(&years, "years", 1, "number of consecutive years")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
