package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alderwick/almanac/internal/cli"
	"github.com/alderwick/almanac/internal/engine"
	"github.com/alderwick/almanac/internal/model"
	"github.com/alderwick/almanac/internal/storage"
)

func occurrencesCmd() *cobra.Command {
	var (
		fromText string
		toText   string
		maxCount int
	)

	cmd := &cobra.Command{
		Use:   "occurrences <note-or-spec>",
		Short: "List an event's occurrences in a date range",
		Long: `List every date on which an event occurs between --from and --to,
inclusive. Random events read from the note's occurrence cache when one
has been generated (see 'almanac notes regenerate').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			from, err := parseDate(fromText)
			if err != nil {
				return err
			}
			to, err := parseDate(toText)
			if err != nil {
				return err
			}
			if to.Before(from) {
				return fmt.Errorf("--to %s precedes --from %s", to, from)
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

			dates := rangeOccurrences(ctx, eng, store, spec, note, from, to, maxCount)

			if len(dates) == 0 {
				cmd.Println(cli.FormatSubtle(fmt.Sprintf("No occurrences between %s and %s", from, to)))
				return nil
			}

			cmd.Println(cli.FormatTitle(fmt.Sprintf("%d occurrence(s) between %s and %s", len(dates), from, to)))
			for _, d := range dates {
				cmd.Printf("  %s  %s\n", d, cli.FormatSubtle(eng.Calendar().WeekdayName(eng.Calendar().DayOfWeek(d))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromText, "from", "", "range start (year/month/day, inclusive)")
	cmd.Flags().StringVar(&toText, "to", "", "range end (year/month/day, inclusive)")
	cmd.Flags().IntVar(&maxCount, "max", 0, "stop after this many occurrences (0 = no limit)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// rangeOccurrences prefers a note's saved occurrence cache for random
// events and falls back to a live enumeration otherwise.
func rangeOccurrences(ctx context.Context, eng *engine.Engine, store *storage.SQLiteStore, spec *model.RecurrenceSpec, note *model.Note, from, to model.Date, maxCount int) []model.Date {
	if note != nil && spec.Kind() == model.RepeatRandom {
		cached, ok, err := store.GetOccurrenceCache(ctx, note.ID)
		if err != nil {
			slog.Warn("failed to read occurrence cache", "note_id", note.ID, "error", err)
		} else if ok {
			return eng.CachedOccurrencesInRange(cached, from, to, maxCount)
		}
	}
	return eng.OccurrencesInRange(spec, from, to, maxCount)
}
