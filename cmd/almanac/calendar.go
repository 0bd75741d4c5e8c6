package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alderwick/almanac/internal/cli"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Inspect the active calendar",
	}
	cmd.AddCommand(calendarInfoCmd())
	cmd.AddCommand(calendarAtCmd())
	return cmd
}

func calendarInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the calendar's structure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cal, err := loadCalendar()
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatTitle(cal.Name))
			cmd.Printf("Week: %d days (%s)\n", cal.WeekLength(), strings.Join(cal.Weekdays, ", "))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Month\tDays\tLeap days")
			for _, m := range cal.Months {
				leap := ""
				if m.LeapDays > 0 {
					leap = fmt.Sprintf("%d", m.LeapDays)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", m.Name, m.Days, leap)
			}
			w.Flush()

			if len(cal.Seasons) > 0 {
				cmd.Println(cli.FormatTitle("Seasons"))
				for _, s := range cal.Seasons {
					cmd.Printf("  %s: days %d to %d\n", s.Name, s.DayStart, s.DayEnd)
				}
			}
			for _, moon := range cal.Moons {
				cmd.Println(cli.FormatTitle(fmt.Sprintf("Moon: %s", moon.Name)))
				cmd.Printf("  cycle %.4f days, %d phases\n", moon.CycleLength, len(moon.Phases))
			}
			if len(cal.Eras) > 0 {
				cmd.Println(cli.FormatTitle("Eras"))
				for _, e := range cal.Eras {
					if e.EndYear != nil {
						cmd.Printf("  %s: %d to %d\n", e.Name, e.StartYear, *e.EndYear)
					} else {
						cmd.Printf("  %s: from %d\n", e.Name, e.StartYear)
					}
				}
			}
			for _, c := range cal.Cycles {
				cmd.Printf("Cycle %s: %d entries based on %s\n", c.Name, len(c.Entries), c.BasedOn)
			}
			return nil
		},
	}
}

func calendarAtCmd() *cobra.Command {
	var dateText string

	cmd := &cobra.Command{
		Use:   "at",
		Short: "Show what the calendar says about a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := parseDate(dateText)
			if err != nil {
				return err
			}
			cal, err := loadCalendar()
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatTitle(date.String()))
			cmd.Printf("  weekday: %s\n", cal.WeekdayName(cal.DayOfWeek(date)))
			cmd.Printf("  month: %s (day %d of %d)\n",
				cal.MonthName(date.Month), date.Day, cal.DaysInMonth(date.Month, date.Year))
			doy := cal.DayOfYear(date)
			cmd.Printf("  day of year: %d of %d\n", doy, cal.DaysInYear(date.Year))
			if cal.IsLeapYear(date.Year) {
				cmd.Println("  leap year")
			}

			if idx, dayIn, length, ok := cal.SeasonPosition(doy, date.Year); ok {
				cmd.Printf("  season: %s (day %d of %d)\n", cal.Seasons[idx].Name, dayIn, length)
			}
			abs := cal.AbsoluteDay(date)
			for i, moon := range cal.Moons {
				if phase, fraction, ok := cal.MoonPhaseAt(i, abs); ok {
					cmd.Printf("  %s: %s (%.1f%% through cycle)\n",
						moon.Name, moon.Phases[phase].Name, fraction*100)
				}
			}
			if idx, eraYear, ok := cal.EraPosition(date.Year); ok {
				cmd.Printf("  era: %s, year %d\n", cal.Eras[idx].Name, eraYear)
			}
			for i, c := range cal.Cycles {
				if v, ok := cal.CycleValue(i, date); ok && v < len(c.Entries) {
					cmd.Printf("  %s: %s\n", c.Name, c.Entries[v])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateText, "date", "", "date to inspect (year/month/day, month is 1-based)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
