package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/alderwick/almanac/internal/cli"
	"github.com/alderwick/almanac/internal/model"
	"github.com/alderwick/almanac/internal/service"
)

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage event notes",
		Long:  `Create, list, inspect, and delete the event notes the engine schedules.`,
	}

	cmd.AddCommand(addNoteCmd())
	cmd.AddCommand(listNotesCmd())
	cmd.AddCommand(showNoteCmd())
	cmd.AddCommand(deleteNoteCmd())
	cmd.AddCommand(regenerateCmd())

	return cmd
}

func addNoteCmd() *cobra.Command {
	var (
		specText    string
		description string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a note",
		Long: `Create a note with a recurrence spec. The spec is JSON, either inline
or @path to read it from a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data := []byte(specText)
			if strings.HasPrefix(specText, "@") {
				var err error
				data, err = os.ReadFile(specText[1:])
				if err != nil {
					return fmt.Errorf("failed to read spec file: %w", err)
				}
			}
			spec, err := model.ParseSpec(data)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			now := time.Now()
			note := &model.Note{
				ID:          uuid.New().String(),
				Name:        args[0],
				Description: description,
				Category:    category,
				Spec:        *spec,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := note.Validate(); err != nil {
				return err
			}
			if err := store.CreateNote(ctx, note); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Created note %q (%s)", note.Name, note.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&specText, "spec", "", "recurrence spec as JSON, or @file")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

func listNotesCmd() *cobra.Command {
	var (
		category string
		kind     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			notes, err := store.ListNotes(ctx, service.NoteFilter{
				Category: category,
				Kind:     model.RepeatKind(kind),
			})
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				cmd.Println(cli.FormatSubtle("No notes found. Use 'almanac notes add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Name\tKind\tCategory\tSchedule")
			for i := range notes {
				n := &notes[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.Name, n.Spec.Kind(), n.Category, eng.Describe(&n.Spec))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only notes in this category")
	cmd.Flags().StringVar(&kind, "kind", "", "only notes with this repeat kind")

	return cmd
}

func showNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <note>",
		Short: "Show one note in full",
		Args:  cobra.ExactArgs(1),
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

			note, err := findNote(ctx, store, args[0])
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatTitle(note.Name))
			if note.Description != "" {
				cmd.Println(note.Description)
			}
			cmd.Printf("ID:       %s\n", note.ID)
			if note.Category != "" {
				cmd.Printf("Category: %s\n", note.Category)
			}
			cmd.Printf("Schedule: %s\n", eng.Describe(&note.Spec))
			cmd.Printf("Starts:   %s\n", note.Spec.StartDate)
			if note.Spec.RepeatEndDate != nil {
				cmd.Printf("Ends:     %s\n", note.Spec.RepeatEndDate)
			}
			cmd.Println(cli.FormatSubtle(fmt.Sprintf("created %s, updated %s",
				note.CreatedAt.Format("2006-01-02"), note.UpdatedAt.Format("2006-01-02"))))
			return nil
		},
	}
}

func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note>",
		Short: "Delete a note and its cached occurrences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			note, err := findNote(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteNote(ctx, note.ID); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Deleted note %q", note.Name)))
			return nil
		},
	}
}

func regenerateCmd() *cobra.Command {
	var horizonYears int

	cmd := &cobra.Command{
		Use:   "regenerate [note]",
		Short: "Rebuild occurrence caches for random events",
		Long: `Enumerate each random event's occurrences from its start date over the
horizon and save them to the occurrence cache, so later range queries
read the cache instead of rescanning day by day.

With no argument every random note is regenerated.`,
		Args: cobra.MaximumNArgs(1),
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

			var notes []model.Note
			if len(args) == 1 {
				note, err := findNote(ctx, store, args[0])
				if err != nil {
					return err
				}
				notes = append(notes, *note)
			} else {
				notes, err = store.ListNotes(ctx, service.NoteFilter{Kind: model.RepeatRandom})
				if err != nil {
					return err
				}
			}
			if len(notes) == 0 {
				cmd.Println(cli.FormatSubtle("No random notes to regenerate."))
				return nil
			}

			bar := progressbar.NewOptions(len(notes),
				progressbar.OptionSetDescription("Regenerating occurrence caches"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			now := time.Now()
			for i := range notes {
				n := &notes[i]
				if n.Spec.Kind() != model.RepeatRandom {
					_ = bar.Add(1)
					continue
				}
				from := n.Spec.StartDate
				to := eng.Calendar().AddYears(from, horizonYears)
				if n.Spec.RepeatEndDate != nil && n.Spec.RepeatEndDate.Before(to) {
					to = *n.Spec.RepeatEndDate
				}
				dates := eng.OccurrencesInRange(&n.Spec, from, to, 0)
				if err := store.SaveOccurrenceCache(ctx, n.ID, now, dates); err != nil {
					return fmt.Errorf("failed to cache occurrences for %q: %w", n.Name, err)
				}
				_ = bar.Add(1)
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Regenerated %d cache(s)", len(notes))))
			return nil
		},
	}

	cmd.Flags().IntVar(&horizonYears, "horizon", 10, "years past each note's start to precompute")

	return cmd
}
