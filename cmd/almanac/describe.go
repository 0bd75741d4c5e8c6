package main

import (
	"github.com/spf13/cobra"

	"github.com/alderwick/almanac/internal/cli"
)

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <note-or-spec>",
		Short: "Render an event's schedule as a sentence",
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

			spec, note, err := resolveSpec(ctx, store, args[0])
			if err != nil {
				return err
			}

			if note != nil {
				cmd.Println(cli.FormatTitle(note.Name))
				if note.Description != "" {
					cmd.Println(cli.FormatSubtle(note.Description))
				}
			}
			cmd.Println(eng.Describe(spec))
			return nil
		},
	}
}
