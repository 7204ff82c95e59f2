package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
)

func newFrequencyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "frequency",
		Short: "Show how often each idiom has occurred, most frequent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				counts, err := store.OccurrenceFrequency(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(counts) == 0 {
					fmt.Fprintln(out, "No occurrences recorded yet")
					return nil
				}
				rows := make([][]string, 0, len(counts))
				for _, count := range counts {
					rows = append(rows, []string{count.Label, fmt.Sprintf("%d", count.Count)})
				}
				fmt.Fprintln(out, renderTable([]string{"Idiom", "Occurrences"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}
