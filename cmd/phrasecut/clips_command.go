package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clips <idiom>",
		Short: "List every recorded clip for one idiom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				label := args[0]
				occurrences, err := store.OccurrencesForLabel(cmd.Context(), label)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(occurrences) == 0 {
					fmt.Fprintf(out, "No occurrences recorded for %q\n", label)
					return nil
				}
				rows := make([][]string, 0, len(occurrences))
				for _, occ := range occurrences {
					clip := occ.ClipPath
					if clip == "" {
						clip = "(not rendered)"
					}
					rows = append(rows, []string{
						filepath.Base(occ.SourcePath),
						fmt.Sprintf("%.2fs", occ.Start),
						fmt.Sprintf("%.2fs", occ.End),
						clip,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Source", "Start", "End", "Clip"}, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
				return nil
			})
		},
	}
}
