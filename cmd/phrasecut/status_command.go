package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
)

type statusReport struct {
	Counts map[string]int   `json:"counts"`
	Total  int              `json:"total"`
	Items  []statusItemView `json:"items,omitempty"`
}

type statusItemView struct {
	Path           string    `json:"path"`
	Status         string    `json:"status"`
	LastUpdated    time.Time `json:"last_updated"`
	AudioPath      string    `json:"audio_path,omitempty"`
	TranscriptPath string    `json:"transcript_path,omitempty"`
	ConceptsPath   string    `json:"concepts_path,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var allItems bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-status counts and tracked items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				report := statusReport{Counts: make(map[string]int, len(stats))}
				for _, status := range catalog.AllStatuses() {
					report.Counts[string(status)] = stats[status]
					report.Total += stats[status]
				}

				var items []*catalog.Item
				if allItems || asJSON {
					items, err = store.List(cmd.Context())
					if err != nil {
						return err
					}
				}

				if asJSON {
					for _, item := range items {
						report.Items = append(report.Items, statusItemView{
							Path:           item.Path,
							Status:         string(item.Status),
							LastUpdated:    item.LastUpdated,
							AudioPath:      item.AudioPath,
							TranscriptPath: item.TranscriptPath,
							ConceptsPath:   item.ConceptsPath,
						})
					}
					return writeJSON(cmd, report)
				}

				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(report.Counts)+1)
				for _, status := range catalog.AllStatuses() {
					rows = append(rows, []string{string(status), fmt.Sprintf("%d", stats[status])})
				}
				rows = append(rows, []string{"total", fmt.Sprintf("%d", report.Total)})
				fmt.Fprintln(out, renderTable([]string{"Status", "Items"}, rows, []columnAlignment{alignLeft, alignRight}))

				if !allItems {
					return nil
				}
				itemRows := make([][]string, 0, len(items))
				for _, item := range items {
					itemRows = append(itemRows, []string{
						filepath.Base(item.Path),
						string(item.Status),
						item.LastUpdated.Local().Format("2006-01-02 15:04:05"),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Item", "Status", "Updated"}, itemRows, []columnAlignment{alignLeft, alignLeft, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&allItems, "items", "i", false, "List every tracked item")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}
