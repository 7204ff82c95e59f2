package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the state database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Database: %s\n", health.DBPath)
				printCheck(out, colorize, "exists", health.DatabaseExists, "")
				printCheck(out, colorize, "readable", health.DatabaseReadable, "")
				printCheck(out, colorize, "schema", len(health.MissingTables) == 0,
					missingTablesMessage(health.MissingTables))
				printCheck(out, colorize, "integrity", health.IntegrityCheck, "")
				fmt.Fprintf(out, "  items:       %d\n", health.TotalItems)
				fmt.Fprintf(out, "  occurrences: %d\n", health.TotalOccurrences)

				if !health.DatabaseExists || !health.DatabaseReadable || len(health.MissingTables) > 0 || !health.IntegrityCheck {
					return fmt.Errorf("state database is unhealthy")
				}
				return nil
			})
		},
	}
}

func printCheck(out io.Writer, colorize bool, label string, ok bool, detail string) {
	status := "OK"
	color := ansiGreen
	if !ok {
		status = "FAIL"
		color = ansiRed
	}
	line := fmt.Sprintf("  %-12s [%s]", label+":", status)
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		line = color + line + ansiReset
	}
	fmt.Fprintln(out, line)
}

func missingTablesMessage(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	return "missing tables: " + strings.Join(missing, ", ")
}
