package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
	"phrasecut/internal/logging"
	"phrasecut/internal/pipeline"
	"phrasecut/internal/services/conceptllm"
	"phrasecut/internal/services/ffmpeg"
	"phrasecut/internal/services/llm"
	"phrasecut/internal/services/whisperx"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run [dir]",
		Short: "Scan the media directory and process every item through all stages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logging: %w", err)
				}

				root := cfg.Paths.MediaDir
				if len(args) == 1 {
					root = args[0]
				}

				runner := pipeline.NewRunner(cfg, store, logger, buildProcessors(cfg, logger))

				runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				report, err := runner.Run(runCtx, root)
				if errors.Is(err, pipeline.ErrRunActive) {
					return errors.New("another phrasecut run is already active; wait for it to finish")
				}
				if err != nil {
					return err
				}
				printRunReport(cmd, report)
				return nil
			})
		},
	}
}

// buildProcessors wires the stage processors from configuration.
func buildProcessors(cfg *config.Config, logger *slog.Logger) pipeline.Processors {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.Extractor.APIKey,
		BaseURL:        cfg.Extractor.BaseURL,
		Model:          cfg.Extractor.Model,
		TimeoutSeconds: cfg.Extractor.TimeoutSeconds,
	})
	return pipeline.Processors{
		Audio: ffmpeg.NewExtractor(cfg, logger),
		Speech: whisperx.NewService(whisperx.Config{
			Model:       cfg.Transcriber.Model,
			Language:    cfg.Transcriber.Language,
			CUDAEnabled: cfg.Transcriber.CUDAEnabled,
		}),
		Concepts: conceptllm.NewExtractor(client, cfg.Extractor.BatchSize, logger),
		Renderer: ffmpeg.NewRenderer(cfg, logger),
	}
}

func printRunReport(cmd *cobra.Command, report pipeline.RunReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scan: %d scanned, %d new, %d changed, %d unchanged, %d skipped\n",
		report.Scan.Scanned, report.Scan.New, report.Scan.Changed, report.Scan.Unchanged, report.Scan.Skipped)

	headers := []string{"Stage", "Eligible", "Advanced", "Failed", "Held"}
	rows := make([][]string, 0, len(report.Stages))
	for _, stage := range report.Stages {
		rows = append(rows, []string{
			stage.Stage,
			fmt.Sprintf("%d", stage.Eligible),
			fmt.Sprintf("%d", stage.Advanced),
			fmt.Sprintf("%d", stage.Failed),
			fmt.Sprintf("%d", stage.Held),
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}))
}
