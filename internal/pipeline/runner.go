package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
	"phrasecut/internal/logging"
	"phrasecut/internal/registry"
)

// ErrRunActive is returned when another pipeline run holds the run lock.
var ErrRunActive = errors.New("another pipeline run is already active")

// errPersistence marks store failures, which abort the current stage loop
// instead of being swallowed at item granularity.
var errPersistence = errors.New("persistence failure")

// Runner drives items through the stage table. All processing is sequential;
// correctness rests on durable status transitions, not coordination.
type Runner struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
	procs  Processors
	reg    *registry.Registry
	lock   *flock.Flock
}

// NewRunner constructs a pipeline runner.
func NewRunner(cfg *config.Config, store *catalog.Store, logger *slog.Logger, procs Processors) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		procs:  procs,
		reg:    registry.New(store, logger),
		lock:   flock.New(filepath.Join(cfg.Paths.LogDir, "phrasecut.lock")),
	}
}

// StageReport counts the outcomes of one stage loop.
type StageReport struct {
	Stage    string
	Eligible int
	Advanced int
	Failed   int
	Held     int
}

// RunReport summarizes one full pipeline invocation.
type RunReport struct {
	Scan   registry.Summary
	Stages []StageReport
}

// Run syncs the registry and drives every stage once, in order. Individual
// processor failures are logged and leave the item's status untouched so a
// later run retries it; store failures abort the run. Two concurrent Runs
// against the same state directory are excluded via a file lock.
func (r *Runner) Run(ctx context.Context, root string) (RunReport, error) {
	var report RunReport

	locked, err := r.lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return report, ErrRunActive
	}
	defer func() { _ = r.lock.Unlock() }()

	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))
	start := time.Now()
	logger.Info("pipeline run started", logging.String("root", root))

	report.Scan, err = r.reg.Sync(ctx, root)
	if err != nil {
		return report, fmt.Errorf("registry sync: %w", err)
	}

	for _, spec := range r.stages() {
		stageReport, err := r.runStage(ctx, logger, spec)
		report.Stages = append(report.Stages, stageReport)
		if err != nil {
			return report, err
		}
	}

	logger.Info("pipeline run finished", logging.Duration("elapsed", time.Since(start)))
	return report, nil
}

// stageResult carries a successful stage invocation's outcome. Hold means
// the item must not advance yet (some clip renders were left for retry).
type stageResult struct {
	artifacts []catalog.ArtifactUpdate
	hold      bool
}

type stageSpec struct {
	name string
	from catalog.Status
	to   catalog.Status
	run  func(ctx context.Context, logger *slog.Logger, item *catalog.Item) (stageResult, error)
}

// stages is the transition table: precondition status, processor, and the
// status plus artifact fields written on success.
func (r *Runner) stages() []stageSpec {
	return []stageSpec{
		{name: "audio", from: catalog.StatusPending, to: catalog.StatusAudioExtracted, run: r.runAudio},
		{name: "transcribe", from: catalog.StatusAudioExtracted, to: catalog.StatusTranscriptDone, run: r.runTranscribe},
		{name: "concepts", from: catalog.StatusTranscriptDone, to: catalog.StatusConceptsDone, run: r.runConcepts},
		{name: "render", from: catalog.StatusConceptsDone, to: catalog.StatusCompleted, run: r.runRender},
	}
}

func (r *Runner) runStage(ctx context.Context, logger *slog.Logger, spec stageSpec) (StageReport, error) {
	report := StageReport{Stage: spec.name}
	stageLogger := logger.With(logging.String(logging.FieldStage, spec.name))

	items, err := r.store.ItemsByStatus(ctx, spec.from)
	if err != nil {
		return report, fmt.Errorf("list items for stage %s: %w", spec.name, err)
	}
	report.Eligible = len(items)
	if len(items) == 0 {
		return report, nil
	}

	stageLogger.Info("stage started", logging.Int("eligible", len(items)))

	for _, item := range items {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		itemLogger := stageLogger.With(logging.String(logging.FieldItem, item.Path))

		result, err := spec.run(ctx, itemLogger, item)
		if err != nil {
			if errors.Is(err, errPersistence) {
				return report, err
			}
			report.Failed++
			itemLogger.Error("stage processor failed, item left for retry", logging.Error(err))
			continue
		}
		if result.hold {
			report.Held++
			continue
		}

		if err := r.store.UpdateStatus(ctx, item.Path, spec.to, result.artifacts...); err != nil {
			return report, fmt.Errorf("advance %s to %s: %w", item.Path, spec.to, err)
		}
		report.Advanced++
		itemLogger.Info("stage completed", logging.String("next_status", string(spec.to)))
	}

	stageLogger.Info("stage finished",
		logging.Int("advanced", report.Advanced),
		logging.Int("failed", report.Failed),
		logging.Int("held", report.Held),
	)
	return report, nil
}
