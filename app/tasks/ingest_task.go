package tasks

import (
	"context"
	"log/slog"

	"github.com/antonvlasov/newshub/app/ingest"
)

// IngestTask runs one full ingestion pass over all configured providers.
// Individual provider failures are absorbed into the report, so a task error
// means the store itself misbehaved.
type IngestTask struct {
	Task
	orchestrator *ingest.Orchestrator
}

func NewIngestTask(orchestrator *ingest.Orchestrator) *IngestTask {
	return &IngestTask{
		Task:         NewTask(TaskTypeIngest),
		orchestrator: orchestrator,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	report, err := t.orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "Ingest",
		"duration", t.GetDuration(),
		"created", report.Created,
		"skipped", report.Skipped)

	return nil
}
