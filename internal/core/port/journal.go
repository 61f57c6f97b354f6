package port

import (
	"context"
	"imagesvc/internal/core/domain"
)

type StepRecorder interface {
	// Record appends a step record to the journal. It never fails from the caller's point of view.
	Record(ctx context.Context, record domain.LogRecord)
}
