package journal

import (
	"context"
	"fmt"
	"imagesvc/internal/adapters/file"
	"imagesvc/internal/core/domain"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Journal appends step records as JSON lines. Each record is a single write to the sink.
type Journal struct {
	logger zerolog.Logger
	sink   io.Writer
	file   *os.File
}

// New creates a journal writing to w. Writes are serialized, so w does not need to be safe for concurrent use.
func New(w io.Writer) *Journal {
	sink := zerolog.SyncWriter(w)
	return &Journal{logger: zerolog.New(sink), sink: sink}
}

// Open creates a journal appending to the file at path. When console is not nil, records are mirrored to it.
func Open(path string, console io.Writer) (*Journal, error) {
	f, err := file.OpenAppend(path)
	if err != nil {
		return nil, err
	}

	writers := []io.Writer{zerolog.SyncWriter(f)}
	if console != nil {
		writers = append(writers, zerolog.SyncWriter(console))
	}

	sink := zerolog.MultiLevelWriter(writers...)

	return &Journal{logger: zerolog.New(sink), sink: sink, file: f}, nil
}

// Writer returns the sink of the journal so process logs can share its destination.
func (j *Journal) Writer() io.Writer {
	return j.sink
}

// Record writes rec. Records bypass the global level filter and write errors go to zerolog.ErrorHandler.
func (j *Journal) Record(ctx context.Context, rec domain.LogRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	if rec.RequestID == "" {
		rec.RequestID = domain.RequestID(ctx)
	}

	level := zerolog.InfoLevel
	if rec.Status == domain.StatusError {
		level = zerolog.ErrorLevel
	}

	j.logger.Log().
		Str(zerolog.LevelFieldName, level.String()).
		Time(zerolog.TimestampFieldName, rec.Timestamp).
		Str("request_id", rec.RequestID).
		Str("step", string(rec.Step)).
		Str("status", string(rec.Status)).
		Msg(rec.Message)
}

// Close flushes the log file to disk and closes it.
func (j *Journal) Close() error {
	if j.file == nil {
		return nil
	}

	if err := j.file.Sync(); err != nil {
		_ = j.file.Close()
		return fmt.Errorf("error syncing log file %w", err)
	}

	return j.file.Close()
}

// ReportErrorsTo sends logger write failures to w instead of the request path.
func ReportErrorsTo(w io.Writer) {
	zerolog.ErrorHandler = func(err error) {
		_, _ = fmt.Fprintf(w, "imagesvc: log write failed: %v\n", err)
	}
}
