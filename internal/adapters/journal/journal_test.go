package journal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"imagesvc/internal/core/domain"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m), "line %q", scanner.Text())
		out = append(out, m)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestRecord(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ctx       context.Context
		record    domain.LogRecord
		wantLevel string
		wantID    string
	}{
		{
			name:      "ok record",
			ctx:       context.Background(),
			record:    domain.LogRecord{Timestamp: ts, RequestID: "r1", Step: domain.StageDecode, Status: domain.StatusOK, Message: "decoded"},
			wantLevel: "info",
			wantID:    "r1",
		},
		{
			name:      "error record takes request id from context",
			ctx:       domain.WithRequestID(context.Background(), "from-ctx"),
			record:    domain.LogRecord{Timestamp: ts, Step: domain.StageTransform, Status: domain.StatusError, Message: "too wide"},
			wantLevel: "error",
			wantID:    "from-ctx",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			j := New(&buf)

			j.Record(tc.ctx, tc.record)

			lines := decodeLines(t, buf.Bytes())
			require.Len(t, lines, 1)
			assert.Equal(t, tc.wantLevel, lines[0]["level"])
			assert.Equal(t, tc.wantID, lines[0]["request_id"])
			assert.Equal(t, string(tc.record.Step), lines[0]["step"])
			assert.Equal(t, string(tc.record.Status), lines[0]["status"])
			assert.Equal(t, tc.record.Message, lines[0]["message"])
			assert.Equal(t, ts.Format(time.RFC3339), lines[0]["time"])
		})
	}
}

func TestRecordFillsTimestamp(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Record(context.Background(), domain.LogRecord{Step: domain.StageEncode, Status: domain.StatusOK})

	lines := decodeLines(t, buf.Bytes())
	require.Len(t, lines, 1)
	assert.NotEmpty(t, lines[0]["time"])
}

func TestRecordIgnoresGlobalLevel(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	defer zerolog.SetGlobalLevel(previous)

	var buf bytes.Buffer
	New(&buf).Record(context.Background(), domain.LogRecord{Step: domain.StageDecode, Status: domain.StatusOK})

	assert.Len(t, decodeLines(t, buf.Bytes()), 1)
}

func TestRecordConcurrent(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)

	const workers = 32
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				j.Record(context.Background(), domain.LogRecord{
					RequestID: fmt.Sprintf("worker-%d", w),
					Step:      domain.StageTransform,
					Status:    domain.StatusOK,
					Message:   strings.Repeat("x", 256),
				})
			}
		}(w)
	}
	wg.Wait()

	lines := decodeLines(t, buf.Bytes())
	assert.Len(t, lines, workers*perWorker)
}

func TestRecordSwallowsWriteErrors(t *testing.T) {
	var reported bytes.Buffer
	previous := zerolog.ErrorHandler
	ReportErrorsTo(&reported)
	defer func() { zerolog.ErrorHandler = previous }()

	j := New(failingWriter{})

	assert.NotPanics(t, func() {
		j.Record(context.Background(), domain.LogRecord{Step: domain.StageDecode, Status: domain.StatusOK})
	})
	assert.Contains(t, reported.String(), "disk full")
}

func TestOpenAppendsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	for i := 0; i < 2; i++ {
		j, err := Open(path, nil)
		require.NoError(t, err)
		j.Record(context.Background(), domain.LogRecord{
			RequestID: fmt.Sprintf("run-%d", i),
			Step:      domain.StageRespond,
			Status:    domain.StatusOK,
		})
		require.NoError(t, j.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := decodeLines(t, data)
	require.Len(t, lines, 2)
	assert.Equal(t, "run-0", lines[0]["request_id"])
	assert.Equal(t, "run-1", lines[1]["request_id"])
}

func TestOpenMirrorsToConsole(t *testing.T) {
	var console bytes.Buffer
	j, err := Open(filepath.Join(t.TempDir(), "app.log"), &console)
	require.NoError(t, err)
	defer j.Close()

	j.Record(context.Background(), domain.LogRecord{Step: domain.StageDecode, Status: domain.StatusOK, Message: "hi"})

	assert.Contains(t, console.String(), `"message":"hi"`)
}

func TestCloseWithoutFile(t *testing.T) {
	assert.NoError(t, New(&bytes.Buffer{}).Close())
}
