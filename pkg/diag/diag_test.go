package diag_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specvital/testplan/pkg/diag"
)

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  slog.Level
	}{
		{1, slog.LevelInfo},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{4, slog.LevelDebug},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, diag.SlogLevel(tt.level), "level %d", tt.level)
	}
}

func TestSlogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	sink := diag.NewSlogSink(slog.New(handler), "testclass")

	sink.Record(2, "planned class")
	sink.Record(4, "Rejecting method")

	out := buf.String()
	assert.Contains(t, out, "planned class")
	assert.Contains(t, out, "subsystem=testclass")
	assert.Contains(t, out, "verbosity=2")
	assert.NotContains(t, out, "Rejecting method", "debug records are filtered at info level")
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var rec diag.Recorder

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(level int) {
			defer wg.Done()
			rec.Record(level%5, "msg")
		}(i)
	}
	wg.Wait()

	assert.Len(t, rec.Entries(), 20)
	assert.Len(t, rec.Messages(1), 8)
}

func TestEntry_String(t *testing.T) {
	t.Parallel()

	var rec diag.Recorder
	rec.Record(3, "hello")

	assert.Equal(t, []diag.Entry{{Level: 3, Message: "hello"}}, rec.Entries())
	assert.Equal(t, "[3] hello", rec.Entries()[0].String())
}
