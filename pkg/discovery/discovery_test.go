package discovery_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/germanamz/modelsync/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDiscover_EmptyKeySkipsCall(t *testing.T) {
	var buf bytes.Buffer
	called := false

	res := discovery.Discover(context.Background(), newLogger(&buf), "groq", "", func(string) discovery.Lister {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.Equal(t, discovery.Skipped, res.Status)
	assert.Equal(t, "groq", res.Provider)
	assert.Empty(t, res.Models)
	assert.NoError(t, res.Err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "provider=groq")
}

func TestDiscover_Success(t *testing.T) {
	var buf bytes.Buffer
	var gotKey string

	res := discovery.Discover(context.Background(), newLogger(&buf), "gemini", "k-1", func(key string) discovery.Lister {
		gotKey = key
		return discovery.ListerFunc(func(context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		})
	})

	assert.Equal(t, "k-1", gotKey)
	assert.Equal(t, discovery.OK, res.Status)
	assert.Equal(t, []string{"a", "b"}, res.Models)
	assert.Contains(t, buf.String(), "count=2")
}

func TestDiscover_ErrorIsAbsorbed(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("connection reset")

	res := discovery.Discover(context.Background(), newLogger(&buf), "groq", "k", func(string) discovery.Lister {
		return discovery.ListerFunc(func(context.Context) ([]string, error) {
			return []string{"partial"}, boom
		})
	})

	assert.Equal(t, discovery.Failed, res.Status)
	assert.Empty(t, res.Models)
	require.ErrorIs(t, res.Err, boom)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "connection reset")
}
