package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestKeysAreRedactedByDefault(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{})

	h.PrimaryFailed("user:secret@example.com", errors.New("db down"))

	out := buf.String()
	assert.Contains(t, out, "fallbackcache.primary_failed")
	assert.Contains(t, out, "db down")
	assert.NotContains(t, out, "secret@example.com")
}

func TestCustomRedactor(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{Redact: strings.ToUpper})

	h.FallbackMiss("abc", true)
	assert.Contains(t, buf.String(), "key=ABC")
	assert.Contains(t, buf.String(), "secondary=true")
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{FallbackHitEvery: 3})

	for i := 0; i < 9; i++ {
		h.FallbackHit("k")
	}
	assert.Equal(t, 3, strings.Count(buf.String(), "fallbackcache.fallback_hit"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.DeleteOutage("k", errors.New("a"), errors.New("b"))
	h.SelfHeal("k", "corrupt")
}
