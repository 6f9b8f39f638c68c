package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/fallbackcache"
)

func TestLoggerWritesFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	l.Warn("gen snapshot error", fallbackcache.Fields{"key": "fb:rates:EUR", "err": errors.New("redis down")})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "gen snapshot error", line["message"])
	assert.Equal(t, "fb:rates:EUR", line["key"])
	assert.Equal(t, "redis down", line["err"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: zerolog.New(&buf).Level(zerolog.InfoLevel)}

	l.Debug("dropped unusable entry", fallbackcache.Fields{"reason": "corrupt"})
	assert.Zero(t, buf.Len())

	l.Info("hello", nil)
	assert.NotZero(t, buf.Len())
}
