package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/fallbackcache"
)

func TestLogrusLoggerFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Debug("deleted key", fallbackcache.Fields{"key": "k", "existed": true})
	l.Info("no fields", nil)

	require.Len(t, hook.Entries, 2)
	assert.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
	assert.Equal(t, "k", hook.Entries[0].Data["key"])
	assert.Equal(t, true, hook.Entries[0].Data["existed"])
	assert.Empty(t, hook.Entries[1].Data)
}
