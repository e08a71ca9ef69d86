package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json output carries component field", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Options{Level: "debug", Format: "json", Output: &buf})
		require.NoError(t, err)

		Component(l, "store").Debug("item created", "id", 7)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "item created", entry["msg"])
		assert.Equal(t, "store", entry["component"])
		assert.Equal(t, float64(7), entry["id"])
	})

	t.Run("level filters lower messages", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Options{Level: "warn", Output: &buf})
		require.NoError(t, err)

		l.Info("hidden")
		assert.Empty(t, buf.String())
		l.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(Options{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := New(Options{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.NotPanics(t, func() { l.Error("dropped") })
}
