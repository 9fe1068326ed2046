package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFields_Constructors(t *testing.T) {
	now := time.Now()

	require.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	require.Equal(t, Field{Key: "k", Value: 1}, Int("k", 1))
	require.Equal(t, Field{Key: "k", Value: true}, Bool("k", true))
	require.Equal(t, Field{Key: "k", Value: now}, Time("k", now))
	require.Equal(t, Field{Key: "k", Value: time.Second}, Duration("k", time.Second))
	require.Equal(t, Field{Key: "err", Value: "boom"}, Err(errors.New("boom")))
	require.Equal(t, Field{Key: "err", Value: ""}, Err(nil))
	require.Equal(t, Field{Key: "component", Value: "realtime"}, Component("realtime"))
}

func TestNopLogger_NoPanic(t *testing.T) {
	l := Nop()
	l.Debug("d", String("k", "v"))
	l.Info("i", Int("n", 1))
	l.Warn("w")
	l.Error("e")

	l2 := l.With(String("x", "y"))
	require.NotNil(t, l2)
	require.NoError(t, l2.Sync())
}

func TestNewJSON_DebugOnlyInDevMode(t *testing.T) {
	var prod, dev bytes.Buffer

	NewJSON(&prod, false).Debug("hidden")
	NewJSON(&dev, true).Debug("shown", String("k", "v"))

	require.Empty(t, prod.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(dev.Bytes(), &entry))
	require.Equal(t, "shown", entry["msg"])
	require.Equal(t, "v", entry["k"])
}

func TestSlogAdapter_WithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, false).With(Component("offers"))

	l.Warn("offer expired", String("offer_id", "d-1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "offers", entry["component"])
	require.Equal(t, "d-1", entry["offer_id"])
	require.Equal(t, "WARN", entry["level"])
}
