package encoding_test

import (
	"testing"
	"time"

	"code.bbsnetwork.io/lm/config/encoding"
	"code.bbsnetwork.io/lm/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelText(t *testing.T) {
	var l encoding.LogLevel
	require.NoError(t, l.UnmarshalText([]byte("warning")))
	assert.Equal(t, logging.WarnLevel, l.Get())

	out, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Warning", string(out))

	assert.Error(t, l.UnmarshalText([]byte("loud")))
}

func TestDurationText(t *testing.T) {
	var d encoding.Duration
	require.NoError(t, d.UnmarshalFlag("36h"))
	assert.Equal(t, 36*time.Hour, d.Get())

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "36h0m0s", string(out))
}

func TestBoolFlag(t *testing.T) {
	var b encoding.Bool
	require.NoError(t, b.UnmarshalFlag("true"))
	assert.True(t, bool(b))
	assert.Error(t, b.UnmarshalFlag("yes"))
}
