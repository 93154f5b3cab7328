package utils

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	assert.Equal(t, Index{2, 3, 4}, NewRange(2, 4))
	assert.Empty(t, NewRange(3, 1))
	I := Index{5, 1, 3}
	assert.Equal(t, Index{1, 3, 5}, I.Sorted())
	assert.Equal(t, Index{5, 1, 3}, I)
	assert.True(t, I.Contains(3))
	assert.False(t, I.Contains(4))
	assert.True(t, I.Equal(I.Copy()))
	assert.False(t, I.Equal(Index{5, 1}))
}

func TestIsNan(t *testing.T) {
	assert.True(t, IsNan([]float64{0, math.NaN()}))
	assert.True(t, IsNan([][]float64{{1}, {math.NaN()}}))
	assert.False(t, IsNan([]float64{1, 2}))
	assert.NotEmpty(t, GetMemUsage())
}

func TestLogger(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("loud"))

	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo).WithComponent("mesh").WithElement(2, 7)
	log.Debug("hidden")
	log.Info("inserted")
	assert.Contains(t, buf.String(), "component=mesh")
	assert.Contains(t, buf.String(), "dimension=2 id=7")
	assert.NotContains(t, buf.String(), "hidden")

	var nilLog *Logger
	assert.Same(t, DefaultLogger(), nilLog.OrDefault())
	NoopLogger().Warn("discarded")
}
