package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindDiscrimination(t *testing.T) {
	err := New(KindInsufficientData, "only %d rows", 3)

	assert.True(t, IsKind(err, KindInsufficientData))
	assert.False(t, IsKind(err, KindLoad))
	assert.Equal(t, KindInsufficientData, KindOf(err))
}

func TestKindSurvivesWrapping(t *testing.T) {
	// 经过 fmt.Errorf %w 包装后类别仍可判别
	inner := New(KindMissingColumn, "feature %q not available", "Ghost")
	wrapped := fmt.Errorf("scoring: %w", inner)

	assert.True(t, IsKind(wrapped, KindMissingColumn))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindLoad, cause, "load vendor summary")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "LOAD_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindLoad))
}

func TestWithStep(t *testing.T) {
	err := New(KindModelFit, "singular matrix").WithStep("anomaly")
	assert.Equal(t, "anomaly", err.Step)
}
