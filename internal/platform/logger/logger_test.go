package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud")

	assert.Error(t, err)
}
