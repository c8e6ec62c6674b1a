package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// NewTestLogger returns a zap logger that writes through t.Log.
func NewTestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}
