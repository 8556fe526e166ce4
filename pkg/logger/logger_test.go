package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersSafeBeforeSetup(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Info("info line", "key", "value")
		Warn("warn line")
		Error("error line")
		Debug("debug line")
	})
}

func TestSetupReplacesLogger(t *testing.T) {
	before := Log
	Setup("production")
	assert.NotNil(t, Log)
	assert.NotSame(t, before, Log)

	Setup("development")
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() { Info("after setup") })
}
