package logger

import (
	"strings"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.DEBUG, ParseLevel("debug"))
	assert.Equal(t, logging.WARNING, ParseLevel("WARN"))
	assert.Equal(t, logging.ERROR, ParseLevel(" error "))
	assert.Equal(t, logging.INFO, ParseLevel("bogus"))
}

func TestGetLogsFiltersBySeverity(t *testing.T) {
	Debug("debug-entry")
	Warningf("warn-%d", 1)
	Errorf("error-%d", 2)

	got := GetLogs(10, "warning")
	joined := strings.Join(got, "\n")
	assert.Contains(t, joined, "warn-1")
	assert.Contains(t, joined, "error-2")
	assert.NotContains(t, joined, "debug-entry")
	// newest first
	assert.True(t, strings.Contains(got[0], "error-2"))
}

func TestGetLogsLimit(t *testing.T) {
	for i := 0; i < 5; i++ {
		Infof("limit-%d", i)
	}
	assert.Len(t, GetLogs(3, "debug"), 3)
}
