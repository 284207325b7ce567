package jlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsToInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, 0)
	assert.Equal(t, log.InfoLevel, l.GetLevel())

	l.Debug("should not appear")
	assert.Empty(t, buf.String())

	l.Info("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, 1)
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.Debug("visible now")
	assert.Contains(t, buf.String(), "visible now")
}

func TestUnderrunIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, 0)
	l.Underrun(42, 128)

	out := buf.String()
	assert.True(t, strings.Contains(out, "underrun"))
	assert.True(t, strings.Contains(out, "42"))
	assert.True(t, strings.Contains(out, "128"))
}
