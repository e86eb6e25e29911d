package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinner_NonTTYIsSilent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Connecting", false)
	err := s.Run(func() error { return nil })
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSpinner_TTY(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Connecting", true)
	s.Start()
	s.Tick()
	s.Stop()
	out := buf.String()
	assert.Contains(t, out, "⠋ Connecting...")
	assert.Contains(t, out, "\r⠙ Connecting...")
}

func TestSpinner_RunReturnsError(t *testing.T) {
	var buf bytes.Buffer
	want := errors.New("boom")
	err := newSpinner(&buf, "x", true).Run(func() error { return want })
	assert.ErrorIs(t, err, want)
}
