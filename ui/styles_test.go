package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestCreated_PlainTerminal(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	assert.Equal(t, "hexlet-io-courses.html have created in /tmp/out", Created("hexlet-io-courses.html", "/tmp/out"))
	assert.Equal(t, "error: boom", Failed("boom"))
}
