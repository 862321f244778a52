package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const page = `<html><head><title>Courses</title><link rel="stylesheet" href="hexlet-io-courses_files/assets-index.css"/></head><body><h1>Hello</h1><img src="hexlet-io-courses_files/assets-img-scared.png"/></body></html>`

func TestFormat_Deterministic(t *testing.T) {
	assert.Equal(t, Format(page), Format(page))
}

func TestFormat_KeepsContent(t *testing.T) {
	got := Format(page)

	assert.Contains(t, got, `href="hexlet-io-courses_files/assets-index.css"`)
	assert.Contains(t, got, `src="hexlet-io-courses_files/assets-img-scared.png"`)
	assert.Contains(t, got, "Hello")
	assert.Greater(t, strings.Count(got, "\n"), 1, "output should be spread over several lines")
}
