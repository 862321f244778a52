package refset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_AddDeduplicates(t *testing.T) {
	s := New()

	assert.True(t, s.Add("/js/app.js"))
	assert.False(t, s.Add("/js/app.js"))
	assert.False(t, s.Add(""), "empty references are never stored")
	assert.True(t, s.Add("/css/app.css"))

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("/js/app.js"))
	assert.False(t, s.Contains("/img/a.png"))
}

func TestSet_SortedIsLexicographic(t *testing.T) {
	s := New()
	for _, ref := range []string{"/z.css", "/assets/index.css", "/a.js", "/assets/img/scared.png"} {
		s.Add(ref)
	}

	want := []string{"/a.js", "/assets/img/scared.png", "/assets/index.css", "/z.css"}
	assert.Equal(t, want, s.Sorted())

	// Sorted must not reorder the set itself.
	s.Add("/b.js")
	assert.Equal(t, []string{"/a.js", "/assets/img/scared.png", "/assets/index.css", "/b.js", "/z.css"}, s.Sorted())
}
