package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTracker_CountsSettledAssets(t *testing.T) {
	var out syncBuffer
	p := New(&out)

	p.Start("https://hexlet.io/courses")
	p.AssetsDiscovered(4)
	assert.Equal(t, 0.0, p.Percent())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i == 0 {
				err = errors.New("404")
			}
			p.AssetSettled("/a.css", err)
		}(i)
	}
	wg.Wait()
	p.Stop()

	assert.Equal(t, 1.0, p.Percent())
	got := out.String()
	assert.Contains(t, got, "4/4")
	assert.Contains(t, got, "(1 failed)")
	assert.True(t, strings.HasSuffix(got, "\n"))
}

func TestTracker_NoAssets(t *testing.T) {
	var out syncBuffer
	p := New(&out)

	p.AssetsDiscovered(0)
	p.Stop()

	assert.Equal(t, 0.0, p.Percent())
	assert.NotContains(t, out.String(), "Assets:")
}
