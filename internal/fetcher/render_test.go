package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findBrowser(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome/Chromium binary found")
	return ""
}

func TestRenderer_RejectsBinary(t *testing.T) {
	_, err := NewRenderer().Get(context.Background(), "http://127.0.0.1/", ModeBinary)
	assert.Error(t, err)
}

func TestRenderer_ReturnsScriptedDOM(t *testing.T) {
	browser := findBrowser(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head></head><body><script>
			const s = document.createElement('link');
			s.rel = 'stylesheet';
			s.href = '/late.css';
			document.head.appendChild(s);
		</script></body></html>`))
	}))
	defer srv.Close()

	r := NewRenderer(WithExecPath(browser), WithRenderTimeout(20*time.Second))

	resp, err := r.Get(context.Background(), srv.URL+"/", ModeText)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Data), `href="/late.css"`)

	_, err = r.Get(context.Background(), srv.URL+"/nope", ModeText)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
}
