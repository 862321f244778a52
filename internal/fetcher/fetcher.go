// Package fetcher implements the GET-only HTTP collaborator used to download
// the index page and its assets.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// Mode selects how a response body is read.
type Mode int

const (
	// ModeText returns the body as UTF-8, transcoding it when the response
	// declares another charset.
	ModeText Mode = iota
	// ModeBinary returns the body bytes untouched.
	ModeBinary
)

func (m Mode) String() string {
	if m == ModeBinary {
		return "binary"
	}
	return "text"
}

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 50 << 20
	defaultUserAgent = "page-loader/1.0"
)

// Response is a successful (2xx) GET.
type Response struct {
	URL    string
	Status int
	Data   []byte
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http status %d", e.URL, e.Status)
}

// Client performs GET requests.
type Client struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// Option configures a Client.
type Option func(*Client)

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Client) { f.client = c }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(f *Client) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Client) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBytes caps how much of a body is read.
func WithMaxBytes(n int64) Option {
	return func(f *Client) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// New creates a Client with sensible defaults.
func New(opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		maxBytes:  defaultMaxBytes,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get fetches rawURL. Network failures are returned wrapped, non-2xx
// statuses as *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, mode Mode) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &StatusError{URL: rawURL, Status: resp.StatusCode}
	}

	data, err := readAllLimit(resp.Body, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	if mode == ModeText {
		if data, err = toUTF8(data, resp.Header.Get("Content-Type")); err != nil {
			return nil, fmt.Errorf("decode %s: %w", rawURL, err)
		}
	}

	return &Response{URL: rawURL, Status: resp.StatusCode, Data: data}, nil
}

// toUTF8 transcodes data only when a BOM, the Content-Type header or an
// in-document meta tag names a charset other than UTF-8. Bodies that are
// already valid UTF-8 pass through untouched unless the charset is certain.
func toUTF8(data []byte, contentType string) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(data)) {
		return data, nil
	}
	return enc.NewDecoder().Bytes(data)
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("body larger than %d bytes", limit)
	}
	return data, nil
}
