// Package pageloader mirrors a single web page and its same-origin assets to
// a local directory so the page renders offline.
package pageloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-scripts/pageloader/internal/assets"
	"github.com/go-scripts/pageloader/internal/fetcher"
	"github.com/go-scripts/pageloader/internal/format"
	"github.com/go-scripts/pageloader/internal/markup"
	"github.com/go-scripts/pageloader/internal/naming"
	"github.com/go-scripts/pageloader/internal/writer"
)

// DefaultConcurrency bounds simultaneous asset downloads.
const DefaultConcurrency = 8

// DefaultOutputDir is used when LoadPage is called with an empty outputDir.
var DefaultOutputDir = filepath.Join(os.TempDir(), "loader")

var (
	// ErrIndexFetch wraps every failure to download the page itself.
	ErrIndexFetch = errors.New("fetch index page")
	// ErrPersist wraps failures to create the output directories or to
	// write the index file.
	ErrPersist = errors.New("write mirror")
)

// MirrorResult describes a finished mirror.
type MirrorResult struct {
	IndexFilename string
	OutputDir     string
	// Assets are the references written to disk, in canonical order.
	Assets []string
	// Dropped are the references whose download or write failed.
	Dropped []string
}

// Fetcher is the HTTP collaborator.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, mode fetcher.Mode) (*fetcher.Response, error)
}

// FileWriter is the filesystem collaborator.
type FileWriter interface {
	MkdirAll(dir string) error
	WriteFile(path string, data []byte, mode writer.Mode) error
}

// Observer is told about asset progress. AssetSettled is called from
// several goroutines at once.
type Observer interface {
	AssetsDiscovered(total int)
	AssetSettled(ref string, err error)
}

// Loader runs the mirroring pipeline. It holds no state between calls and
// is safe for concurrent use.
type Loader struct {
	logger      *log.Logger
	fetcher     Fetcher
	index       Fetcher
	writer      FileWriter
	format      func(string) string
	observer    Observer
	concurrency int
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithFetcher sets the HTTP collaborator for the page and its assets.
func WithFetcher(f Fetcher) Option {
	return func(ld *Loader) { ld.fetcher = f }
}

// WithIndexFetcher fetches the page itself with f, e.g. a browser renderer,
// while assets keep using the regular fetcher.
func WithIndexFetcher(f Fetcher) Option {
	return func(ld *Loader) { ld.index = f }
}

// WithWriter sets the filesystem collaborator.
func WithWriter(w FileWriter) Option {
	return func(ld *Loader) { ld.writer = w }
}

// WithFormatter sets the HTML formatter applied to the index file.
func WithFormatter(fn func(string) string) Option {
	return func(ld *Loader) { ld.format = fn }
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(ld *Loader) { ld.observer = o }
}

// WithConcurrency bounds simultaneous asset downloads.
func WithConcurrency(n int) Option {
	return func(ld *Loader) {
		if n > 0 {
			ld.concurrency = n
		}
	}
}

// New creates a Loader with defaults for every collaborator.
func New(opts ...Option) *Loader {
	ld := &Loader{
		logger:      log.New(io.Discard),
		fetcher:     fetcher.New(),
		writer:      writer.New(),
		format:      format.Format,
		observer:    nopObserver{},
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(ld)
	}
	if ld.index == nil {
		ld.index = ld.fetcher
	}
	return ld
}

// LoadPage mirrors pageURL into outputDir using a default Loader.
func LoadPage(ctx context.Context, outputDir, pageURL string) (*MirrorResult, error) {
	return New().LoadPage(ctx, outputDir, pageURL)
}

// LoadPage downloads pageURL and its same-origin assets into outputDir.
//
// It fails only when the page itself cannot be fetched or the output cannot
// be written. Assets that fail to download are logged and left out. The
// index file is written before the assets; if a later step fails, it stays
// on disk.
func (l *Loader) LoadPage(ctx context.Context, outputDir, pageURL string) (*MirrorResult, error) {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if page.Host == "" || (page.Scheme != "http" && page.Scheme != "https") {
		return nil, fmt.Errorf("parse page url: %q is not an absolute http(s) url", pageURL)
	}

	indexFilename := naming.IndexFilename(page)

	l.logger.Info("fetching page", "url", pageURL)
	resp, err := l.index.Get(ctx, pageURL, fetcher.ModeText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexFetch, err)
	}

	analyzed, err := markup.ExtractAndRewrite(string(resp.Data), page)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", pageURL, err)
	}
	indexContent := l.format(analyzed.HTML)

	list := make([]*assets.Asset, len(analyzed.References))
	for i, ref := range analyzed.References {
		list[i] = assets.New(ref)
	}
	l.logger.Debug("assets discovered", "url", pageURL, "count", len(list))

	dropped := l.fetchAssets(ctx, page, list)

	if err := l.writer.MkdirAll(outputDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := l.writer.MkdirAll(naming.AssetsDir(outputDir, page)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	indexPath := filepath.Join(outputDir, indexFilename)
	if err := l.writer.WriteFile(indexPath, []byte(indexContent), writer.ModeText); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	l.logger.Debug("index written", "path", indexPath)

	written, failed := l.writeAssets(outputDir, page, list)
	// Both lists are canonical on their own; merge them back into one order.
	dropped = append(dropped, failed...)
	sort.Strings(dropped)

	l.logger.Info("page mirrored",
		"file", indexFilename, "dir", outputDir,
		"assets", len(written), "dropped", len(dropped))

	return &MirrorResult{
		IndexFilename: indexFilename,
		OutputDir:     outputDir,
		Assets:        written,
		Dropped:       dropped,
	}, nil
}

// fetchAssets downloads every asset concurrently and waits for all of them.
// A failed download only drops that asset. Failures are logged after the
// join, in canonical order, and returned.
func (l *Loader) fetchAssets(ctx context.Context, page *url.URL, list []*assets.Asset) []string {
	l.observer.AssetsDiscovered(len(list))

	errs := make([]error, len(list))
	var g errgroup.Group
	g.SetLimit(l.concurrency)

	for i, a := range list {
		g.Go(func() error {
			resp, err := l.fetcher.Get(ctx, assetURL(page, a.Reference), a.Kind.FetchMode)
			if err != nil {
				errs[i] = err
			} else {
				a.Resolve(resp.Data)
			}
			l.observer.AssetSettled(a.Reference, err)
			return nil
		})
	}
	_ = g.Wait()

	var dropped []string
	for i, a := range list {
		if errs[i] != nil {
			l.logger.Warn("asset dropped", "url", assetURL(page, a.Reference), "err", errs[i])
			dropped = append(dropped, a.Reference)
			continue
		}
		l.logger.Debug("asset fetched", "url", assetURL(page, a.Reference), "kind", a.Kind)
	}
	return dropped
}

// writeAssets writes every fetched asset. Distinct paths are written
// concurrently. References that sanitize to the same path are written one
// after another in canonical order, so the last one wins on every run.
func (l *Loader) writeAssets(outputDir string, page *url.URL, list []*assets.Asset) (written, failed []string) {
	byPath := make(map[string][]int)
	var paths []string
	for i, a := range list {
		if _, ok := a.Payload(); !ok {
			continue
		}
		p := naming.AssetFilepath(outputDir, page, a.Reference)
		if _, seen := byPath[p]; !seen {
			paths = append(paths, p)
		} else {
			l.logger.Debug("asset path collision", "path", p, "ref", a.Reference)
		}
		byPath[p] = append(byPath[p], i)
	}

	errs := make([]error, len(list))
	var g errgroup.Group
	g.SetLimit(l.concurrency)

	for _, p := range paths {
		idx := byPath[p]
		g.Go(func() error {
			for _, i := range idx {
				payload, _ := list[i].Payload()
				errs[i] = l.writer.WriteFile(p, payload, list[i].Kind.WriteMode)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, a := range list {
		if _, ok := a.Payload(); !ok {
			continue
		}
		if errs[i] != nil {
			l.logger.Warn("asset not written", "ref", a.Reference, "err", errs[i])
			failed = append(failed, a.Reference)
			continue
		}
		written = append(written, a.Reference)
	}
	return written, failed
}

func assetURL(page *url.URL, ref string) string {
	u := url.URL{Scheme: page.Scheme, Host: page.Host, Path: ref}
	return u.String()
}

type nopObserver struct{}

func (nopObserver) AssetsDiscovered(int)       {}
func (nopObserver) AssetSettled(string, error) {}
