package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/bubbles/progress"
)

// Tracker reports mirror progress on a terminal: a spinner while the page
// itself is fetched, then a bar that fills as assets settle.
type Tracker struct {
	out     io.Writer
	spin    *spinner.Spinner
	bar     progress.Model
	total   int
	settled int
	failed  int
	mu      sync.Mutex
}

// New creates a Tracker writing to out
func New(out io.Writer) *Tracker {
	return &Tracker{
		out:  out,
		spin: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(out)),
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// Start shows the spinner while pageURL is fetched
func (p *Tracker) Start(pageURL string) {
	p.spin.Suffix = " fetching " + pageURL
	p.spin.Start()
}

// AssetsDiscovered stops the spinner and sets the number of assets to fetch
func (p *Tracker) AssetsDiscovered(total int) {
	p.spin.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.settled = 0
	p.failed = 0
	if total > 0 {
		p.render()
	}
}

// AssetSettled records one finished asset fetch, successful or not
func (p *Tracker) AssetSettled(ref string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settled++
	if err != nil {
		p.failed++
	}
	p.render()
}

// Percent returns the fraction of settled assets
func (p *Tracker) Percent() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent()
}

// Stop ends the output line
func (p *Tracker) Stop() {
	p.spin.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		fmt.Fprintln(p.out)
	}
}

func (p *Tracker) percent() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.settled) / float64(p.total)
}

func (p *Tracker) render() {
	line := fmt.Sprintf("\rAssets: %s %d/%d", p.bar.ViewAs(p.percent()), p.settled, p.total)
	if p.failed > 0 {
		line += fmt.Sprintf(" (%d failed)", p.failed)
	}
	fmt.Fprint(p.out, line)
}
