package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/pageloader/internal/config"
	"github.com/go-scripts/pageloader/internal/fetcher"
	"github.com/go-scripts/pageloader/internal/progress"
	"github.com/go-scripts/pageloader/pkg/pageloader"
	"github.com/go-scripts/pageloader/ui"
)

var version = "dev"

// CLIFlags are the command line flags. Zero values leave the config file
// setting untouched.
type CLIFlags struct {
	URL         string           `arg:"" help:"Page to download"`
	Output      string           `help:"Output directory (default: current directory)" short:"o"`
	Config      string           `help:"Path to configuration file" type:"path"`
	Concurrency int              `help:"Number of concurrent asset downloads" short:"c"`
	Timeout     time.Duration    `help:"Per-request timeout"`
	UserAgent   string           `help:"User-Agent header sent with every request"`
	Render      bool             `help:"Render the page in headless Chrome before saving it"`
	LogLevel    string           `help:"Log level (debug, info, warn, error)" name:"log-level"`
	Quiet       bool             `help:"Disable the progress display" short:"q"`
	Version     kong.VersionFlag `help:"Print version and exit"`
}

func main() {
	var flags CLIFlags
	kong.Parse(&flags,
		kong.Name("page-loader"),
		kong.Description("Download a web page with its local assets."),
		kong.Vars{"version": version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flags, os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, ui.Failed(err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, flags CLIFlags, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := log.NewWithOptions(stderr, log.Options{
		Level:           level,
		Prefix:          "page-loader",
		ReportTimestamp: level == log.DebugLevel,
	})

	outputDir := cfg.OutputDir
	if outputDir == "" {
		if outputDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
	}

	client := fetcher.New(
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBytes(cfg.MaxBodyBytes),
	)
	opts := []pageloader.Option{
		pageloader.WithLogger(logger),
		pageloader.WithFetcher(client),
		pageloader.WithConcurrency(cfg.Concurrency),
	}

	if cfg.Render {
		logger.Debug("rendering page in headless browser", "wait", cfg.RenderWait)
		opts = append(opts, pageloader.WithIndexFetcher(fetcher.NewRenderer(
			fetcher.WithRenderTimeout(cfg.Timeout),
			fetcher.WithSettleTime(cfg.RenderWait),
			fetcher.WithExecPath(cfg.BrowserPath),
		)))
	}

	var tracker *progress.Tracker
	if !flags.Quiet {
		tracker = progress.New(stderr)
		opts = append(opts, pageloader.WithObserver(tracker))
		tracker.Start(flags.URL)
	}

	res, err := pageloader.New(opts...).LoadPage(ctx, outputDir, flags.URL)
	if tracker != nil {
		tracker.Stop()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, ui.Created(res.IndexFilename, res.OutputDir))
	return nil
}

// loadConfig merges defaults, the config file and the command line flags,
// in that order.
func loadConfig(flags CLIFlags) (config.Configuration, error) {
	path, explicit := config.DefaultFile, false
	if flags.Config != "" {
		path, explicit = flags.Config, true
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}

	if flags.Output != "" {
		cfg.OutputDir = flags.Output
	}
	if flags.Concurrency != 0 {
		cfg.Concurrency = flags.Concurrency
	}
	if flags.Timeout != 0 {
		cfg.Timeout = flags.Timeout
	}
	if flags.UserAgent != "" {
		cfg.UserAgent = flags.UserAgent
	}
	if flags.Render {
		cfg.Render = true
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	return cfg, cfg.Validate()
}
