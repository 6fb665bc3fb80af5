package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"bilicrawl/internal/bilibili"
	"bilicrawl/internal/cli"
	"bilicrawl/internal/config"
	"bilicrawl/internal/crawl"
	"bilicrawl/internal/dirs"
	"bilicrawl/internal/fetcher"
	"bilicrawl/internal/logging"
	"bilicrawl/internal/model"
	"bilicrawl/internal/muxer"
	"bilicrawl/internal/netclient"
	"bilicrawl/internal/progress"
	"bilicrawl/internal/ui"
	"bilicrawl/internal/util/deps"
)

// logFileName receives the log while the TUI owns the terminal.
const logFileName = "bilicrawl.log"

type runMode struct {
	ForceTUI   bool
	DryRunOnly bool
}

// assembleOptions merges flags with config/env (through viper) and
// validates the result.
func assembleOptions(cmd *cobra.Command) (model.CLIOptions, error) {
	fs := cmd.Flags()
	uid, _ := fs.GetString("uid")
	bvid, _ := fs.GetString("bvid")
	epid, _ := fs.GetString("epid")
	fromList, _ := fs.GetString("from-list")
	num, _ := fs.GetInt("num")
	begin, _ := fs.GetInt("begin")
	noUI, _ := fs.GetBool("no-ui")

	return cli.ParseOptions(cli.RawFlags{
		UID:          uid,
		BVID:         bvid,
		EPID:         epid,
		FromList:     fromList,
		Num:          num,
		Begin:        begin,
		QualityV:     viper.GetString("quality_v"),
		QualityA:     viper.GetString("quality_a"),
		DownloadAddr: viper.GetString("download_addr"),
		ConfigPath:   viper.GetString("config"),
		FFmpeg:       viper.GetString("ffmpeg"),
		Timeout:      viper.GetString("timeout"),
		Interval:     viper.GetString("interval"),
		Verbose:      viper.GetBool("verbose"),
		LogJSON:      viper.GetBool("log_json"),
		NoUI:         noUI,
	})
}

// session is everything a run needs once options are validated.
type session struct {
	opts   model.CLIOptions
	client *netclient.Client
	runDir string
}

func openSession(opts model.CLIOptions) (*session, error) {
	creds, err := config.LoadCredentials(opts.ConfigPath)
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: err}
	}
	client, err := netclient.New(creds, netclient.Options{Timeout: opts.Timeout, Interval: opts.Interval})
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: err}
	}

	runDir := dirs.RunDir(opts.DownloadAddr, "")
	if opts.Selector == model.SelectorCreator {
		runDir = dirs.RunDir(opts.DownloadAddr, opts.Target)
	}
	if err := dirs.Ensure(runDir); err != nil {
		return nil, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create download dir: %w", err)}
	}
	return &session{opts: opts, client: client, runDir: runDir}, nil
}

func (s *session) source(log zerolog.Logger) crawl.Source {
	opts := []bilibili.SourceOption{bilibili.WithLogger(log)}
	switch s.opts.Selector {
	case model.SelectorCreator:
		return bilibili.NewCreatorSource(s.client, s.opts.Target, opts...)
	case model.SelectorSeries:
		return bilibili.NewSeriesSource(s.client, s.opts.Target, s.opts.Num, opts...)
	case model.SelectorList:
		return bilibili.NewListSource(s.client, s.opts.Target, opts...)
	default:
		return bilibili.NewPostSource(s.client, s.opts.Target, opts...)
	}
}

func runExecute(cmd *cobra.Command, mode runMode) error {
	opts, err := assembleOptions(cmd)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	var ffmpegPath string
	if !mode.DryRunOnly {
		ffmpegPath, err = deps.FindFFmpeg(opts.FFmpegPath)
		if err != nil {
			return &ExitError{Code: ExitMissingDep, Err: err}
		}
	}

	sess, err := openSession(opts)
	if err != nil {
		return err
	}

	if mode.DryRunOnly {
		log := logging.New(logging.Options{Verbose: opts.Verbose, JSON: opts.LogJSON, Out: cmd.ErrOrStderr()})
		return runPlan(cmd, sess, log)
	}

	useTUI := mode.ForceTUI || (!opts.NoUI && isTerminal())
	log, closeLog, err := runLogger(opts, sess.runDir, useTUI)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer closeLog()

	src := sess.source(log)
	run := func(ctx context.Context, rep progress.Reporter) (model.CrawlReport, error) {
		svc := crawl.NewService(
			crawl.WithSource(src),
			crawl.WithFetcher(fetcher.New(sess.client, sess.runDir, fetcher.WithReporter(rep), fetcher.WithLogger(log))),
			crawl.WithMuxer(muxer.New(ffmpegPath, muxer.WithLogger(log))),
			crawl.WithReporter(rep),
			crawl.WithLogger(log),
			crawl.WithDir(sess.runDir),
			crawl.WithQuality(opts.Quality),
			crawl.WithBegin(opts.Begin),
		)
		return svc.Run(ctx)
	}

	var report model.CrawlReport
	if useTUI {
		report, err = ui.Run(cmd.Context(), src.Name(), run)
	} else {
		report, err = run(cmd.Context(), progress.Nop{})
	}
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return exitFor(report, sess.runDir)
}

// exitFor maps a finished report to the process outcome.
func exitFor(report model.CrawlReport, runDir string) error {
	if report.Interrupted {
		err := fmt.Errorf("interrupted with %d post(s) remaining", len(report.Remaining))
		if len(report.Remaining) > 0 {
			err = fmt.Errorf("%w; resume with --from-list %s", err, filepath.Join(runDir, crawl.RemainingListFile))
		}
		return &ExitError{Code: ExitInterrupted, Err: err}
	}
	if report.ListingFailed() {
		return &ExitError{Code: ExitCrawlFailed, Err: fmt.Errorf("listing failed before any post was collected: %w", report.ListingErr)}
	}
	if failed := report.Failed(); len(failed) > 0 {
		return &ExitError{Code: ExitCrawlFailed, Err: fmt.Errorf("%d of %d post(s) failed", len(failed), report.Total)}
	}
	return nil
}

// runLogger logs to the terminal, or to a file in runDir while the TUI is
// on screen.
func runLogger(opts model.CLIOptions, runDir string, toFile bool) (zerolog.Logger, func(), error) {
	if !toFile {
		return logging.New(logging.Options{Verbose: opts.Verbose, JSON: opts.LogJSON}), func() {}, nil
	}
	f, err := os.OpenFile(filepath.Join(runDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}
	log := logging.New(logging.Options{Verbose: opts.Verbose, JSON: opts.LogJSON, Out: f})
	return log, func() { _ = f.Close() }, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
