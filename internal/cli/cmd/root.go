package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bilicrawl/internal/config"
	"bilicrawl/internal/quality"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitMissingDep  = 2
	ExitCrawlFailed = 3
	ExitConfigError = 4
	// ExitInterrupted follows the shell convention for SIGINT.
	ExitInterrupted = 130
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bilicrawl",
		Short: "Crawl bilibili videos of a creator, a single post or a series",
		Long: "bilicrawl enumerates the posts of a bilibili creator (--uid), a single video (--bvid) " +
			"or a run of series episodes (--epid with --num), downloads the video and audio streams " +
			"at the requested quality and muxes them into one MP4 with ffmpeg. Failed posts are " +
			"retried against every mirror URL the platform reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExecute(cmd, runMode{})
		},
	}

	bindPersistentFlags(root.PersistentFlags())

	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindPersistentFlags(fs *pflag.FlagSet) {
	// Selectors, exactly one per run.
	fs.StringP("uid", "u", "", "Creator uid (or space.bilibili.com URL) whose uploads to crawl")
	fs.StringP("bvid", "b", "", "Single video bvid (or video URL) to crawl")
	fs.StringP("epid", "e", "", "Series episode id to start from (12345, ep12345 or play URL)")
	fs.String("from-list", "", "Resume from a saved list (e.g. remaining_list.json)")

	fs.IntP("num", "n", 1, "Number of episodes to crawl from --epid")
	fs.Int("begin", 0, "Skip this many posts at the start of the list")

	fs.StringP("quality_v", "v", quality.DefaultVideoLabel, "Video quality: 1080p, 720p, 480p, 360p")
	fs.StringP("quality_a", "a", quality.DefaultAudioLabel, "Audio quality: 192k, 132k, 64k")
	fs.StringP("download_addr", "d", "./download/", "Root directory for downloads")

	fs.StringP("config", "c", config.DefaultCredentialsPath, "Credential file (JSON with cookie, user_agent, referer)")
	fs.String("ffmpeg", "", "Path to ffmpeg (default: search PATH)")
	fs.String("timeout", "30s", "Wait limit for response headers (e.g. 30s, 2m)")
	fs.String("interval", "500ms", "Minimum spacing between metadata requests")

	fs.Bool("verbose", false, "Log debug details (commands, candidate attempts)")
	fs.Bool("log-json", false, "Log JSON lines instead of console text")
	fs.Bool("no-ui", false, "Disable the TUI; log to the terminal")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
