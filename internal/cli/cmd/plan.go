package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bilicrawl/internal/crawl"
	"bilicrawl/internal/model"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "plan",
		Short:         "List the posts and stream URLs a crawl would use, without downloading",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExecute(cmd, runMode{DryRunOnly: true})
		},
	}
}

func runPlan(cmd *cobra.Command, sess *session, log zerolog.Logger) error {
	svc := crawl.NewService(
		crawl.WithSource(sess.source(log)),
		crawl.WithLogger(log),
		crawl.WithDir(sess.runDir),
		crawl.WithQuality(sess.opts.Quality),
		crawl.WithBegin(sess.opts.Begin),
	)
	planned, err := svc.Plan(cmd.Context())
	if err != nil {
		if model.IsInterrupt(err) {
			return &ExitError{Code: ExitInterrupted, Err: err}
		}
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	printPlan(cmd, planned)
	return nil
}

func printPlan(cmd *cobra.Command, planned []crawl.PlannedPost) {
	out := cmd.OutOrStdout()
	if len(planned) == 0 {
		fmt.Fprintln(out, "There is no video to crawl.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tOUTPUT")
	for _, p := range planned {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.Index, p.Post.ID, p.Post.Title, p.Output)
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	for _, p := range planned {
		if p.Err != nil {
			fmt.Fprintf(out, "%d %s: %v (the crawl would retry every mirror)\n", p.Index, p.Post.ID, p.Err)
			continue
		}
		fmt.Fprintf(out, "%d %s\n  video: %s\n  audio: %s\n", p.Index, p.Post.ID, p.Video, p.Audio)
	}
}
