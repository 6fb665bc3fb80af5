package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bilicrawl/internal/config"
	"bilicrawl/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Check ffmpeg and the credential file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ff, err := deps.FindFFmpeg(viper.GetString("ffmpeg"))
			if err != nil {
				return &ExitError{Code: ExitMissingDep, Err: err}
			}
			path := viper.GetString("config")
			creds, err := config.LoadCredentials(path)
			if err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "FFmpeg:      %s\n", ff)
			if ver, err := deps.FFmpegVersion(cmd.Context(), nil, ff); err == nil && ver != "" {
				fmt.Fprintf(out, "Version:     %s\n", ver)
			}
			fmt.Fprintf(out, "Credentials: %s\n", path)
			fmt.Fprintf(out, "User-Agent:  %s\n", creds.UserAgent)
			fmt.Fprintf(out, "Referer:     %s\n", creds.Referer)
			if creds.CookiesFile != "" {
				fmt.Fprintf(out, "Cookies:     %s\n", creds.CookiesFile)
			}
			return nil
		},
	}
}
