package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bilicrawl/internal/dirs"
)

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing settings file is ignored.
func Init(root *cobra.Command) error {
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("settings") // supports settings.{yaml|yml|json|toml}

	// Environment variables: BILICRAWL_*
	viper.SetEnvPrefix("BILICRAWL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("config", DefaultCredentialsPath)
	viper.SetDefault("download_addr", "./download/")
	viper.SetDefault("quality_v", "720p")
	viper.SetDefault("quality_a", "132k")
	viper.SetDefault("timeout", "30s")
	viper.SetDefault("interval", "500ms")

	for _, name := range []string{
		"config", "download_addr", "quality_v", "quality_a",
		"timeout", "interval", "ffmpeg", "verbose", "log-json",
	} {
		if f := root.PersistentFlags().Lookup(name); f != nil {
			_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), f)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}
