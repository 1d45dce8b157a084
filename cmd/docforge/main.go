// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docforge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docforge/internal/profiles"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docforge CLI.
var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "Drive a documentation generator under named build profiles",
	Long: `docforge integrates an external documentation generator with task-based
builds. Each named profile bundles the options for one output target
(source tree, output tree, builder, generator flags). docforge expands
marker regions in the source files, skips generator runs whose output is
already up to date, and records every invocation in a build history.

Profiles live under the "profiles" key of the configuration file; the
"rules" key defines literal substitution rules for the preprocessor.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docforge.yaml or ~/.config/docforge/config.yaml)")
	rootCmd.PersistentFlags().String("profiles", "", "profiles file (default: the config file itself)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docforge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docforge"))
		}
	}

	viper.SetEnvPrefix("DOCFORGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadProfiles reads the profiles file named by --profiles, falling back
// to the discovered config file, and finally to the built-in defaults.
func loadProfiles() (*profiles.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("profiles")
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	if path == "" {
		return profiles.Default(), nil
	}
	return profiles.Load(path)
}

// historyDir returns the directory holding the build-history database.
func historyDir() string {
	if dir := viper.GetString("history_dir"); dir != "" {
		return dir
	}
	return ".docforge"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
