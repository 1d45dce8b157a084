// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docforge/internal/expand"
	"github.com/pdiddy/docforge/internal/profiles"
)

var expandCmd = &cobra.Command{
	Use:   "expand [files...]",
	Short: "Expand marker regions in documentation source files",
	Long: `Expand rewrites every marker region in the given files. With no
arguments it walks the source directory of the named profile and expands
every file matching the profile's pattern. A directory argument is walked
the same way. Explicit file arguments need no profile at all.

Files are rewritten in place, and only when their content changed, so an
unchanged file never triggers a spurious rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProfiles()
		if err != nil {
			return err
		}
		profileName, _ := cmd.Flags().GetString("profile")
		pattern, _ := cmd.Flags().GetString("pattern")

		n, err := expandTargets(cfg, args, profileName, pattern, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("%d file(s) rewritten\n", n)
		return nil
	},
}

func init() {
	expandCmd.Flags().String("profile", "html", "profile supplying the source directory and pattern")
	expandCmd.Flags().String("pattern", "", "override the file glob")

	rootCmd.AddCommand(expandCmd)
}

// expandTargets runs the preprocessor for the expand command. Explicit
// file arguments are expanded directly; a single directory argument is
// walked with the pattern; with no arguments the named profile supplies
// the source directory. The profile is only resolved when it is needed,
// so explicit files work without a matching profile.
func expandTargets(cfg *profiles.Config, args []string, profileName, pattern string, w io.Writer) (int, error) {
	rules := substitutionRules(cfg)

	// A single directory argument means "walk this subtree", the way
	// the build task walks the whole source directory.
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return expand.Glob(args[0], walkPattern(cfg, profileName, pattern), rules, w)
		}
	}

	if len(args) > 0 {
		return expand.Files(args, rules, w)
	}

	profile, err := cfg.Profiles.Get(profileName)
	if err != nil {
		return 0, err
	}
	if pattern != "" {
		profile.Pattern = pattern
	}
	return expand.Glob(profile.Resolve().SourceDir, profile.PatternOrDefault(), rules, w)
}

// walkPattern picks the glob for a directory walk: the --pattern flag,
// else the named profile's pattern when that profile exists, else the
// default.
func walkPattern(cfg *profiles.Config, profileName, pattern string) string {
	if pattern != "" {
		return pattern
	}
	if profile, err := cfg.Profiles.Get(profileName); err == nil {
		return profile.PatternOrDefault()
	}
	return "*.rst"
}
