// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docforge/internal/expand"
	"github.com/pdiddy/docforge/internal/generator"
	"github.com/pdiddy/docforge/internal/history"
	"github.com/pdiddy/docforge/internal/profiles"
	"github.com/pdiddy/docforge/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [profiles...]",
	Short: "Run the documentation generator for named profiles",
	Long: `Build expands marker regions in the source files, decides per profile
whether the output is stale, and invokes the external generator for each
named profile in sequence. With no arguments every configured profile is
built. A nonzero generator exit aborts the remaining profiles.

Flag overrides apply to every profile built in this invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProfiles()
		if err != nil {
			return err
		}

		names := args
		if len(names) == 0 {
			names = cfg.Profiles.Names()
		}

		force, _ := cmd.Flags().GetBool("force")
		noExpand, _ := cmd.Flags().GetBool("no-expand")
		opts := generator.Options{Force: force}
		if !noExpand {
			opts.Rules = substitutionRules(cfg)
		}

		runner := generator.NewRunner(generatorBinary(cmd), os.Stdout, os.Stderr)

		hist, err := history.Open(historyDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: build history unavailable: %v\n", err)
			hist = nil
		} else {
			defer hist.Close()
		}

		for _, name := range names {
			profile, err := cfg.Profiles.Get(name)
			if err != nil {
				return err
			}
			applyOverrides(cmd, &profile)

			started := time.Now()
			res, runErr := runner.Run(profile, opts)

			if hist != nil {
				entry := history.Entry{
					Profile:   name,
					Builder:   string(profile.BuilderOrDefault()),
					Skipped:   res.Skipped,
					ExitCode:  res.ExitCode,
					Expanded:  res.Expanded,
					Duration:  res.Duration,
					StartedAt: started,
				}
				if err := hist.Record(entry); err != nil {
					fmt.Fprintf(os.Stderr, "warning: recording build history: %v\n", err)
				}
			}

			if runErr != nil {
				return fmt.Errorf("profile %s: %w", name, runErr)
			}
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().Bool("force", false, "invoke the generator even when the output is up to date")
	buildCmd.Flags().Bool("no-expand", false, "skip the marker-expansion pass")
	buildCmd.Flags().String("binary", "", "generator binary (default sphinx-build)")
	buildCmd.Flags().String("docroot", "", "override the documentation root")
	buildCmd.Flags().String("sourcedir", "", "override the source directory under the docroot")
	buildCmd.Flags().String("outdir", "", "override the output directory")
	buildCmd.Flags().String("builder", "", "override the output format")
	buildCmd.Flags().String("pattern", "", "override the preprocessor glob")
	buildCmd.Flags().StringArray("option", nil, "extra generator argument (repeatable)")

	rootCmd.AddCommand(buildCmd)
}

// generatorBinary resolves the generator binary name from the --binary
// flag, then the configuration, then the built-in default.
func generatorBinary(cmd *cobra.Command) string {
	if bin, _ := cmd.Flags().GetString("binary"); bin != "" {
		return bin
	}
	if bin := viper.GetString("binary"); bin != "" {
		return bin
	}
	return generator.DefaultBinary
}

// applyOverrides copies non-empty flag values onto the profile.
func applyOverrides(cmd *cobra.Command, p *types.Profile) {
	if v, _ := cmd.Flags().GetString("docroot"); v != "" {
		p.DocRoot = v
	}
	if v, _ := cmd.Flags().GetString("sourcedir"); v != "" {
		p.SourceDir = v
	}
	if v, _ := cmd.Flags().GetString("outdir"); v != "" {
		p.OutDir = v
	}
	if v, _ := cmd.Flags().GetString("builder"); v != "" {
		p.Builder = types.Builder(v)
	}
	if v, _ := cmd.Flags().GetString("pattern"); v != "" {
		p.Pattern = v
	}
	if v, _ := cmd.Flags().GetStringArray("option"); len(v) > 0 {
		p.ExtraArgs = append(p.ExtraArgs, v...)
	}
}

// substitutionRules assembles the preprocessor rule set: the built-in
// run-script rule configured per the script options, plus any literal
// rules from the configuration.
func substitutionRules(cfg *profiles.Config) expand.Rules {
	rules := expand.Rules{"run-script": scriptRule(cfg.Script)}
	for name, text := range cfg.Rules {
		rules[name] = expand.Literal(text)
	}
	return rules
}

// scriptRule builds the run-script rule, applying any configured options
// over the defaults.
func scriptRule(cfg *profiles.ScriptConfig) *expand.ScriptRule {
	rule := expand.NewScriptRule()
	if cfg == nil {
		return rule
	}
	if cfg.Interpreter != nil {
		rule.Interpreter = *cfg.Interpreter
	}
	if cfg.IncludePrefix != nil {
		rule.IncludePrefix = *cfg.IncludePrefix
	}
	if cfg.TrailingNewlines != nil {
		rule.TrailingNewlines = *cfg.TrailingNewlines
	}
	rule.IgnoreErrors = cfg.IgnoreErrors
	rule.BreakLinesAt = cfg.BreakLinesAt
	if cfg.LineBreakMode != "" {
		rule.Mode = expand.LineBreakMode(cfg.LineBreakMode)
	}
	return rule
}
