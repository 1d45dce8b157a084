// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the configured build profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProfiles()
		if err != nil {
			return err
		}
		for _, name := range cfg.Profiles.Names() {
			p := cfg.Profiles[name]
			paths := p.Resolve()
			fmt.Printf("%-20s builder=%-8s source=%s out=%s\n",
				name, p.BuilderOrDefault(), paths.SourceDir, paths.OutDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
