// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var p Profile
	paths := p.Resolve()

	if paths.DocRoot != "docs" {
		t.Errorf("DocRoot = %q, want docs", paths.DocRoot)
	}
	if want := filepath.Join("docs", ".build"); paths.BuildDir != want {
		t.Errorf("BuildDir = %q, want %q", paths.BuildDir, want)
	}
	if paths.SourceDir != "docs" {
		t.Errorf("SourceDir = %q, want docs", paths.SourceDir)
	}
	if paths.ConfDir != "docs" {
		t.Errorf("ConfDir = %q, want docs", paths.ConfDir)
	}
	if want := filepath.Join("docs", ".build", "html"); paths.OutDir != want {
		t.Errorf("OutDir = %q, want %q", paths.OutDir, want)
	}
	if want := filepath.Join("docs", ".build", "doctrees"); paths.Doctrees != want {
		t.Errorf("Doctrees = %q, want %q", paths.Doctrees, want)
	}
}

func TestResolveOverrides(t *testing.T) {
	p := Profile{
		DocRoot:   "documentation",
		BuildDir:  "out",
		SourceDir: "src",
		ConfDir:   "conf",
		OutDir:    "site",
		Doctrees:  "cache",
		Builder:   BuilderText,
	}
	paths := p.Resolve()

	if want := filepath.Join("documentation", "out"); paths.BuildDir != want {
		t.Errorf("BuildDir = %q, want %q", paths.BuildDir, want)
	}
	if want := filepath.Join("documentation", "src"); paths.SourceDir != want {
		t.Errorf("SourceDir = %q, want %q", paths.SourceDir, want)
	}
	if paths.ConfDir != "conf" {
		t.Errorf("ConfDir = %q, want conf", paths.ConfDir)
	}
	if paths.OutDir != "site" {
		t.Errorf("OutDir = %q, want site", paths.OutDir)
	}
	if paths.Doctrees != "cache" {
		t.Errorf("Doctrees = %q, want cache", paths.Doctrees)
	}
}

func TestResolveOutDirFollowsBuilder(t *testing.T) {
	p := Profile{Builder: BuilderText}
	if want := filepath.Join("docs", ".build", "text"); p.Resolve().OutDir != want {
		t.Errorf("OutDir = %q, want %q", p.Resolve().OutDir, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{name: "zero profile is valid", profile: Profile{}},
		{name: "bad pattern", profile: Profile{Pattern: "[unclosed"}, wantErr: true},
		{name: "empty template arg name", profile: Profile{TemplateArgs: map[string]string{"": "x"}}, wantErr: true},
		{name: "empty config arg name", profile: Profile{ConfigArgs: map[string]string{"": "x"}}, wantErr: true},
		{name: "empty post-build argv", profile: Profile{PostBuild: []PostCommand{{}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileSetGet(t *testing.T) {
	set := ProfileSet{"html": {}, "text": {Builder: BuilderText}}

	if _, err := set.Get("html"); err != nil {
		t.Fatalf("Get(html): %v", err)
	}

	_, err := set.Get("pdf")
	if err == nil {
		t.Fatal("Get(pdf) should fail")
	}
	for _, name := range []string{"html", "text"} {
		if got := err.Error(); !strings.Contains(got, name) {
			t.Errorf("error %q should list known profile %q", got, name)
		}
	}
}

func TestProfileSetNames(t *testing.T) {
	set := ProfileSet{"text": {}, "html": {}, "pdf": {}}
	names := set.Names()
	want := []string{"html", "pdf", "text"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
