// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stale

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFileAt creates a file with the given mtime.
func writeFileAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestNeedsRebuild(t *testing.T) {
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	tests := []struct {
		name  string
		setup func(t *testing.T, src, out string)
		want  bool
	}{
		{
			name: "empty output tree is stale",
			setup: func(t *testing.T, src, out string) {
				writeFileAt(t, filepath.Join(src, "index.rst"), base)
				if err := os.MkdirAll(out, 0o755); err != nil {
					t.Fatal(err)
				}
			},
			want: true,
		},
		{
			name: "missing output tree is stale",
			setup: func(t *testing.T, src, out string) {
				writeFileAt(t, filepath.Join(src, "index.rst"), base)
			},
			want: true,
		},
		{
			name: "newer output is fresh",
			setup: func(t *testing.T, src, out string) {
				writeFileAt(t, filepath.Join(src, "index.rst"), base)
				writeFileAt(t, filepath.Join(out, "index.html"), base.Add(time.Minute))
			},
			want: false,
		},
		{
			name: "newer source is stale",
			setup: func(t *testing.T, src, out string) {
				writeFileAt(t, filepath.Join(src, "index.rst"), base.Add(2*time.Minute))
				writeFileAt(t, filepath.Join(out, "index.html"), base.Add(time.Minute))
			},
			want: true,
		},
		{
			name: "equal timestamps are fresh",
			setup: func(t *testing.T, src, out string) {
				writeFileAt(t, filepath.Join(src, "index.rst"), base)
				writeFileAt(t, filepath.Join(out, "index.html"), base)
			},
			want: false,
		},
		{
			name: "nested source file counts",
			setup: func(t *testing.T, src, out string) {
				writeFileAt(t, filepath.Join(src, "index.rst"), base)
				writeFileAt(t, filepath.Join(src, "sub", "deep.rst"), base.Add(2*time.Minute))
				writeFileAt(t, filepath.Join(out, "index.html"), base.Add(time.Minute))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			src := filepath.Join(tmp, "source")
			out := filepath.Join(tmp, "output")
			tt.setup(t, src, out)

			got, err := NeedsRebuild(src, out)
			if err != nil {
				t.Fatalf("NeedsRebuild: %v", err)
			}
			if got != tt.want {
				t.Errorf("NeedsRebuild = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsRebuildMissingSource(t *testing.T) {
	tmp := t.TempDir()
	_, err := NeedsRebuild(filepath.Join(tmp, "missing"), tmp)
	if err == nil {
		t.Fatal("expected error for unreadable source tree")
	}
}

func TestTouchMakesStale(t *testing.T) {
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "source")
	out := filepath.Join(tmp, "output")

	writeFileAt(t, filepath.Join(src, "a.rst"), base)
	writeFileAt(t, filepath.Join(src, "b.rst"), base)
	writeFileAt(t, filepath.Join(out, "index.html"), base.Add(time.Minute))

	if got, err := NeedsRebuild(src, out); err != nil || got {
		t.Fatalf("NeedsRebuild = %v, %v; want false, nil", got, err)
	}

	touched := base.Add(2 * time.Minute)
	if err := os.Chtimes(filepath.Join(src, "b.rst"), touched, touched); err != nil {
		t.Fatal(err)
	}

	got, err := NeedsRebuild(src, out)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("touching a source file should make the pair stale")
	}
}
