// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stale decides whether generated output is out of date with
// respect to its source tree, by comparing file modification times.
package stale

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// NeedsRebuild reports whether the newest file under sourceDir is strictly
// newer than the newest file under outDir. An absent or empty output tree
// is infinitely stale. An unreadable source tree is an error; the caller
// must not silently skip a build it cannot reason about.
func NeedsRebuild(sourceDir, outDir string) (bool, error) {
	srcTime, err := newestModTime(sourceDir)
	if err != nil {
		return false, fmt.Errorf("scanning source tree %s: %w", sourceDir, err)
	}

	outTime, err := newestModTime(outDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("scanning output tree %s: %w", outDir, err)
	}

	return srcTime.After(outTime), nil
}

// newestModTime walks root and returns the maximum modification time among
// regular files. An empty tree yields the zero time.
func newestModTime(root string) (time.Time, error) {
	var newest time.Time
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if mt := info.ModTime(); mt.After(newest) {
			newest = mt
		}
		return nil
	})
	return newest, err
}
