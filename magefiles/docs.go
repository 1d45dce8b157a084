//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runDocforge executes the compiled CLI with the given arguments.
func runDocforge(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Html builds the HTML documentation profile.
func Html() error {
	mg.Deps(Build)
	return runDocforge("build", "html")
}

// Text builds the plain-text documentation profile.
func Text() error {
	mg.Deps(Build)
	return runDocforge("build", "text")
}

// Docs builds every configured documentation profile.
func Docs() error {
	mg.Deps(Build)
	return runDocforge("build")
}

// Expand runs the marker-expansion preprocessor over the source files.
func Expand() error {
	mg.Deps(Build)
	return runDocforge("expand")
}

// Clean removes the documentation build tree and the build history.
func Clean() error {
	for _, dir := range []string{filepath.Join("docs", ".build"), ".docforge", binDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		fmt.Println("removed", dir)
	}
	return nil
}
