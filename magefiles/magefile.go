//go:build mage

// Package main contains Mage build targets for fileconverter.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "fileconverter"
	cmdPkg  = "./cmd/fileconverter"
)

// externalTools are the binaries the converters shell out to.
var externalTools = []string{"ffmpeg", "libreoffice", "soffice", "magick"}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// BuildNoPdfium compiles the CLI with the pure-Go PDF text extractor.
func BuildNoPdfium() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	return sh.RunV("go", "build", "-tags", "nopdfium", "-o", filepath.Join(binDir, binName), cmdPkg)
}

// Test runs the unit tests for both PDF backends.
func Test() error {
	if err := sh.RunV("go", "test", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "test", "-tags", "nopdfium", ".")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Tools reports which external conversion tools are on PATH.
func Tools() {
	for _, name := range externalTools {
		path, err := exec.LookPath(name)
		if err != nil {
			fmt.Printf("  %-12s missing\n", name)
			continue
		}
		fmt.Printf("  %-12s %s\n", name, path)
	}
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
