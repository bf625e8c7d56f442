//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Trend builds the CLI and charts a sample search against PubMed.
// TREND_TERM overrides the search term.
func Trend() error {
	mg.Deps(Build)
	term := os.Getenv("TREND_TERM")
	if term == "" {
		term = "lung cancer"
	}
	return sh.RunV(binPath, "trend", "--term", term, "--from", "2010", "--to", "2020", "--watch")
}

// Serve builds the CLI and starts the HTTP server.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve")
}
