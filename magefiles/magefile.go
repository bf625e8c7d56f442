//go:build mage

// Package main contains Mage build targets for research-trends developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "research-trends"
	cmdPkg  = "./cmd/research-trends"
)

// binPath is the CLI binary produced by Build.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check vets the code and runs the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints Go production and test line counts per package and the
// word count of the top-level Markdown documents.
func Stats() error {
	prod, test := map[string]int{}, map[string]int{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// The go tool ignores directories starting with '_' or '.'.
			if path != "." && strings.ContainsAny(d.Name()[:1], "_.") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countNonBlankLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			test[filepath.Dir(path)] += n
		} else {
			prod[filepath.Dir(path)] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	docs, err := filepath.Glob("*.md")
	if err != nil {
		return err
	}
	words := 0
	for _, doc := range docs {
		data, err := os.ReadFile(doc)
		if err != nil {
			return fmt.Errorf("reading %s: %w", doc, err)
		}
		words += len(strings.Fields(string(data)))
	}

	pkgs := make([]string, 0, len(prod))
	for pkg := range prod {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var prodTotal, testTotal int
	for _, pkg := range pkgs {
		fmt.Printf("  %-28s %5d prod %5d test\n", pkg, prod[pkg], test[pkg])
		prodTotal += prod[pkg]
		testTotal += test[pkg]
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodTotal)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testTotal)
	fmt.Printf("Words (%s): %d\n", strings.Join(docs, ", "), words)
	return nil
}

func countNonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
