// Command gendocs renders the CLI, configuration and rule reference pages
// of the documentation site from the jqlint sources.
//
// Usage:
//
//	go run ./scripts/gendocs               # everything, into ./docs
//	go run ./scripts/gendocs -gen=rules    # one section
//	go run ./scripts/gendocs -gen=cli -outdir=/tmp/cli
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// section is one part of the docs tree.
type section struct {
	name   string
	subdir string // relative to the module root
	run    func(outDir string) error
}

var sections = []section{
	{"cli", filepath.Join("docs", "cli"), generateCLIDocs},
	{"config", "docs", generateConfigDocs},
	{"rules", filepath.Join("docs", "rules"), generateRuleDocs},
}

func main() {
	gen := flag.String("gen", "all", "section to generate: all, "+strings.Join(sectionNames(), ", "))
	outDir := flag.String("outdir", "", "output directory for a single section")
	flag.Parse()
	log.SetFlags(0)

	if err := run(*gen, *outDir); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

func sectionNames() []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return names
}

func run(gen, outDir string) error {
	if gen != "all" && !slices.Contains(sectionNames(), gen) {
		return fmt.Errorf("unknown -gen value %q", gen)
	}
	if gen == "all" && outDir != "" {
		return errors.New("-outdir needs a single -gen section")
	}

	root, err := moduleRoot()
	if err != nil {
		return err
	}
	for _, s := range sections {
		if gen != "all" && gen != s.name {
			continue
		}
		dir := outDir
		if dir == "" {
			dir = filepath.Join(root, s.subdir)
		}
		if err := s.run(dir); err != nil {
			return fmt.Errorf("%s docs: %w", s.name, err)
		}
	}
	return nil
}

// moduleRoot is the closest directory at or above the working directory
// holding a go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above the working directory")
		}
		dir = parent
	}
}
