package engine

// discovery.go - Finding the files to lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/jqlint/pkg/parser"
)

// skippedDirs are directory names never descended into.
var skippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
}

// Discover expands paths into the sorted list of lintable files. Directories
// are walked recursively, skipping dependency and hidden directories. A path
// naming a file is kept only when its extension is supported.
func Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("no such file or directory: %s", root)
			}
			return nil, err
		}
		if !info.IsDir() {
			if !parser.IsSupported(root) {
				return nil, fmt.Errorf("unsupported file type: %s", root)
			}
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != root && SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if parser.IsSupported(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// SkipDir reports whether a directory with the given name is left out of
// discovery.
func SkipDir(name string) bool {
	return skippedDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}
