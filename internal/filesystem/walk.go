// Package filesystem provides directory traversal helpers shared by the
// catalog loader and the global post-actions.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are directories skipped during traversal.
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	"dist", "build", "bin", "tmp",
	".idea", ".vscode",
}

// WalkOptions configures traversal behavior.
type WalkOptions struct {
	IgnoreDirs    []string // directories to skip (default: DefaultIgnoreDirs)
	IncludeHidden bool     // include dot-files and dot-directories
}

// Walk traverses a directory tree, calling visitor for each entry. Return
// filepath.SkipDir from the visitor to prune a directory.
func Walk(root string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignore := opts.IgnoreDirs
	if len(ignore) == 0 {
		ignore = DefaultIgnoreDirs
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") && path != root {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			for _, dir := range ignore {
				if info.Name() == dir {
					return filepath.SkipDir
				}
			}
		}

		return visitor(path, info)
	})
}

// FindFiles returns all files under root whose base name matches the glob
// pattern, in lexical walk order.
func FindFiles(root, pattern string) ([]string, error) {
	var matches []string
	err := Walk(root, WalkOptions{}, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		ok, err := filepath.Match(pattern, info.Name())
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
