package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar"
)

// IgnoreFileName is the per-project file listing extra watch/glob exclusions.
const IgnoreFileName = ".frontpackignore"

// ignoreFiles remembers parsed ignore files until their modification time moves.
var ignoreFiles = struct {
	sync.Mutex
	entries map[string]ignoreFile
}{entries: make(map[string]ignoreFile)}

type ignoreFile struct {
	modTime  time.Time
	patterns []string
}

var defaultIgnoredDirs = []string{
	"node_modules",
	".git",
	".svn",
	".idea",
	".vscode",
	".cache",
	"dist",
	"coverage",
}

// GetIgnorePatterns returns the patterns listed in root's ignore file, or
// none when the project has no such file.
func GetIgnorePatterns(root string) ([]string, error) {
	path := filepath.Join(root, IgnoreFileName)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ignoreFiles.Lock()
	defer ignoreFiles.Unlock()

	if entry, ok := ignoreFiles.entries[path]; ok && entry.modTime.Equal(info.ModTime()) {
		return entry.patterns, nil
	}

	patterns, err := readIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ignoreFiles.entries[path] = ignoreFile{modTime: info.ModTime(), patterns: patterns}

	return patterns, nil
}

// IsDefaultIgnored reports whether any segment of path is a folder that never
// holds project sources (dependencies, VCS metadata, build output).
func IsDefaultIgnored(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range parts {
		for _, dir := range defaultIgnoredDirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}

// IsDefaultIgnoredBelow applies IsDefaultIgnored to the part of path inside
// root, so the folders a project is checked out under do not count.
func IsDefaultIgnoredBelow(root, path string) bool {
	relativePath, err := filepath.Rel(root, path)
	if err != nil || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return IsDefaultIgnored(path)
	}
	return IsDefaultIgnored(relativePath)
}

// GlobBase returns the leading folders of pattern that contain no glob syntax.
func GlobBase(pattern string) string {
	segments := strings.Split(filepath.ToSlash(pattern), "/")
	literal := 0
	for literal < len(segments)-1 && !strings.ContainsAny(segments[literal], "*?[{\\") {
		literal++
	}
	if literal == 0 {
		return "."
	}
	base := strings.Join(segments[:literal], "/")
	if base == "" {
		return string(filepath.Separator)
	}
	return filepath.FromSlash(base)
}

// IsIgnored checks a slash separated relative path against ignore patterns.
func IsIgnored(relativePath string, patterns []string) bool {
	relativePath = filepath.ToSlash(relativePath)
	for _, pattern := range patterns {
		if match, _ := doublestar.Match(pattern, relativePath); match {
			return true
		}
		// "dir/" ignores everything below dir
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(relativePath, pattern) {
			return true
		}
	}
	return false
}

func readIgnoreFile(ignorePath string) ([]string, error) {
	content, err := os.ReadFile(ignorePath)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}
