package compiler

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/morler/frontpack/syntax"
)

// CompilerOptions is the subset of tsconfig compiler options the program uses.
type CompilerOptions struct {
	Target syntax.Target
	// BaseURL anchors non-absolute Paths targets.
	BaseURL string
	// Paths maps module name patterns with at most one "*" to candidate
	// locations, as in tsconfig "paths".
	Paths map[string][]string
	// SyntheticExtensions are non-TypeScript files imported through a
	// virtual ".ts" projection, e.g. ".vue".
	SyntheticExtensions []string
}

// DefaultCompilerOptions targets the latest language level with Vue support.
func DefaultCompilerOptions() *CompilerOptions {
	return &CompilerOptions{
		Target:              syntax.TargetLatest,
		SyntheticExtensions: []string{".vue"},
	}
}

func (o *CompilerOptions) isSyntheticExtension(ext string) bool {
	for _, synthetic := range o.SyntheticExtensions {
		if strings.EqualFold(synthetic, ext) {
			return true
		}
	}
	return false
}

// pathPatterns returns Paths keys, longest prefix first.
func (o *CompilerOptions) pathPatterns() []string {
	patterns := make([]string, 0, len(o.Paths))
	for pattern := range o.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Slice(patterns, func(i, j int) bool {
		pi := strings.Index(patterns[i], "*")
		pj := strings.Index(patterns[j], "*")
		if pi < 0 {
			pi = len(patterns[i])
		}
		if pj < 0 {
			pj = len(patterns[j])
		}
		if pi != pj {
			return pi > pj
		}
		return patterns[i] < patterns[j]
	})
	return patterns
}

func (o *CompilerOptions) resolvePathTarget(target string, substitution string) string {
	candidate := strings.Replace(target, "*", substitution, 1)
	if filepath.IsAbs(candidate) {
		return candidate
	}
	return filepath.Join(o.BaseURL, candidate)
}

// matchPathPattern matches specifier against a "paths" pattern and returns
// the text captured by the wildcard.
func matchPathPattern(pattern string, specifier string) (string, bool) {
	star := strings.Index(pattern, "*")
	if star < 0 {
		return "", pattern == specifier
	}

	prefix, suffix := pattern[:star], pattern[star+1:]
	if len(specifier) < len(prefix)+len(suffix) ||
		!strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
		return "", false
	}
	return specifier[len(prefix) : len(specifier)-len(suffix)], true
}
