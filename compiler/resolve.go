package compiler

import (
	"path/filepath"
	"strings"

	"github.com/morler/frontpack/vue_extractor"
)

type resolutionKind int

const (
	// resolvedSource is a TypeScript source that joins the program.
	resolvedSource resolutionKind = iota
	// resolvedPackage is a package found under node_modules; its sources
	// are not loaded.
	resolvedPackage
	// unchecked is an asset left to a bundler loader.
	unchecked
	unresolved
)

type moduleResolution struct {
	kind     resolutionKind
	fileName string
}

var uncheckedExtensions = map[string]struct{}{
	".css": {}, ".scss": {}, ".sass": {}, ".less": {}, ".styl": {},
	".json": {}, ".html": {}, ".svg": {}, ".png": {}, ".jpg": {},
	".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {}, ".woff": {},
	".woff2": {}, ".ttf": {}, ".eot": {},
}

func isRelativeSpecifier(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func (p *Program) resolveModuleName(specifier string, containingFile string) moduleResolution {
	if isRelativeSpecifier(specifier) {
		return p.resolveFileOrDirectory(filepath.Join(filepath.Dir(containingFile), filepath.FromSlash(specifier)))
	}
	if filepath.IsAbs(specifier) {
		return p.resolveFileOrDirectory(specifier)
	}

	for _, pattern := range p.options.pathPatterns() {
		substitution, ok := matchPathPattern(pattern, specifier)
		if !ok {
			continue
		}
		for _, target := range p.options.Paths[pattern] {
			resolution := p.resolveFileOrDirectory(p.options.resolvePathTarget(target, substitution))
			if resolution.kind != unresolved {
				return resolution
			}
		}
		return moduleResolution{kind: unresolved}
	}

	return p.resolvePackage(specifier, containingFile)
}

func (p *Program) resolveFileOrDirectory(base string) moduleResolution {
	ext := strings.ToLower(filepath.Ext(base))

	if p.options.isSyntheticExtension(ext) {
		if p.host.FileExists(base) {
			return moduleResolution{kind: resolvedSource, fileName: base + vue_extractor.VirtualSuffix}
		}
		return moduleResolution{kind: unresolved}
	}
	if _, ok := uncheckedExtensions[ext]; ok {
		return moduleResolution{kind: unchecked}
	}

	switch ext {
	case ".ts", ".tsx":
		if p.host.FileExists(base) {
			return moduleResolution{kind: resolvedSource, fileName: base}
		}
	case ".js", ".jsx", ".mjs", ".cjs":
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		for _, candidate := range []string{stem + ".ts", stem + ".tsx", stem + ".d.ts"} {
			if p.host.FileExists(candidate) {
				return moduleResolution{kind: resolvedSource, fileName: candidate}
			}
		}
	}

	for _, suffix := range []string{".ts", ".tsx", ".d.ts"} {
		if p.host.FileExists(base + suffix) {
			return moduleResolution{kind: resolvedSource, fileName: base + suffix}
		}
	}
	for _, index := range []string{"index.ts", "index.tsx", "index.d.ts"} {
		candidate := filepath.Join(base, index)
		if p.host.FileExists(candidate) {
			return moduleResolution{kind: resolvedSource, fileName: candidate}
		}
	}

	return moduleResolution{kind: unresolved}
}

// resolvePackage looks for the package, or its @types package, in every
// node_modules folder from the containing directory up to the root.
func (p *Program) resolvePackage(specifier string, containingFile string) moduleResolution {
	name := packageName(specifier)
	if name == "" {
		return moduleResolution{kind: unresolved}
	}

	dir := filepath.Dir(containingFile)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.host.GetCurrentDirectory(), dir)
	}

	for {
		candidates := []string{
			filepath.Join(dir, "node_modules", filepath.FromSlash(name), "package.json"),
			filepath.Join(dir, "node_modules", "@types", typesPackageName(name), "package.json"),
		}
		for _, candidate := range candidates {
			if _, err := p.host.ReadFile(candidate); err == nil {
				return moduleResolution{kind: resolvedPackage, fileName: candidate}
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return moduleResolution{kind: unresolved}
		}
		dir = parent
	}
}

// packageName strips any subpath: "@scope/pkg/sub" is "@scope/pkg" and
// "vue/types" is "vue".
func packageName(specifier string) string {
	if strings.HasPrefix(specifier, "node:") {
		return "node"
	}
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// typesPackageName maps "@scope/pkg" to its DefinitelyTyped name "scope__pkg".
func typesPackageName(name string) string {
	if strings.HasPrefix(name, "@") {
		return strings.Replace(strings.TrimPrefix(name, "@"), "/", "__", 1)
	}
	return name
}
