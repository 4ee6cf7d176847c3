// Package compiler builds a type-checking program over a set of root files
// and reports syntactic and semantic diagnostics for its source files.
package compiler

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/syntax"
)

const (
	codeCannotFindModule    = 2307
	codeNoExportedMember    = 2305
	codeNoDefaultExport     = 1192
	messageCannotFindModule = "Cannot find module '%s' or its corresponding type declarations."
	messageNoExportedMember = "Module '\"%s\"' has no exported member '%s'."
	messageNoDefaultExport  = "Module '\"%s\"' has no default export."
)

// Program is an immutable snapshot of the files reachable from a root set.
type Program struct {
	options *CompilerOptions
	host    CompilerHost

	files       map[string]*syntax.SourceFile
	fileOrder   []string
	references  map[string][]moduleReference
	resolutions map[string]map[string]moduleResolution
	ambient     []string

	exports        map[string]*exportSet
	syntacticCache map[*syntax.SourceFile][]diagnostics.Diagnostic
}

// CreateProgram loads rootNames and every TypeScript source they import.
// Syntax results computed by oldProgram are reused for trees the host still
// returns unchanged. Failing to load a root is an error; imports that cannot
// be loaded are reported as diagnostics.
func CreateProgram(rootNames []string, options *CompilerOptions, host CompilerHost, oldProgram *Program) (*Program, error) {
	if options == nil {
		options = DefaultCompilerOptions()
	}

	p := &Program{
		options:        options,
		host:           host,
		files:          make(map[string]*syntax.SourceFile),
		references:     make(map[string][]moduleReference),
		resolutions:    make(map[string]map[string]moduleResolution),
		exports:        make(map[string]*exportSet),
		syntacticCache: make(map[*syntax.SourceFile][]diagnostics.Diagnostic),
	}

	var queue []string
	for _, root := range rootNames {
		if _, loaded := p.files[root]; loaded {
			continue
		}
		sf, err := host.GetSourceFile(root, options.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to load root file %s: %w", root, err)
		}
		p.addFile(root, sf)
		queue = append(queue, root)
	}

	for len(queue) > 0 {
		fileName := queue[0]
		queue = queue[1:]

		for _, reference := range p.references[fileName] {
			if _, done := p.resolutions[fileName][reference.specifier]; done {
				continue
			}

			resolution := p.resolveModuleName(reference.specifier, fileName)
			if resolution.kind == resolvedSource {
				if _, loaded := p.files[resolution.fileName]; !loaded {
					sf, err := host.GetSourceFile(resolution.fileName, options.Target)
					if err != nil {
						resolution = moduleResolution{kind: unresolved}
					} else {
						p.addFile(resolution.fileName, sf)
						queue = append(queue, resolution.fileName)
					}
				}
			}
			p.resolutions[fileName][reference.specifier] = resolution
		}
	}

	if oldProgram != nil {
		for sf, found := range oldProgram.syntacticCache {
			if p.files[sf.FileName] == sf {
				p.syntacticCache[sf] = found
			}
		}
	}

	return p, nil
}

func (p *Program) addFile(fileName string, sf *syntax.SourceFile) {
	p.files[fileName] = sf
	p.fileOrder = append(p.fileOrder, fileName)
	p.references[fileName] = collectModuleReferences(sf)
	p.resolutions[fileName] = make(map[string]moduleResolution)
	p.ambient = append(p.ambient, collectAmbientModules(sf)...)
}

// SourceFiles returns every loaded file, roots first, then in discovery order.
func (p *Program) SourceFiles() []*syntax.SourceFile {
	files := make([]*syntax.SourceFile, 0, len(p.fileOrder))
	for _, fileName := range p.fileOrder {
		files = append(files, p.files[fileName])
	}
	return files
}

// GetSourceFile returns a loaded file by its virtual path.
func (p *Program) GetSourceFile(fileName string) (*syntax.SourceFile, bool) {
	sf, ok := p.files[fileName]
	return sf, ok
}

// GetSyntacticDiagnostics returns parse errors for sf.
func (p *Program) GetSyntacticDiagnostics(sf *syntax.SourceFile) []diagnostics.Diagnostic {
	if found, ok := p.syntacticCache[sf]; ok {
		return found
	}

	found := syntacticDiagnostics(sf)
	p.syntacticCache[sf] = found
	return found
}

// GetSemanticDiagnostics reports unresolved imports and imported names the
// target module does not export.
func (p *Program) GetSemanticDiagnostics(sf *syntax.SourceFile) []diagnostics.Diagnostic {
	var found []diagnostics.Diagnostic

	for _, reference := range p.references[sf.FileName] {
		resolution, ok := p.resolutions[sf.FileName][reference.specifier]
		if !ok {
			continue
		}

		switch resolution.kind {
		case unresolved:
			if p.isAmbientModule(reference.specifier) {
				continue
			}
			found = append(found, newCompilerDiagnostic(sf, reference.specifierNode, codeCannotFindModule,
				fmt.Sprintf(messageCannotFindModule, reference.specifier)))

		case resolvedSource:
			target, loaded := p.files[resolution.fileName]
			if !loaded {
				continue
			}
			exports := p.exportsOf(target)
			if !exports.complete {
				continue
			}

			if reference.defaultImport != nil && !exports.has("default") {
				found = append(found, newCompilerDiagnostic(sf, reference.defaultImport, codeNoDefaultExport,
					fmt.Sprintf(messageNoDefaultExport, reference.specifier)))
			}
			for _, name := range reference.importedNames {
				member := exportedName(sf, name)
				if exports.has(member) {
					continue
				}
				found = append(found, newCompilerDiagnostic(sf, name, codeNoExportedMember,
					fmt.Sprintf(messageNoExportedMember, reference.specifier, member)))
			}
		}
	}

	return found
}

func (p *Program) exportsOf(sf *syntax.SourceFile) *exportSet {
	if exports, ok := p.exports[sf.FileName]; ok {
		return exports
	}
	exports := collectExports(sf)
	p.exports[sf.FileName] = exports
	return exports
}

func (p *Program) isAmbientModule(specifier string) bool {
	for _, pattern := range p.ambient {
		if _, ok := matchPathPattern(pattern, specifier); ok {
			return true
		}
	}
	return false
}

func newCompilerDiagnostic(sf *syntax.SourceFile, node *sitter.Node, code int, message string) diagnostics.CompilerDiagnostic {
	return diagnostics.CompilerDiagnostic{
		Location: nodeLocation(sf, node),
		Code:     code,
		Category: diagnostics.CategoryError,
		Text:     message,
	}
}
