package compiler

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/morler/frontpack/syntax"
)

// exportSet is the set of names a module exports. When complete is false
// the module may export names that were not collected, and no missing-member
// errors are reported against it.
type exportSet struct {
	names    map[string]struct{}
	complete bool
}

func (e *exportSet) has(name string) bool {
	_, ok := e.names[name]
	return ok
}

func (e *exportSet) add(name string) {
	e.names[name] = struct{}{}
}

func collectExports(sf *syntax.SourceFile) *exportSet {
	exports := &exportSet{names: make(map[string]struct{}), complete: true}

	root := sf.RootNode()
	if sf.IsDeclaration || root.HasError() {
		exports.complete = false
		return exports
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		statement := root.NamedChild(i)
		if statement.Type() != "export_statement" {
			continue
		}
		if !collectExportStatement(sf, statement, exports) {
			exports.complete = false
		}
	}

	// A module without exports is usually a script or an ambient shim.
	if len(exports.names) == 0 {
		exports.complete = false
	}

	return exports
}

// collectExportStatement adds the names statement exports and reports
// whether they could all be determined.
func collectExportStatement(sf *syntax.SourceFile, statement *sitter.Node, exports *exportSet) bool {
	known := false

	for i := 0; i < int(statement.ChildCount()); i++ {
		child := statement.Child(i)
		switch child.Type() {
		case "default":
			exports.add("default")
			known = true
		case "*", "=", "as":
			// export * from, export =, export as namespace
			return false
		case "export_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				specifier := child.NamedChild(j)
				if specifier.Type() != "export_specifier" {
					continue
				}
				exported := specifier.ChildByFieldName("alias")
				if exported == nil {
					exported = specifier.ChildByFieldName("name")
				}
				if exported != nil {
					exports.add(exportedName(sf, exported))
				}
			}
			known = true
		case "namespace_export":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				exports.add(exportedName(sf, child.NamedChild(j)))
			}
			known = true
		}
	}

	if known {
		return true
	}

	declaration := statement.ChildByFieldName("declaration")
	if declaration == nil {
		return false
	}
	return collectDeclarationNames(sf, declaration, exports)
}

func collectDeclarationNames(sf *syntax.SourceFile, declaration *sitter.Node, exports *exportSet) bool {
	switch declaration.Type() {
	case "function_declaration", "generator_function_declaration", "function_signature",
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration",
		"internal_module", "module":
		name := declaration.ChildByFieldName("name")
		if name == nil {
			return false
		}
		exports.add(exportedName(sf, name))
		return true
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(declaration.NamedChildCount()); i++ {
			declarator := declaration.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			name := declarator.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				// destructuring patterns
				return false
			}
			exports.add(sf.Content(name))
		}
		return true
	case "ambient_declaration":
		for i := 0; i < int(declaration.NamedChildCount()); i++ {
			if !collectDeclarationNames(sf, declaration.NamedChild(i), exports) {
				return false
			}
		}
		return declaration.NamedChildCount() > 0
	}
	return false
}

// exportedName reads an identifier or a string module export name.
func exportedName(sf *syntax.SourceFile, node *sitter.Node) string {
	if node.Type() == "string" {
		return unquote(sf.Content(node))
	}
	return sf.Content(node)
}
