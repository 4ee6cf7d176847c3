package compiler

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/morler/frontpack/syntax"
)

// moduleReference is one top-level import or re-export with a module
// specifier, together with the names it pulls from the target module.
type moduleReference struct {
	specifier     string
	specifierNode *sitter.Node
	// defaultImport is the local binding of a default import, if any.
	defaultImport *sitter.Node
	// importedNames are the nodes naming members of the target module.
	importedNames []*sitter.Node
}

func collectModuleReferences(sf *syntax.SourceFile) []moduleReference {
	root := sf.RootNode()
	var references []moduleReference

	for i := 0; i < int(root.NamedChildCount()); i++ {
		statement := root.NamedChild(i)
		if statement.Type() != "import_statement" && statement.Type() != "export_statement" {
			continue
		}

		source := statement.ChildByFieldName("source")
		if source == nil || source.Type() != "string" {
			continue
		}

		reference := moduleReference{
			specifier:     unquote(sf.Content(source)),
			specifierNode: source,
		}

		for j := 0; j < int(statement.NamedChildCount()); j++ {
			child := statement.NamedChild(j)
			switch child.Type() {
			case "import_clause":
				collectImportClause(child, &reference)
			case "export_clause":
				reference.importedNames = append(reference.importedNames, specifierNames(child, "export_specifier")...)
			}
		}

		references = append(references, reference)
	}

	return references
}

func collectImportClause(clause *sitter.Node, reference *moduleReference) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			reference.defaultImport = child
		case "named_imports":
			reference.importedNames = append(reference.importedNames, specifierNames(child, "import_specifier")...)
		}
	}
}

// specifierNames returns the "name" field of every specifierType child.
func specifierNames(list *sitter.Node, specifierType string) []*sitter.Node {
	var names []*sitter.Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		specifier := list.NamedChild(i)
		if specifier.Type() != specifierType {
			continue
		}
		if name := specifier.ChildByFieldName("name"); name != nil {
			names = append(names, name)
		}
	}
	return names
}

func unquote(literal string) string {
	if len(literal) >= 2 {
		return literal[1 : len(literal)-1]
	}
	return literal
}

// collectAmbientModules returns the names of top-level
// `declare module "name"` blocks. Names may hold one "*" wildcard.
func collectAmbientModules(sf *syntax.SourceFile) []string {
	root := sf.RootNode()
	var names []string

	for i := 0; i < int(root.NamedChildCount()); i++ {
		statement := root.NamedChild(i)
		if statement.Type() != "ambient_declaration" {
			continue
		}
		for j := 0; j < int(statement.NamedChildCount()); j++ {
			module := statement.NamedChild(j)
			if module.Type() != "module" {
				continue
			}
			if name := module.ChildByFieldName("name"); name != nil && name.Type() == "string" {
				names = append(names, unquote(sf.Content(name)))
			}
		}
	}

	return names
}
