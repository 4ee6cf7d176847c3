package compiler

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/syntax"
)

func nodeLocation(sf *syntax.SourceFile, node *sitter.Node) diagnostics.Location {
	line, column, lineText := sf.Position(node)
	return diagnostics.Location{
		File:         sf.FileName,
		LineNumber:   line,
		ColumnNumber: column,
		SourceLine:   lineText,
	}
}
