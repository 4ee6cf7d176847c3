package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// SourceFile is a parsed TypeScript source as seen by the compiler program.
// FileName is the virtual path, which may not exist on disk.
type SourceFile struct {
	FileName      string
	Text          string
	Tree          *sitter.Tree
	Target        Target
	IsDeclaration bool
	IsTSX         bool
}

// ParseSourceFile parses text into a tree-sitter tree tagged with target.
// The tsx grammar is used for .tsx files, the typescript grammar otherwise.
func ParseSourceFile(fileName string, text string, target Target) (*SourceFile, error) {
	isTSX := strings.HasSuffix(fileName, ".tsx")

	// Parsers are not safe for concurrent use, so each call gets its own.
	parser := sitter.NewParser()
	if isTSX {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}

	return &SourceFile{
		FileName:      fileName,
		Text:          text,
		Tree:          tree,
		Target:        target,
		IsDeclaration: IsDeclarationFile(fileName),
		IsTSX:         isTSX,
	}, nil
}

// RootNode returns the root of the syntax tree.
func (sf *SourceFile) RootNode() *sitter.Node {
	return sf.Tree.RootNode()
}

// Language returns the grammar the file was parsed with.
func (sf *SourceFile) Language() *sitter.Language {
	if sf.IsTSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// Content returns the source text covered by node.
func (sf *SourceFile) Content(node *sitter.Node) string {
	return node.Content([]byte(sf.Text))
}

// IsDeclarationFile reports whether fileName is an ambient declaration file.
func IsDeclarationFile(fileName string) bool {
	return strings.HasSuffix(fileName, ".d.ts")
}
