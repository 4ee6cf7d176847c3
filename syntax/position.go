package syntax

import (
	"strings"
	"unicode/utf16"

	sitter "github.com/smacker/go-tree-sitter"
)

// LineText returns the text of the zero-based row, without its line break.
func (sf *SourceFile) LineText(row int) string {
	text := sf.Text
	for i := 0; i < row; i++ {
		next := strings.IndexByte(text, '\n')
		if next < 0 {
			return ""
		}
		text = text[next+1:]
	}
	if end := strings.IndexByte(text, '\n'); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSuffix(text, "\r")
}

// Position returns the 1-based line and column where node starts, and the
// text of that line.
func (sf *SourceFile) Position(node *sitter.Node) (line int, column int, lineText string) {
	start := node.StartPoint()
	lineText = sf.LineText(int(start.Row))
	return int(start.Row) + 1, ColumnOf(lineText, int(start.Column)), lineText
}

// ColumnOf converts a byte offset within line to a 1-based column counted
// in UTF-16 code units, the way editors and tsc count.
func ColumnOf(line string, byteOffset int) int {
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	if byteOffset < 0 {
		byteOffset = 0
	}
	return len(utf16.Encode([]rune(line[:byteOffset]))) + 1
}
