package models

import "github.com/morler/frontpack/syntax"

// SourceRecord holds the parsed state of one virtual path.
type SourceRecord struct {
	RealFilePath   string
	SyntaxTree     *syntax.SourceFile
	ContentVersion string
}

// UpsertResult is delivered by an asynchronous upsert of RealFilePath.
type UpsertResult struct {
	RealFilePath string
	Changed      bool
	Err          error
}
