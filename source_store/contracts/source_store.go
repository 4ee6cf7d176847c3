package contracts

import (
	"context"

	"github.com/morler/frontpack/source_store/models"
	"github.com/morler/frontpack/syntax"
)

type ISourceStore interface {
	IncludeFile(path string)
	IncludeFiles(paths []string)
	RegisterSyntheticGlob(pattern string) error
	Preload(ctx context.Context) error
	Upsert(realPath string, rawText *string) (bool, error)
	UpsertAsync(ctx context.Context, realPath string) <-chan models.UpsertResult
	GetSyntaxTree(virtualPath string) (*syntax.SourceFile, error)
	ResolveRealPath(virtualPath string) string
	Remove(realPath string) bool
	RemoveUnder(dir string) bool
	EntryFilePaths() []string
	Stats() map[string]interface{}
}
