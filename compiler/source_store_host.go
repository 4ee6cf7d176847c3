package compiler

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/morler/frontpack/source_store/contracts"
	"github.com/morler/frontpack/syntax"
)

const rawTextCacheSize = 512

// SourceStoreHost wraps a CompilerHost so source files come from the virtual
// source store. ReadFile is served from a raw-text cache; every other hook is
// the wrapped host's.
type SourceStoreHost struct {
	CompilerHost
	store   contracts.ISourceStore
	rawText *lru.Cache[string, string]
}

func NewSourceStoreHost(base CompilerHost, store contracts.ISourceStore) (*SourceStoreHost, error) {
	cache, err := lru.New[string, string](rawTextCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create raw text cache: %w", err)
	}

	return &SourceStoreHost{
		CompilerHost: base,
		store:        store,
		rawText:      cache,
	}, nil
}

// ReadFile returns raw file text, reading each path from the wrapped host
// at most once until ResetReadCache.
func (h *SourceStoreHost) ReadFile(fileName string) (string, error) {
	if text, ok := h.rawText.Get(fileName); ok {
		return text, nil
	}

	text, err := h.CompilerHost.ReadFile(fileName)
	if err != nil {
		return "", err
	}

	h.rawText.Add(fileName, text)
	return text, nil
}

// GetSourceFile delegates to the store; the target is the store's own.
func (h *SourceStoreHost) GetSourceFile(fileName string, _ syntax.Target) (*syntax.SourceFile, error) {
	return h.store.GetSyntaxTree(fileName)
}

// ResetReadCache drops raw text read during the previous pass.
func (h *SourceStoreHost) ResetReadCache() {
	h.rawText.Purge()
}
