package compiler

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morler/frontpack/source_store"
	"github.com/morler/frontpack/syntax"
)

type countingHost struct {
	files map[string]string
	reads map[string]int
}

func (h *countingHost) GetSourceFile(fileName string, target syntax.Target) (*syntax.SourceFile, error) {
	text, err := h.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return syntax.ParseSourceFile(fileName, text, target)
}

func (h *countingHost) ReadFile(fileName string) (string, error) {
	h.reads[fileName]++
	text, ok := h.files[fileName]
	if !ok {
		return "", fmt.Errorf("no such file %s", fileName)
	}
	return text, nil
}

func (h *countingHost) FileExists(fileName string) bool {
	_, ok := h.files[fileName]
	return ok
}

func (h *countingHost) GetCurrentDirectory() string { return "/project" }

func TestSourceStoreHostCachesRawText(t *testing.T) {
	base := &countingHost{
		files: map[string]string{"/project/package.json": "{}"},
		reads: make(map[string]int),
	}
	store := source_store.NewVirtualSourceStore(source_store.StoreOptions{})
	host, err := NewSourceStoreHost(base, store)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		text, err := host.ReadFile("/project/package.json")
		require.NoError(t, err)
		assert.Equal(t, "{}", text)
	}
	assert.Equal(t, 1, base.reads["/project/package.json"])

	_, err = host.ReadFile("/project/missing.json")
	assert.Error(t, err)

	host.ResetReadCache()
	_, err = host.ReadFile("/project/package.json")
	require.NoError(t, err)
	assert.Equal(t, 2, base.reads["/project/package.json"])
}

func TestSourceStoreHostDelegates(t *testing.T) {
	base := &countingHost{files: map[string]string{"/project/a.ts": "x"}, reads: make(map[string]int)}
	store := source_store.NewVirtualSourceStore(source_store.StoreOptions{})
	host, err := NewSourceStoreHost(base, store)
	require.NoError(t, err)

	assert.True(t, host.FileExists("/project/a.ts"))
	assert.False(t, host.FileExists("/project/b.ts"))
	assert.Equal(t, "/project", host.GetCurrentDirectory())
}

func TestSourceStoreHostReadsTreesFromStore(t *testing.T) {
	dir := t.TempDir()
	text := "export const a = 1\n"
	path := filepath.Join(dir, "a.ts")

	store := source_store.NewVirtualSourceStore(source_store.StoreOptions{})
	changed, err := store.Upsert(path, &text)
	require.NoError(t, err)
	require.True(t, changed)

	base := &countingHost{files: map[string]string{}, reads: make(map[string]int)}
	host, err := NewSourceStoreHost(base, store)
	require.NoError(t, err)

	first, err := host.GetSourceFile(path, syntax.TargetES5)
	require.NoError(t, err)
	second, err := host.GetSourceFile(path, syntax.TargetES5)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, syntax.TargetLatest, first.Target)
	assert.Empty(t, base.reads)
}
