package source_store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/morler/frontpack/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooComponent = `<template>
  <p>{{ label }}</p>
</template>

<script lang="ts">
export default { name: 'Foo' }
</script>
`

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestUpsert_IdenticalContentIsNoop(t *testing.T) {
	store := NewVirtualSourceStore(StoreOptions{Target: syntax.TargetLatest})
	content := "export const answer = 42;\n"

	changed, err := store.Upsert("src/answer.ts", &content)
	require.NoError(t, err)
	assert.True(t, changed)

	first, err := store.GetSyntaxTree("src/answer.ts")
	require.NoError(t, err)

	changed, err = store.Upsert("src/answer.ts", &content)
	require.NoError(t, err)
	assert.False(t, changed)

	second, err := store.GetSyntaxTree("src/answer.ts")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, syntax.TargetESNext, second.Target)

	updated := "export const answer = 43;\n"
	changed, err = store.Upsert("src/answer.ts", &updated)
	require.NoError(t, err)
	assert.True(t, changed)

	third, err := store.GetSyntaxTree("src/answer.ts")
	require.NoError(t, err)
	assert.Equal(t, updated, third.Text)
}

func TestUpsert_ReadsFromDiskAndExtractsComponents(t *testing.T) {
	dir := t.TempDir()
	componentPath := filepath.Join(dir, "components", "Foo.vue")
	writeFile(t, componentPath, fooComponent)

	store := NewVirtualSourceStore(StoreOptions{})
	changed, err := store.Upsert(componentPath, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	sourceFile, err := store.GetSyntaxTree(componentPath + ".ts")
	require.NoError(t, err)
	assert.Equal(t, "//\n//\n//\n//\n\nexport default { name: 'Foo' }\n", sourceFile.Text)
	assert.Equal(t, componentPath, store.ResolveRealPath(componentPath+".ts"))
	assert.Contains(t, store.EntryFilePaths(), componentPath+".ts")
}

func TestUpsert_DeclarationFilesBecomeRoots(t *testing.T) {
	store := NewVirtualSourceStore(StoreOptions{})
	content := "declare module '*.vue';\n"

	_, err := store.Upsert("src/shims-vue.d.ts", &content)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/shims-vue.d.ts"}, store.EntryFilePaths())
}

func TestSyntheticMapping_RoundTripAndRemoval(t *testing.T) {
	dir := t.TempDir()
	componentPath := filepath.Join(dir, "components", "Foo.vue")
	writeFile(t, componentPath, fooComponent)
	writeFile(t, filepath.Join(dir, "node_modules", "lib", "Bar.vue"), fooComponent)

	store := NewVirtualSourceStore(StoreOptions{})
	require.NoError(t, store.RegisterSyntheticGlob(filepath.Join(dir, "**", "*.vue")))

	virtualPath := componentPath + ".ts"
	assert.Equal(t, componentPath, store.ResolveRealPath(virtualPath))
	assert.Equal(t, []string{virtualPath}, store.EntryFilePaths())

	require.NoError(t, store.Preload(context.Background()))
	_, err := store.GetSyntaxTree(virtualPath)
	require.NoError(t, err)

	assert.True(t, store.Remove(componentPath))
	assert.Equal(t, virtualPath, store.ResolveRealPath(virtualPath))
	assert.NotContains(t, store.EntryFilePaths(), virtualPath)
	assert.False(t, store.Remove(componentPath))
}

func TestRegisterSyntheticGlob_InvalidPattern(t *testing.T) {
	store := NewVirtualSourceStore(StoreOptions{})

	assert.Error(t, store.RegisterSyntheticGlob(""))
}

func TestIncludedFiles_SurviveUnrelatedUpdates(t *testing.T) {
	store := NewVirtualSourceStore(StoreOptions{})
	store.IncludeFiles([]string{"src/env.d.ts", "src/main.ts"})
	store.IncludeFile("src/env.d.ts")

	for i := 0; i < 5; i++ {
		content := "export const n = " + string(rune('0'+i)) + ";\n"
		_, err := store.Upsert("src/other.ts", &content)
		require.NoError(t, err)
	}
	assert.True(t, store.Remove("src/other.ts"))
	assert.Equal(t, []string{"src/env.d.ts", "src/main.ts"}, store.EntryFilePaths())

	assert.True(t, store.Remove("src/env.d.ts"))
	assert.Equal(t, []string{"src/main.ts"}, store.EntryFilePaths())
}

func TestGetSyntaxTree_LazyLoadAndMissingFile(t *testing.T) {
	dir := t.TempDir()
	utilPath := filepath.Join(dir, "util.ts")
	writeFile(t, utilPath, "export function double(n: number) { return n * 2 }\n")

	store := NewVirtualSourceStore(StoreOptions{})

	sourceFile, err := store.GetSyntaxTree(utilPath)
	require.NoError(t, err)
	assert.Equal(t, utilPath, sourceFile.FileName)

	_, err = store.GetSyntaxTree(filepath.Join(dir, "missing.ts"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	stats := store.Stats()
	assert.Equal(t, int64(2), stats["lazy_loads"])
	assert.Equal(t, int64(1), stats["parses"])
}

func TestGetSyntaxTree_LoadsImportedComponentByVirtualPath(t *testing.T) {
	dir := t.TempDir()
	componentPath := filepath.Join(dir, "Foo.vue")
	writeFile(t, componentPath, fooComponent)

	store := NewVirtualSourceStore(StoreOptions{})

	sourceFile, err := store.GetSyntaxTree(componentPath + ".ts")
	require.NoError(t, err)
	assert.Contains(t, sourceFile.Text, "export default")
	assert.Equal(t, componentPath, store.ResolveRealPath(componentPath+".ts"))
}

func TestPreload_LoadsEverythingAndFailsOnMissingRoot(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.ts", "b.ts", "c.d.ts"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, "export {};\n")
		paths = append(paths, path)
	}

	store := NewVirtualSourceStore(StoreOptions{})
	store.IncludeFiles(paths)
	require.NoError(t, store.Preload(context.Background()))
	assert.Equal(t, 3, store.Stats()["records"])

	store.IncludeFile(filepath.Join(dir, "gone.ts"))
	assert.Error(t, store.Preload(context.Background()))
}

func TestRegisterSyntheticGlob_ProjectBelowIgnoredFolderName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist", "app")
	componentPath := filepath.Join(dir, "src", "Foo.vue")
	writeFile(t, componentPath, fooComponent)
	writeFile(t, filepath.Join(dir, "src", "coverage", "Report.vue"), fooComponent)

	store := NewVirtualSourceStore(StoreOptions{})
	require.NoError(t, store.RegisterSyntheticGlob(filepath.Join(dir, "src", "**", "*.vue")))

	assert.Equal(t, []string{componentPath + ".ts"}, store.EntryFilePaths())
}

func TestUpsertAsync_DeliversOneResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "export const a = 1\n")

	store := NewVirtualSourceStore(StoreOptions{})
	ctx := context.Background()

	result := <-store.UpsertAsync(ctx, path)
	require.NoError(t, result.Err)
	assert.Equal(t, path, result.RealFilePath)
	assert.True(t, result.Changed)

	results := store.UpsertAsync(ctx, path)
	result = <-results
	require.NoError(t, result.Err)
	assert.False(t, result.Changed)
	_, open := <-results
	assert.False(t, open)

	result = <-store.UpsertAsync(ctx, filepath.Join(dir, "missing.ts"))
	assert.ErrorIs(t, result.Err, fs.ErrNotExist)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	result = <-store.UpsertAsync(cancelled, path)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestRemoveUnder_DropsEverythingInsideTheFolder(t *testing.T) {
	dir := t.TempDir()
	componentPath := filepath.Join(dir, "components", "Foo.vue")
	declarationPath := filepath.Join(dir, "components", "shims.d.ts")
	siblingPath := filepath.Join(dir, "components-old", "Bar.vue")
	entryPath := filepath.Join(dir, "main.ts")
	writeFile(t, componentPath, fooComponent)
	writeFile(t, siblingPath, fooComponent)
	declaration := "declare const BUILD: string\n"
	writeFile(t, declarationPath, declaration)

	store := NewVirtualSourceStore(StoreOptions{})
	store.IncludeFile(entryPath)
	require.NoError(t, store.RegisterSyntheticGlob(filepath.Join(dir, "**", "*.vue")))
	_, err := store.Upsert(componentPath, nil)
	require.NoError(t, err)
	_, err = store.Upsert(declarationPath, nil)
	require.NoError(t, err)

	assert.True(t, store.RemoveUnder(filepath.Join(dir, "components")))
	assert.Equal(t, []string{siblingPath + ".ts", entryPath}, store.EntryFilePaths())
	assert.Equal(t, componentPath+".ts", store.ResolveRealPath(componentPath+".ts"))
	assert.Equal(t, 0, store.Stats()["records"])

	assert.False(t, store.RemoveUnder(filepath.Join(dir, "components")))
}

func TestResetStats_ClearsCountersButKeepsRecords(t *testing.T) {
	store := NewVirtualSourceStore(StoreOptions{})
	content := "export {}\n"
	_, err := store.Upsert("src/a.ts", &content)
	require.NoError(t, err)
	_, err = store.GetSyntaxTree("src/a.ts")
	require.NoError(t, err)

	store.ResetStats()

	stats := store.Stats()
	assert.Equal(t, int64(0), stats["parses"])
	assert.Equal(t, int64(0), stats["total_requests"])
	assert.Equal(t, 1, stats["records"])
}
