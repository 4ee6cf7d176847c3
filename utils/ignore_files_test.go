package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDefaultIgnored(t *testing.T) {
	assert.True(t, IsDefaultIgnored("node_modules/vue/types/index.d.ts"))
	assert.True(t, IsDefaultIgnored("src/.git/HEAD"))
	assert.False(t, IsDefaultIgnored("src/outline/Outline.vue"))
	assert.False(t, IsDefaultIgnored("src/distance.ts"))
}

func TestGetIgnorePatterns(t *testing.T) {
	dir := t.TempDir()

	patterns, err := GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Empty(t, patterns)

	content := "# generated\nsrc/generated/\n**/*.spec.ts\n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte(content), 0644))

	patterns, err = GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/generated/", "**/*.spec.ts"}, patterns)

	assert.True(t, IsIgnored("src/generated/api.ts", patterns))
	assert.True(t, IsIgnored("src/app/main.spec.ts", patterns))
	assert.False(t, IsIgnored("src/app/main.ts", patterns))
}

func TestGetIgnorePatternsRereadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	ignorePath := filepath.Join(dir, IgnoreFileName)

	require.NoError(t, os.WriteFile(ignorePath, []byte("legacy/\n"), 0644))
	patterns, err := GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy/"}, patterns)

	require.NoError(t, os.WriteFile(ignorePath, []byte("legacy/\nvendor/\n"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(ignorePath, later, later))

	patterns, err = GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy/", "vendor/"}, patterns)
}

func TestIsDefaultIgnoredBelow(t *testing.T) {
	root := filepath.Join("/builds", "dist", "app", "src")

	assert.False(t, IsDefaultIgnoredBelow(root, filepath.Join(root, "components", "Foo.vue")))
	assert.True(t, IsDefaultIgnoredBelow(root, filepath.Join(root, "node_modules", "vue", "index.d.ts")))
	assert.True(t, IsDefaultIgnoredBelow(root, filepath.Join(root, "dist", "types.d.ts")))
	// outside root the whole path counts
	assert.True(t, IsDefaultIgnoredBelow(root, filepath.Join("/builds", "dist", "other.d.ts")))
}

func TestGlobBase(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/builds/dist/app/src"), GlobBase("/builds/dist/app/src/**/*.vue"))
	assert.Equal(t, "src", GlobBase("src/**/*.vue"))
	assert.Equal(t, filepath.FromSlash("src/components"), GlobBase("src/components/*.vue"))
	assert.Equal(t, ".", GlobBase("**/*.vue"))
	assert.Equal(t, "src", GlobBase("src/App.vue"))
}
