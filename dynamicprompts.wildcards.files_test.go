package dynamicprompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWildcardFile creates a file under root, making parent dirs
func writeWildcardFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFilesystemWildcards_TextFiles(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "colors.txt", "red\nblue\n\n# a comment\ngreen\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	values, ok := source.Get("colors")
	require.True(t, ok)
	assert.Equal(t, []string{"red", "blue", "green"}, values)
}

func TestFilesystemWildcards_NestedDirectories(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "animals/cats.txt", "tabby\nsiamese\n")
	writeWildcardFile(t, root, "animals/dogs.txt", "husky\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, []string{"animals/cats", "animals/dogs"}, source.Names())

	values, ok := source.Get("animals/cats")
	require.True(t, ok)
	assert.Equal(t, []string{"tabby", "siamese"}, values)
}

func TestFilesystemWildcards_YAMLFiles(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "themes.yaml", `
dark:
  colors:
    - black
    - charcoal
light:
  colors:
    - white
`)

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	values, ok := source.Get("dark/colors")
	require.True(t, ok)
	assert.Equal(t, []string{"black", "charcoal"}, values)

	values, ok = source.Get("light/colors")
	require.True(t, ok)
	assert.Equal(t, []string{"white"}, values)
}

func TestFilesystemWildcards_YAMLDirectoryPrefix(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "styles/painting.yml", "media:\n  - oil\n  - acrylic\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	values, ok := source.Get("styles/media")
	require.True(t, ok)
	assert.Equal(t, []string{"oil", "acrylic"}, values)
}

func TestFilesystemWildcards_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "notes.md", "not a collection\n")
	writeWildcardFile(t, root, "colors.txt", "red\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, []string{"colors"}, source.Names())
}

func TestFilesystemWildcards_MissingRoot(t *testing.T) {
	_, err := NewFilesystemWildcards(filepath.Join(t.TempDir(), "nope"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgWildcardRootMissing)
}

func TestFilesystemWildcards_Reload(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "colors.txt", "red\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	writeWildcardFile(t, root, "colors.txt", "red\nblue\n")
	require.NoError(t, source.Reload())

	values, ok := source.Get("colors")
	require.True(t, ok)
	assert.Equal(t, []string{"red", "blue"}, values)
}

func TestFilesystemWildcards_GetReturnsCopy(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "colors.txt", "red\nblue\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	values, _ := source.Get("colors")
	values[0] = "mutated"

	fresh, _ := source.Get("colors")
	assert.Equal(t, []string{"red", "blue"}, fresh)
}

func TestFilesystemWildcards_WatchAndClose(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "colors.txt", "red\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)

	require.NoError(t, source.Watch())
	require.NoError(t, source.Close())

	// Close is idempotent
	require.NoError(t, source.Close())
}

func TestFilesystemWildcards_ReloadAfterClose(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "colors.txt", "red\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	require.NoError(t, source.Close())

	err = source.Reload()

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgSourceClosed)
}

func TestFilesystemWildcards_EngineIntegration(t *testing.T) {
	root := t.TempDir()
	writeWildcardFile(t, root, "colors.txt", "red\nblue\n")

	source, err := NewFilesystemWildcards(root, nil)
	require.NoError(t, err)
	defer source.Close()

	engine := MustNew(WithWildcards(source))
	prompts, err := engine.Generate("a __colors__ ball", 0,
		WithStrategy(StrategyCombinatorial))

	require.NoError(t, err)
	assert.Equal(t, []string{"a red ball", "a blue ball"}, prompts)
}
