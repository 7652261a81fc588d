package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCountDocWords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "reels catalog\n\nserve it")
	writeFile(t, filepath.Join(dir, "docs", "api.md"), "one two three")
	writeFile(t, filepath.Join(dir, "docs", "ops", "mysql.md"), "start the container")
	writeFile(t, filepath.Join(dir, "NOTES.md"), "not project documentation at all")
	t.Chdir(dir)

	words, err := countDocWords()
	require.NoError(t, err)
	assert.Equal(t, 4+3+3, words)
}

func TestCountWordsInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.md")
	writeFile(t, path, "  leading\tand  trailing \n spaces ")

	n, err := countWordsInFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = countWordsInFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
