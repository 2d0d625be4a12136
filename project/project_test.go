package project

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

func TestLoadFrom(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".asfmt.toml"), "indent_width = 2\n")
	writeFile(t, filepath.Join(root, "src", "com", "example", "Main.as"), "package com.example { public class Main {} }\n")
	writeFile(t, filepath.Join(root, "src", "com", "example", "IShape.as"), "package com.example { public interface IShape {} }\n")
	writeFile(t, filepath.Join(root, "src", "com", "Wrong.as"), "package com.other { class Wrong {} }\n")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "not a source")
	writeFile(t, filepath.Join(root, ".git", "Hidden.as"), "class Hidden {}")
	writeFile(t, filepath.Join(root, "lib", ".cache", "Cached.as"), "class Cached {}")

	proj, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(proj.RootDir, "src"), proj.SrcDir)
	assert.Equal(t, 2, proj.Config.Options().IndentWidth)

	files, err := proj.Files()
	require.NoError(t, err)
	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(proj.RootDir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"src/com/Wrong.as",
		"src/com/example/IShape.as",
		"src/com/example/Main.as",
	}, rel)

	classes, err := proj.Classes()
	require.NoError(t, err)
	require.Len(t, classes, 3)

	byName := map[string]Class{}
	for _, c := range classes {
		byName[c.Name] = c
	}
	assert.Equal(t, "com.example.Main", byName["Main"].FullName())
	assert.False(t, byName["Main"].Misplaced())
	assert.True(t, byName["IShape"].Interface)
	assert.True(t, byName["Wrong"].Misplaced())
	assert.Equal(t, "com", byName["Wrong"].Expected)
}

func TestLoadFromWithoutSrc(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Main.as"), "package { class Main {} }")

	proj, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, proj.RootDir, proj.SrcDir)
	assert.Equal(t, "", proj.PackageFor(root))

	classes, err := proj.Classes()
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Main", classes[0].FullName())
	assert.False(t, classes[0].Misplaced())
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadFromInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".asfmt.toml"), "indent_width = 99\n")
	_, err := LoadFrom(root)
	assert.Error(t, err)
}

func TestPackageFor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	proj, err := LoadFrom(root)
	require.NoError(t, err)

	assert.Equal(t, "a.b", proj.PackageFor(filepath.Join(root, "src", "a", "b")))
	assert.Equal(t, "", proj.PackageFor(filepath.Join(root, "src")))
	assert.Equal(t, "", proj.PackageFor(filepath.Join(root, "elsewhere")))
}

func TestSourceFilesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "One.as")
	writeFile(t, path, "var a;")
	files, err := SourceFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".git"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("src"))
}
