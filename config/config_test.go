package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/asfmt/format"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse(".asfmt.toml", []byte("indent_width = 2\nuse_tabs = true\n"))
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, 2, opts.IndentWidth)
	assert.True(t, opts.UseTabs)
	assert.Equal(t, format.DefaultOptions().MaxBlankLines, opts.MaxBlankLines)
	assert.True(t, opts.BlankLineBetweenDeclarations)
}

func TestParseYAML(t *testing.T) {
	for _, name := range []string{".asfmt.yaml", ".asfmt.yml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse(name, []byte("max_blank_lines: 2\nblank_line_between_declarations: false\ninsert_final_newline: true\n"))
			require.NoError(t, err)

			opts := cfg.Options()
			assert.Equal(t, 2, opts.MaxBlankLines)
			assert.False(t, opts.BlankLineBetweenDeclarations)
			assert.True(t, opts.InsertFinalNewline)
			assert.Equal(t, 4, opts.IndentWidth)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, name := range []string{".asfmt.toml", ".asfmt.yaml"} {
		cfg, err := Parse(name, []byte("# nothing here\n"))
		require.NoError(t, err, name)
		assert.Equal(t, format.DefaultOptions(), cfg.Options(), name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"indent too small", ".asfmt.toml", "indent_width = 0", ErrInvalidOption},
		{"indent too large", ".asfmt.yaml", "indent_width: 17", ErrInvalidOption},
		{"negative blank lines", ".asfmt.toml", "max_blank_lines = -1", ErrInvalidOption},
		{"too many blank lines", ".asfmt.yml", "max_blank_lines: 3", ErrInvalidOption},
		{"unknown toml key", ".asfmt.toml", "indent = 2", ErrInvalidOption},
		{"unknown extension", ".asfmt.json", "{}", ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.file, []byte(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(".asfmt.toml", []byte("indent_width = "))
	assert.Error(t, err)

	_, err = Parse(".asfmt.yaml", []byte("indent: [1"))
	assert.Error(t, err)

	_, err = Parse(".asfmt.yaml", []byte("unknown_key: 1\n"))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".asfmt.yaml"), "indent_width: 3\n")
	nested := filepath.Join(root, "src", "com", "example")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".asfmt.yaml"), path)

	// toml wins when both exist in the same directory
	writeFile(t, filepath.Join(root, ".asfmt.toml"), "indent_width = 5\n")
	path, err = Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".asfmt.toml"), path)

	// the nearest directory wins
	writeFile(t, filepath.Join(root, "src", ".asfmt.yml"), "indent_width: 6\n")
	cfg, err := ForDir(nested)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Options().IndentWidth)
	assert.Equal(t, filepath.Join(root, "src", ".asfmt.yml"), cfg.Path)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ".asfmt.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	two, tabs := 2, true
	base := &Config{IndentWidth: &two}
	merged := base.Merge(&Config{UseTabs: &tabs})

	opts := merged.Options()
	assert.Equal(t, 2, opts.IndentWidth)
	assert.True(t, opts.UseTabs)
	assert.Nil(t, base.UseTabs)

	assert.Equal(t, opts, merged.Merge(nil).Options())
}

func TestNilConfigOptions(t *testing.T) {
	var cfg *Config
	assert.Equal(t, format.DefaultOptions(), cfg.Options())
}

func TestEncode(t *testing.T) {
	three := 3
	data, err := Encode(&Config{IndentWidth: &three})
	require.NoError(t, err)

	cfg, err := Parse(".asfmt.toml", data)
	require.NoError(t, err)
	want := format.DefaultOptions()
	want.IndentWidth = 3
	assert.Equal(t, want, cfg.Options())
}
