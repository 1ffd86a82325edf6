package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingWord(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"foo bar", "bar"},
		{"foo bar ", ""},
		{"Glühwürmchen", "Glühwürmchen"},
		{"it's", "it's"},
		{"x, गुरु", "गुरु"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, TrailingWord(tt.text))
		})
	}
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[engine]
page_size = 5
tab_enable = true
current_imes = ["NoIME", "t-latn-post"]
mixed = ["a", 1]
name = "x"
`), 0o644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	engine, ok := ExtractSection(data, "engine")
	require.True(t, ok)

	n, ok := ExtractInt64(engine, "page_size")
	assert.True(t, ok)
	assert.Equal(t, 5, n)
	b, ok := ExtractBool(engine, "tab_enable")
	assert.True(t, ok)
	assert.True(t, b)
	imes, ok := ExtractStringSlice(engine, "current_imes")
	assert.True(t, ok)
	assert.Equal(t, []string{"NoIME", "t-latn-post"}, imes)
	_, ok = ExtractStringSlice(engine, "mixed")
	assert.False(t, ok)
	s, ok := ExtractString(engine, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = ExtractSection(data, "paths")
	assert.False(t, ok)
}

func TestUserDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "wordboost"), UserDataDir("wordboost"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dicts"), ExpandHome("~/dicts"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "~user", ExpandHome("~user"))
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
	assert.False(t, FileExists(dir))

	file := filepath.Join(dir, "user.db")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.True(t, FileExists(file))
	res = CheckDirStatus(file)
	assert.False(t, res.Exists)
	assert.Error(t, res.Error)
}

func TestSaveTOMLFile(t *testing.T) {
	type section struct {
		PageSize int      `toml:"page_size"`
		IMEs     []string `toml:"current_imes"`
	}
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, SaveTOMLFile(map[string]section{"engine": {PageSize: 4, IMEs: []string{"NoIME"}}}, path))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	engine, ok := ExtractSection(data, "engine")
	require.True(t, ok)
	n, ok := ExtractInt64(engine, "page_size")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")
}

func TestGetAbsolutePath(t *testing.T) {
	assert.Equal(t, "unknown", GetAbsolutePath(""))
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wb.toml"), GetAbsolutePath("~/wb.toml"))
	assert.True(t, filepath.IsAbs(GetAbsolutePath("wb.toml")))
}
