package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExpandsAffixes(t *testing.T) {
	d, err := Load("testdata", "en_US")
	require.NoError(t, err)

	assert.Equal(t, []string{"camel", "camelhair", "camellia", "Camelot", "camels"}, d.Complete("camel", 0))
	assert.Equal(t, []string{"test", "tests"}, d.Complete("test", 0))
	assert.Equal(t, []string{"cerulean"}, d.Complete("cerule", 0))
	assert.Equal(t, []string{"Barcelona"}, d.Complete("Barcelona", 0))
	assert.Equal(t, []string{"untidy"}, d.Complete("unt", 0))
	assert.True(t, d.Contains("tidy"))
	assert.False(t, d.Contains("tidys"))
	assert.Empty(t, d.Complete("Barcelona2", 0))
}

func TestCompleteIsAccentInsensitive(t *testing.T) {
	de, err := Load("testdata", "de_DE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Glühwürmchen"}, de.Complete("Gluhw", 0))
	assert.Equal(t, []string{"Glühwürmchen"}, de.Complete("glühw", 0))
	assert.Equal(t, []string{"Alpenglühen"}, de.Complete("Alpengluhen", 0))

	fr, err := Load("testdata", "fr_FR")
	require.NoError(t, err)
	assert.Equal(t, []string{"différemment", "différent"}, fr.Complete("differe", 0))
}

func TestCompleteLimit(t *testing.T) {
	d, err := Load("testdata", "en_US")
	require.NoError(t, err)
	assert.Len(t, d.Complete("c", 2), 2)
	assert.Empty(t, d.Complete("", 10))
}

func TestEncodingFallbacks(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"la_LA", []string{"médaille", "naïve"}},
		{"xx_XX", []string{"garçon", "garçons"}},
		{"bo_BO", []string{"alpha", "beta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := ReadFiles(filepath.Join("testdata", tt.name+".dic"), filepath.Join("testdata", tt.name+".aff"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, words)
		})
	}
}

func TestDecode(t *testing.T) {
	text, used, err := Decode([]byte("\xef\xbb\xbf3\r\nfoo\r\n"), "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", used)
	assert.Equal(t, "3\nfoo\n", text)

	text, used, err = Decode([]byte("caf\xe9"), "")
	require.NoError(t, err)
	assert.Equal(t, "ISO-8859-1", used)
	assert.Equal(t, "café", text)

	text, _, err = Decode([]byte("\xc0\xe1"), "KOI8-R")
	require.NoError(t, err)
	assert.Equal(t, "юА", text)
}

func TestDeclaredEncoding(t *testing.T) {
	assert.Equal(t, "ISO8859-15", DeclaredEncoding([]byte("# comment\nSET ISO8859-15\nTRY abc\n")))
	assert.Equal(t, "", DeclaredEncoding([]byte("TRY abc\n")))
}

func TestAffixConditions(t *testing.T) {
	aff := ParseAffixes("SFX S Y 2\nSFX S y ies [^aeiou]y\nSFX S 0 s [aeiou]y\n")
	assert.Equal(t, []string{"fly", "flies"}, aff.Expand(Entry{Word: "fly", Flags: []string{"S"}}))
	assert.Equal(t, []string{"day", "days"}, aff.Expand(Entry{Word: "day", Flags: []string{"S"}}))
	assert.Equal(t, []string{"cat"}, aff.Expand(Entry{Word: "cat", Flags: []string{"S"}}))
}

func TestAffixLongAndNumericFlags(t *testing.T) {
	long := ParseAffixes("FLAG long\nSFX Aa Y 1\nSFX Aa 0 ing .\n")
	entries := ParseWordList("1\nwalk/AaZz\n", long)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Aa", "Zz"}, entries[0].Flags)
	assert.Equal(t, []string{"walk", "walking"}, long.Expand(entries[0]))

	num := ParseAffixes("FLAG num\nPFX 101 Y 1\nPFX 101 0 re .\n")
	entries = ParseWordList("do/7,101\n", num)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"do", "redo"}, num.Expand(entries[0]))
}

func TestMissingDictionary(t *testing.T) {
	_, err := Load("testdata", "zz_ZZ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoaderAndSet(t *testing.T) {
	l := NewLoader(t.TempDir(), "testdata")
	s := l.NewSet([]string{"de_DE", "nope_NO", "en_US"})
	assert.Equal(t, []string{"de_DE", "nope_NO", "en_US"}, s.Names())
	require.Len(t, s.Dictionaries(), 2)

	assert.Equal(t, []string{"Glut", "Glühwürmchen"}, s.Complete("Gl", 0))
	assert.True(t, s.Contains("cerulean"))

	s.Rotate(1)
	assert.Equal(t, []string{"nope_NO", "en_US", "de_DE"}, s.Names())
	assert.Equal(t, "en_US", s.Dictionaries()[0].Name())

	// Failures are cached, so the second set does not hit the disk again.
	_, err := l.Get("nope_NO")
	assert.True(t, errors.Is(err, ErrNotFound))

	d1, err := l.Get("en_US")
	require.NoError(t, err)
	d2, err := l.Get("en_US")
	require.NoError(t, err)
	assert.Same(t, d1, d2)
}

func TestAvailable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aa_AA.dic"), []byte("1\nword\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aa_AA.aff"), []byte("SET UTF-8\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bb_BB.dic"), []byte("1\nword\n"), 0o644))
	names, err := Available(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa_AA", "bb_BB"}, names)

	format, err := DetectFileFormat(filepath.Join(dir, "bb_BB.dic"))
	require.NoError(t, err)
	assert.Equal(t, FormatWordList, format)

	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "bb_BB.dic"), []byte("1\nword\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(other, "cc_CC.dic"), []byte("1\nword\n"), 0o644))
	l := NewLoader(other, dir, filepath.Join(dir, "missing"))
	assert.Equal(t, []string{"aa_AA", "bb_BB", "cc_CC"}, l.Available())
}

func TestLoaderForget(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	_, err := l.Get("dd_DD")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dd_DD.dic"), []byte("1\nword\n"), 0o644))
	_, err = l.Get("dd_DD")
	require.ErrorIs(t, err, ErrNotFound)

	l.Forget("dd_DD")
	d, err := l.Get("dd_DD")
	require.NoError(t, err)
	assert.True(t, d.Contains("word"))
}

func TestSuggest(t *testing.T) {
	d, err := Load("testdata", "en_US")
	require.NoError(t, err)

	tests := []struct {
		word string
		want []string
	}{
		{"Barcelona2", []string{"Barcelona"}},
		{"ceurlean", []string{"cerulean"}},
		{"cerulan", []string{"cerulean"}},
		{"camek", []string{"camel"}},
		{"baa", []string{"bar", "baz"}},
		{"camel", []string{"camels"}},
		{"zzzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Suggest(tt.word, 0))
		})
	}
}
