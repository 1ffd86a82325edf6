package dictionary

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	// ErrEncoding means a word list could be read neither in its declared
	// encoding nor as ISO-8859-1.
	ErrEncoding = errors.New("dictionary encoding")
	// ErrNotFound means the dictionary files do not exist.
	ErrNotFound = errors.New("dictionary not found")
)

var encodingPattern = regexp.MustCompile(`(?m)^\s*SET\s+([-a-zA-Z0-9_]+)\s*$`)

// Hunspell spells a few charsets its own way.
var encodingAliases = map[string]string{
	"microsoft-cp1251": "windows-1251",
	"iscii-devanagari": "",
	"tis620-2533":      "tis-620",
}

// DeclaredEncoding returns the charset named by the SET line of an affix
// file, or "" when there is none.
func DeclaredEncoding(aff []byte) string {
	m := encodingPattern.FindSubmatch(bytes.ReplaceAll(aff, []byte("\r\n"), []byte("\n")))
	if m == nil {
		return ""
	}
	return string(m[1])
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if alias, ok := encodingAliases[strings.ToLower(name)]; ok {
		if alias == "" {
			return nil, fmt.Errorf("unsupported charset %s", name)
		}
		name = alias
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %s", name)
	}
	return enc, nil
}

func isUTF8Name(name string) bool {
	n := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	return n == "" || n == "utf8"
}

// Decode converts raw file content to UTF-8. The declared charset is tried
// first, then ISO-8859-1. A leading byte order mark is removed and CRLF
// line ends are normalized. It returns the charset actually used.
func Decode(raw []byte, declared string) (string, string, error) {
	text, used, err := decodeWith(raw, declared)
	if err != nil {
		log.Warnf("Decoding as %q failed (%v), falling back to ISO-8859-1", declared, err)
		out, ferr := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if ferr != nil {
			return "", "", fmt.Errorf("%w: %s and ISO-8859-1 both failed: %v", ErrEncoding, declared, ferr)
		}
		text, used = string(out), "ISO-8859-1"
	}
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text, used, nil
}

func decodeWith(raw []byte, declared string) (string, string, error) {
	if isUTF8Name(declared) {
		if !utf8.Valid(raw) {
			return "", "", fmt.Errorf("invalid UTF-8")
		}
		return string(raw), "UTF-8", nil
	}
	enc, err := lookupEncoding(declared)
	if err != nil {
		return "", "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", err
	}
	return string(out), declared, nil
}

// Entry is one line of a .dic file: the stem and its affix flags.
type Entry struct {
	Word  string
	Flags []string
}

// ParseWordList reads the lines of a decoded .dic file. A leading entry
// count is skipped. Everything from the first slash is treated as flags,
// and morphological fields after a tab are ignored.
func ParseWordList(text string, aff *Affixes) []Entry {
	var entries []Entry
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}
		line, _, _ = strings.Cut(line, "\t")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, flags, _ := strings.Cut(line, "/")
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if f, _, ok := strings.Cut(flags, " "); ok {
			flags = f
		}
		entries = append(entries, Entry{Word: word, Flags: aff.splitFlags(flags)})
	}
	return entries
}

func isCount(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ReadFiles loads a .dic/.aff pair and returns every surface form it
// spells. A missing .aff file only disables affix expansion.
func ReadFiles(dicPath, affPath string) ([]string, error) {
	raw, err := os.ReadFile(dicPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dicPath)
		}
		return nil, fmt.Errorf("read %s: %w", dicPath, err)
	}

	aff := &Affixes{}
	declared := ""
	if affRaw, err := os.ReadFile(affPath); err == nil {
		declared = DeclaredEncoding(affRaw)
		affText, _, derr := Decode(affRaw, declared)
		if derr != nil {
			return nil, fmt.Errorf("decode %s: %w", affPath, derr)
		}
		aff = ParseAffixes(affText)
	} else {
		log.Debugf("No affix file %s: %v", affPath, err)
	}

	text, used, err := Decode(raw, declared)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", dicPath, err)
	}
	log.Debugf("Loaded %s as %s", dicPath, used)

	var words []string
	for _, e := range ParseWordList(text, aff) {
		words = append(words, aff.Expand(e)...)
	}
	return words, nil
}
