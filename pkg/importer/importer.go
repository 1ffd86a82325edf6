// Package importer seeds the phrase database from a spell-checker word
// list, so words the user never typed can still be matched by their folded
// spelling.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/internal/utils"
	"github.com/bastiangx/wordboost/pkg/dictionary"
	"github.com/bastiangx/wordboost/pkg/fold"
	"github.com/bastiangx/wordboost/pkg/store"
	"github.com/bastiangx/wordboost/pkg/translit"
	"github.com/charmbracelet/log"
)

const appName = "wordboost"

// DefaultDictionaryDir is where system word lists are installed.
const DefaultDictionaryDir = "/usr/share/myspell"

// ErrMissing is returned when the database or the word list named on the
// command line does not exist.
var ErrMissing = errors.New("does not exist")

// UserDBPath resolves a database name under the per-user data directory.
func UserDBPath(name string) string {
	return filepath.Join(utils.UserDataDir(appName), name)
}

// DictionaryPath resolves a word list name under dir. A bare language name
// gets the .dic extension.
func DictionaryPath(dir, name string) string {
	if filepath.Ext(name) == "" {
		name += ".dic"
	}
	return filepath.Join(dir, name)
}

// CheckExists reports ErrMissing with what the path was meant to be.
func CheckExists(what, path string) error {
	if !utils.FileExists(path) {
		return fmt.Errorf("the %s %s %w", what, path, ErrMissing)
	}
	return nil
}

// ReadWords returns the stems listed in a .dic file. The charset comes
// from the SET line of the sibling .aff file, with ISO-8859-1 as fallback.
// Affix flags are not expanded.
func ReadWords(dicPath string) ([]string, error) {
	raw, err := os.ReadFile(dicPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dicPath, err)
	}
	declared := ""
	if aff, err := os.ReadFile(dictionary.AffixPath(dicPath)); err == nil {
		declared = dictionary.DeclaredEncoding(aff)
		log.Debugf("encoding=%s found in %s", declared, dictionary.AffixPath(dicPath))
	}
	text, used, err := dictionary.Decode(raw, declared)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", dicPath, err)
	}
	log.Debugf("Loaded %s as %s", dicPath, used)

	entries := dictionary.ParseWordList(text, &dictionary.Affixes{})
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		words = append(words, e.Word)
	}
	return words, nil
}

// Importer turns word lists into phrase rows.
type Importer struct {
	store  store.Store
	method translit.Method
	table  *fold.Table
	now    func() time.Time
	log    *log.Logger
}

// New returns an importer writing to st. Words are passed through method,
// which may be nil for none, and folded with table.
func New(st store.Store, method translit.Method, table *fold.Table) *Importer {
	if table == nil {
		table = fold.Identity
	}
	return &Importer{
		store:  st,
		method: method,
		table:  table,
		now:    time.Now,
		log:    logger.New("import"),
	}
}

// Records converts words to rows with count 0. Words the method cannot
// transliterate and duplicates are skipped.
func (im *Importer) Records(words []string) []store.Record {
	at := im.now()
	seen := make(map[[2]string]struct{}, len(words))
	out := make([]store.Record, 0, len(words))
	for _, w := range words {
		phrase, ok := im.transliterate(w)
		if !ok {
			im.log.Debug("Skipping word", "word", w)
			continue
		}
		input := im.table.Key(phrase)
		if strings.TrimSpace(input) == "" {
			continue
		}
		k := [2]string{input, phrase}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, store.Record{InputPhrase: input, Phrase: phrase, UserFreq: 0, Timestamp: at})
	}
	return out
}

func (im *Importer) transliterate(word string) (string, bool) {
	if im.method == nil || im.method.Name() == translit.DirectName {
		return word, true
	}
	keys := []rune(word)
	for _, r := range keys {
		if !im.method.Accepts(r) {
			return "", false
		}
	}
	out := translit.Transliterate(im.method, keys)
	return out, out != ""
}

// Import reads the word list at dicPath and stores it in one batch. It
// returns the number of rows offered to the store.
func (im *Importer) Import(ctx context.Context, dicPath string) (int, error) {
	words, err := ReadWords(dicPath)
	if err != nil {
		return 0, err
	}
	records := im.Records(words)
	if err := im.store.Insert(ctx, records); err != nil {
		return 0, fmt.Errorf("import %s: %w", dicPath, err)
	}
	im.log.Info("Imported word list", "path", dicPath, "words", len(words), "rows", len(records))
	return len(records), nil
}
