// Package fold removes accents so typed text can match dictionary words
// regardless of diacritics.
//
// A Table is immutable once built. Tables are registered per dictionary
// name; Lookup falls back to the identity table for unknown names.
package fold

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Table maps characters (or short decomposed sequences) to replacement
// text and lists combining marks that are dropped.
type Table struct {
	name      string
	subs      map[string]string
	maxKeyLen int
	drop      map[rune]struct{}
}

// NewTable builds a table. Keys of subs are one or more runes; keys are
// NFC-normalized so precomposed and decomposed spellings both match.
func NewTable(name string, subs map[string]string, drop []rune) *Table {
	t := &Table{
		name:      name,
		subs:      make(map[string]string, len(subs)),
		maxKeyLen: 1,
		drop:      make(map[rune]struct{}, len(drop)),
	}
	for k, v := range subs {
		k = norm.NFC.String(k)
		if k == "" {
			continue
		}
		t.subs[k] = v
		if n := utf8.RuneCountInString(k); n > t.maxKeyLen {
			t.maxKeyLen = n
		}
	}
	for _, r := range drop {
		t.drop[r] = struct{}{}
	}
	return t
}

// Name returns the name the table was built with.
func (t *Table) Name() string { return t.name }

// Fold returns text with every table character replaced and dropped marks
// removed. Other characters pass through. Folding twice gives the same
// result as folding once.
func (t *Table) Fold(text string) string {
	if t == nil || (len(t.subs) == 0 && len(t.drop) == 0) {
		return text
	}
	runes := []rune(norm.NFC.String(text))
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); {
		matched := false
		// Longest sequence first so n + U+0304 wins over a lone n.
		for n := min(t.maxKeyLen, len(runes)-i); n >= 1; n-- {
			if sub, ok := t.subs[string(runes[i:i+n])]; ok {
				b.WriteString(sub)
				i += n
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		t.writeStripped(&b, runes[i])
		i++
	}
	return norm.NFC.String(b.String())
}

// writeStripped writes r without its dropped marks. Precomposed letters are
// decomposed so a mark hidden inside them is still removed.
func (t *Table) writeStripped(b *strings.Builder, r rune) {
	if _, ok := t.drop[r]; ok {
		return
	}
	d := norm.NFD.String(string(r))
	if utf8.RuneCountInString(d) == 1 {
		b.WriteRune(r)
		return
	}
	for _, m := range d {
		if _, ok := t.drop[m]; !ok {
			b.WriteRune(m)
		}
	}
}

// Key returns the lower-cased folded form used to match typed text against
// stored phrases and dictionary words.
func (t *Table) Key(text string) string {
	return strings.ToLower(t.Fold(text))
}

// Identity leaves text unchanged.
var Identity = NewTable("identity", nil, nil)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Table{}
)

// Register installs a table for a dictionary name or a language prefix
// such as "de".
func Register(name string, t *Table) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = t
}

// Lookup returns the table for a dictionary name like "de_DE". It tries
// the full name, then the language part. ok is false when only the
// identity table applies.
func Lookup(name string) (t *Table, ok bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if t, ok := registry[name]; ok {
		return t, true
	}
	lang, _, _ := strings.Cut(name, "_")
	lang, _, _ = strings.Cut(lang, "-")
	if t, ok := registry[strings.ToLower(lang)]; ok {
		return t, true
	}
	return Identity, false
}
