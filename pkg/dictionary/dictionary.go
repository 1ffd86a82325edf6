// Package dictionary loads hunspell word lists and answers accent-insensitive
// prefix queries against them.
package dictionary

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bastiangx/wordboost/pkg/fold"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var errStop = errors.New("stop")

// Dictionary is one named word list indexed by folded, lower-cased key.
type Dictionary struct {
	name  string
	table *fold.Table
	trie  *patricia.Trie
	words int
}

// New returns an empty dictionary that folds with the table registered for
// name.
func New(name string) *Dictionary {
	table, ok := fold.Lookup(name)
	if !ok {
		log.Warnf("No accent table for %s, matching will be accent sensitive", name)
	}
	return &Dictionary{name: name, table: table, trie: patricia.NewTrie()}
}

// Load reads <dir>/<name>.dic and <dir>/<name>.aff.
func Load(dir, name string) (*Dictionary, error) {
	words, err := ReadFiles(filepath.Join(dir, name+".dic"), filepath.Join(dir, name+".aff"))
	if err != nil {
		return nil, err
	}
	d := New(name)
	for _, w := range words {
		d.Add(w)
	}
	log.Debugf("Dictionary %s: %d words", name, d.words)
	return d, nil
}

// Name returns the dictionary name, e.g. "en_US".
func (d *Dictionary) Name() string { return d.name }

// Table returns the accent table the dictionary folds with.
func (d *Dictionary) Table() *fold.Table { return d.table }

// Len returns the number of distinct surface words.
func (d *Dictionary) Len() int { return d.words }

// Add indexes a surface word.
func (d *Dictionary) Add(word string) {
	key := patricia.Prefix(d.table.Key(word))
	if item := d.trie.Get(key); item != nil {
		forms := item.([]string)
		for _, f := range forms {
			if f == word {
				return
			}
		}
		d.trie.Set(key, append(forms, word))
	} else {
		d.trie.Insert(key, []string{word})
	}
	d.words++
}

// Contains reports whether word is spelled exactly as given.
func (d *Dictionary) Contains(word string) bool {
	item := d.trie.Get(patricia.Prefix(d.table.Key(word)))
	if item == nil {
		return false
	}
	for _, f := range item.([]string) {
		if f == word {
			return true
		}
	}
	return false
}

// Complete returns up to limit words whose folded form starts with the
// folded prefix, sorted case-insensitively. limit <= 0 means no limit.
func (d *Dictionary) Complete(prefix string, limit int) []string {
	key := d.table.Key(prefix)
	if key == "" {
		return nil
	}
	var out []string
	err := d.trie.VisitSubtree(patricia.Prefix(key), func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, item.([]string)...)
		if limit > 0 && len(out) >= limit {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		log.Errorf("Error visiting dictionary %s: %v", d.name, err)
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return lessFold(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// Suggest returns words that share the first letter of word and whose
// folded key is one edit away from it. An edit inserts, deletes or
// replaces one rune, or swaps two adjacent ones.
func (d *Dictionary) Suggest(word string, limit int) []string {
	key := []rune(d.table.Key(word))
	if len(key) == 0 {
		return nil
	}
	var out []string
	err := d.trie.VisitSubtree(patricia.Prefix(string(key[:1])), func(p patricia.Prefix, item patricia.Item) error {
		cand := []rune(string(p))
		if len(cand) == len(key) && string(cand) == string(key) {
			return nil
		}
		if withinOneEdit(key, cand) {
			out = append(out, item.([]string)...)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting dictionary %s: %v", d.name, err)
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return lessFold(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func withinOneEdit(a, b []rune) bool {
	switch len(a) - len(b) {
	case 0:
		var diff []int
		for i := range a {
			if a[i] != b[i] {
				diff = append(diff, i)
				if len(diff) > 2 {
					return false
				}
			}
		}
		switch len(diff) {
		case 1:
			return true
		case 2:
			i, j := diff[0], diff[1]
			return j == i+1 && a[i] == b[j] && a[j] == b[i]
		}
		return len(diff) == 0
	case 1:
		return oneInsertion(b, a)
	case -1:
		return oneInsertion(a, b)
	}
	return false
}

// oneInsertion reports whether long is short with exactly one rune added.
func oneInsertion(short, long []rune) bool {
	i := 0
	for i < len(short) && short[i] == long[i] {
		i++
	}
	for ; i < len(short); i++ {
		if short[i] != long[i+1] {
			return false
		}
	}
	return true
}
