// Package emoji is the annotation source for emoji candidates. Entries are
// found by a case-insensitive prefix of their name words or keywords.
package emoji

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"gopkg.in/yaml.v3"
)

//go:embed data/emoji.yaml
var defaultData []byte

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// Emoji is one annotated glyph.
type Emoji struct {
	Glyph    string   `yaml:"glyph"`
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type document struct {
	Emoji []Emoji `yaml:"emoji"`
}

// Index maps search terms to emoji.
type Index struct {
	list    []Emoji
	terms   [][]string
	byGlyph map[string]int
	trie    *patricia.Trie
}

// Load parses a YAML annotation list.
func Load(r io.Reader) (*Index, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("failed to parse emoji annotations: %w", err)
	}
	return New(doc.Emoji), nil
}

// Default returns the index built from the embedded annotation list.
func Default() *Index {
	defaultOnce.Do(func() {
		idx, err := Load(bytes.NewReader(defaultData))
		if err != nil {
			log.Errorf("Embedded emoji annotations are broken: %v", err)
			idx = New(nil)
		}
		defaultIndex = idx
		log.Debugf("Emoji index: %d entries", idx.Len())
	})
	return defaultIndex
}

// New indexes list. Entries without a glyph are skipped, and a repeated
// glyph keeps its first annotation.
func New(list []Emoji) *Index {
	x := &Index{
		byGlyph: make(map[string]int, len(list)),
		trie:    patricia.NewTrie(),
	}
	for _, e := range list {
		if e.Glyph == "" {
			continue
		}
		if _, dup := x.byGlyph[e.Glyph]; dup {
			continue
		}
		i := len(x.list)
		x.list = append(x.list, e)
		x.byGlyph[e.Glyph] = i
		terms := termsOf(e)
		x.terms = append(x.terms, terms)
		for _, t := range terms {
			x.insert(t, i)
		}
		if name := strings.ToLower(e.Name); strings.Contains(name, " ") {
			x.insert(name, i)
		}
	}
	return x
}

func termsOf(e Emoji) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, w := range strings.Fields(e.Name) {
		add(w)
	}
	for _, k := range e.Keywords {
		add(k)
	}
	return out
}

func (x *Index) insert(term string, i int) {
	key := patricia.Prefix(term)
	if item := x.trie.Get(key); item != nil {
		x.trie.Set(key, append(item.([]int), i))
		return
	}
	x.trie.Insert(key, []int{i})
}

// Len returns the number of indexed emoji.
func (x *Index) Len() int { return len(x.list) }

// Lookup returns the annotation of glyph.
func (x *Index) Lookup(glyph string) (Emoji, bool) {
	i, ok := x.byGlyph[glyph]
	if !ok {
		return Emoji{}, false
	}
	return x.list[i], true
}

// Match returns the emoji with a name word, the whole name or a keyword
// starting with text, ordered by name. limit <= 0 means no limit.
func (x *Index) Match(text string, limit int) []Emoji {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	hits := make(map[int]bool)
	err := x.trie.VisitSubtree(patricia.Prefix(text), func(_ patricia.Prefix, item patricia.Item) error {
		for _, i := range item.([]int) {
			hits[i] = true
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting emoji index: %v", err)
		return nil
	}
	out := make([]Emoji, 0, len(hits))
	for i := range hits {
		out = append(out, x.list[i])
	}
	sortByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Related returns emoji related to text. For a glyph that is the glyph
// itself followed by every emoji sharing a term with it, most shared terms
// first. For a word it is every emoji that has the word as a term.
func (x *Index) Related(text string) []Emoji {
	if i, ok := x.byGlyph[text]; ok {
		return x.relatedToGlyph(i)
	}
	word := strings.ToLower(strings.TrimSpace(text))
	if word == "" {
		return nil
	}
	item := x.trie.Get(patricia.Prefix(word))
	if item == nil {
		return nil
	}
	ids := item.([]int)
	out := make([]Emoji, 0, len(ids))
	for _, i := range ids {
		out = append(out, x.list[i])
	}
	sortByName(out)
	return out
}

func (x *Index) relatedToGlyph(self int) []Emoji {
	own := make(map[string]bool, len(x.terms[self]))
	for _, t := range x.terms[self] {
		own[t] = true
	}
	type scored struct {
		e      Emoji
		shared int
	}
	var others []scored
	for i, terms := range x.terms {
		if i == self {
			continue
		}
		n := 0
		for _, t := range terms {
			if own[t] {
				n++
			}
		}
		if n > 0 {
			others = append(others, scored{x.list[i], n})
		}
	}
	sort.SliceStable(others, func(a, b int) bool {
		if others[a].shared != others[b].shared {
			return others[a].shared > others[b].shared
		}
		return others[a].e.Name < others[b].e.Name
	})
	out := make([]Emoji, 0, len(others)+1)
	out = append(out, x.list[self])
	for _, s := range others {
		out = append(out, s.e)
	}
	return out
}

func sortByName(list []Emoji) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Glyph < list[j].Glyph
	})
}
