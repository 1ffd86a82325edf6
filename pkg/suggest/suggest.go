// Package suggest merges the frequency store, the static dictionaries and the
// emoji annotations into one ranked candidate list.
package suggest

import (
	"sort"
	"strings"
)

// Source tells where a candidate came from. Lower values win ties.
type Source int

const (
	SourceUser Source = iota
	SourceDictionary
	SourceSpelling
	SourceEmoji
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceDictionary:
		return "dictionary"
	case SourceSpelling:
		return "spelling"
	case SourceEmoji:
		return "emoji"
	}
	return "unknown"
}

// EmojiTrigger starts an explicit emoji lookup.
const EmojiTrigger = "_"

// Candidate is one entry of the lookup table.
type Candidate struct {
	Text           string
	Freq           int
	Annotation     string
	UserPhrase     bool
	SpellcheckOnly bool
	Source         Source
}

func (c Candidate) lexicalKey() string {
	if c.Source == SourceEmoji && c.Annotation != "" {
		return c.Annotation
	}
	return strings.ToLower(c.Text)
}

// Less orders candidates by frequency, then source, then text.
func Less(a, b Candidate) bool {
	if a.Freq != b.Freq {
		return a.Freq > b.Freq
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	ka, kb := a.lexicalKey(), b.lexicalKey()
	if ka != kb {
		return ka < kb
	}
	return a.Text < b.Text
}

// Sort orders list in place with Less.
func Sort(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool { return Less(list[i], list[j]) })
}

// dedupe keeps one candidate per text, the one with the highest frequency.
// An annotation found on any copy is kept.
func dedupe(list []Candidate) []Candidate {
	index := make(map[string]int, len(list))
	out := list[:0:0]
	for _, c := range list {
		i, ok := index[c.Text]
		if !ok {
			index[c.Text] = len(out)
			out = append(out, c)
			continue
		}
		kept := out[i]
		if c.Freq > kept.Freq || (c.Freq == kept.Freq && c.Source < kept.Source) {
			if c.Annotation == "" {
				c.Annotation = kept.Annotation
			}
			out[i] = c
		} else if kept.Annotation == "" {
			out[i].Annotation = c.Annotation
		}
	}
	return out
}
