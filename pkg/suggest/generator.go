package suggest

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/pkg/dictionary"
	"github.com/bastiangx/wordboost/pkg/emoji"
	"github.com/bastiangx/wordboost/pkg/fold"
	"github.com/bastiangx/wordboost/pkg/store"
	"github.com/charmbracelet/log"
)

// fetchFactor bounds how many raw matches each source contributes before
// ranking, relative to the final limit.
const fetchFactor = 10

// Query is one candidate request.
type Query struct {
	// Text is the literal typed text.
	Text string
	// Dictionaries are the active word sources. Nil disables them.
	Dictionaries *dictionary.Set
	// Emoji turns on emoji matching without the trigger prefix.
	Emoji bool
	// Limit caps the result. Zero means no cap.
	Limit int
	// MinChars is the shortest text that is completed.
	MinChars int
	// Case is applied to every word before duplicates are merged. Emoji
	// are left alone.
	Case CaseMode
}

// Generator produces ranked candidates. A nil store or emoji index simply
// contributes nothing.
type Generator struct {
	store store.Store
	emoji *emoji.Index
	log   *log.Logger
}

// NewGenerator wires the sources together.
func NewGenerator(st store.Store, em *emoji.Index) *Generator {
	return &Generator{store: st, emoji: em, log: logger.New("suggest")}
}

// Store returns the frequency store the generator reads.
func (g *Generator) Store() store.Store { return g.store }

// Generate returns the candidates for q, best first.
func (g *Generator) Generate(ctx context.Context, q Query) []Candidate {
	text := q.Text
	minChars := q.MinChars
	if minChars < 1 {
		minChars = 1
	}
	if utf8.RuneCountInString(text) < minChars {
		return nil
	}

	fetch := 0
	if q.Limit > 0 {
		fetch = q.Limit * fetchFactor
	}

	table := fold.Identity
	if q.Dictionaries != nil {
		table = q.Dictionaries.Table()
	}
	key := table.Key(text)

	var out []Candidate
	out = append(out, g.userPhrases(ctx, key, text, fetch)...)
	out = append(out, g.dictionaryWords(ctx, q.Dictionaries, text, fetch)...)

	emojiText, explicit := strings.CutPrefix(text, EmojiTrigger)
	if (explicit || q.Emoji) && g.emoji != nil && emojiText != "" {
		for _, e := range g.emoji.Match(emojiText, fetch) {
			out = append(out, Candidate{
				Text:       e.Glyph,
				Annotation: e.Name,
				Source:     SourceEmoji,
			})
		}
	}

	if q.Case != CaseAsTyped {
		for i := range out {
			if out[i].Source != SourceEmoji {
				out[i].Text = q.Case.Apply(out[i].Text)
			}
		}
	}
	out = dedupe(out)
	Sort(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (g *Generator) userPhrases(ctx context.Context, key, typed string, fetch int) []Candidate {
	if g.store == nil || key == "" {
		return nil
	}
	matches, err := g.store.LookupPrefix(ctx, key, fetch)
	if err != nil {
		g.log.Error("Frequency store lookup failed", "prefix", key, "err", err)
		return nil
	}
	out := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		c := Candidate{
			Text:       ApplyCapitalization(m.Phrase, typed),
			Freq:       m.UserFreq,
			UserPhrase: true,
			Source:     SourceUser,
		}
		if g.emoji != nil {
			if e, ok := g.emoji.Lookup(m.Phrase); ok {
				c.Text = m.Phrase
				c.Annotation = e.Name
			}
		}
		out = append(out, c)
	}
	return out
}

func (g *Generator) dictionaryWords(ctx context.Context, set *dictionary.Set, typed string, fetch int) []Candidate {
	if set == nil {
		return nil
	}
	words := set.Complete(typed, 0)
	if fetch > 0 && len(words) > fetch {
		words = words[:fetch]
	}
	spellStart := len(words)
	if !set.Contains(typed) && utf8.RuneCountInString(typed) > 3 {
		words = append(words, set.Suggest(typed, fetch)...)
	}
	if len(words) == 0 {
		return nil
	}

	counts := map[string]int{}
	if g.store != nil {
		var err error
		counts, err = g.store.PhraseCounts(ctx, words)
		if err != nil {
			g.log.Error("Frequency store count failed", "err", err)
			counts = map[string]int{}
		}
	}

	out := make([]Candidate, 0, len(words))
	for i, w := range words {
		c := Candidate{
			Text:   ApplyCapitalization(w, typed),
			Freq:   counts[w],
			Source: SourceDictionary,
		}
		if i >= spellStart {
			c.SpellcheckOnly = true
			c.Source = SourceSpelling
		}
		out = append(out, c)
	}
	return out
}

// Related returns emoji related to a candidate text, for the related
// candidates view.
func (g *Generator) Related(_ context.Context, text string) []Candidate {
	if g.emoji == nil {
		return nil
	}
	var out []Candidate
	for _, e := range g.emoji.Related(text) {
		out = append(out, Candidate{
			Text:       e.Glyph,
			Annotation: e.Name,
			Source:     SourceEmoji,
		})
	}
	return out
}
