package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Memory keeps the phrase table in a trie keyed by input phrase. It is
// used when no database path is configured.
type Memory struct {
	mu      sync.RWMutex
	trie    *patricia.Trie
	totals  map[string]int
	records int
	closed  bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		trie:   patricia.NewTrie(),
		totals: make(map[string]int),
	}
}

// entries maps phrase to its row under one input phrase.
type entries map[string]*Record

func (m *Memory) row(input, phrase string) (*Record, bool) {
	key := patricia.Prefix(input)
	item := m.trie.Get(key)
	if item == nil {
		item = entries{}
		m.trie.Insert(key, item)
	}
	rows := item.(entries)
	if r, ok := rows[phrase]; ok {
		return r, true
	}
	r := &Record{InputPhrase: input, Phrase: phrase}
	rows[phrase] = r
	m.records++
	return r, false
}

// LookupPrefix implements Store.
func (m *Memory) LookupPrefix(_ context.Context, prefix string, limit int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	byPhrase := make(map[string]*Match)
	err := m.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		for phrase, r := range item.(entries) {
			match, ok := byPhrase[phrase]
			if !ok {
				match = &Match{Phrase: phrase}
				byPhrase[phrase] = match
			}
			match.UserFreq += r.UserFreq
			if r.Timestamp.After(match.LastUsed) {
				match.LastUsed = r.Timestamp
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting phrase trie: %v", err)
		return nil, err
	}

	out := make([]Match, 0, len(byPhrase))
	for _, match := range byPhrase {
		out = append(out, *match)
	}
	sortMatches(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PhraseCounts implements Store.
func (m *Memory) PhraseCounts(_ context.Context, phrases []string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	counts := make(map[string]int)
	for _, p := range phrases {
		if n, ok := m.totals[p]; ok {
			counts[p] = n
		}
	}
	return counts, nil
}

// Record implements Store.
func (m *Memory) Record(_ context.Context, input, phrase string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	r, _ := m.row(input, phrase)
	r.UserFreq++
	r.Timestamp = at
	m.totals[phrase]++
	return nil
}

// Insert implements Store.
func (m *Memory) Insert(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for _, rec := range records {
		r, existed := m.row(rec.InputPhrase, rec.Phrase)
		if existed {
			continue
		}
		r.UserFreq = rec.UserFreq
		r.Timestamp = rec.Timestamp
		m.totals[rec.Phrase] += rec.UserFreq
	}
	return nil
}

// Len returns the number of rows.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
