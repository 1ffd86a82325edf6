// Package store persists how often the user committed each phrase for a
// given typed input.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("store closed")

// Record is one row of the phrase table, unique by (InputPhrase, Phrase).
// InputPhrase is the folded, lower-cased typed text.
type Record struct {
	InputPhrase string
	Phrase      string
	UserFreq    int
	Timestamp   time.Time
}

// Match is a phrase found by a prefix lookup with its summed count.
type Match struct {
	Phrase   string
	UserFreq int
	LastUsed time.Time
}

// Store is the frequency model behind candidate ranking.
type Store interface {
	// LookupPrefix returns phrases whose input starts with prefix, most
	// used first. limit <= 0 means no limit.
	LookupPrefix(ctx context.Context, prefix string, limit int) ([]Match, error)
	// PhraseCounts returns the summed count of each phrase that has a row.
	PhraseCounts(ctx context.Context, phrases []string) (map[string]int, error)
	// Record counts one commit of phrase for input. The first commit
	// creates the row with count 1, later ones add 1 and refresh the
	// timestamp.
	Record(ctx context.Context, input, phrase string, at time.Time) error
	// Insert adds rows as-is in one batch. Existing rows are kept.
	Insert(ctx context.Context, records []Record) error
	Close() error
}

func sortMatches(out []Match) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserFreq != out[j].UserFreq {
			return out[i].UserFreq > out[j].UserFreq
		}
		if !out[i].LastUsed.Equal(out[j].LastUsed) {
			return out[i].LastUsed.After(out[j].LastUsed)
		}
		return out[i].Phrase < out[j].Phrase
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
