package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "user.db"))
			require.NoError(t, err)
			return s
		},
		"sqlite-memory": func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), MemoryPath)
			require.NoError(t, err)
			return s
		},
	}
}

func TestRecordCountsCommits(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			t0 := time.Unix(1000, 0)
			require.NoError(t, s.Record(ctx, "gluhwurmchen", "Glühwürmchen", t0))
			require.NoError(t, s.Record(ctx, "gluhwurmchen", "Glühwürmchen", t0.Add(time.Second)))
			require.NoError(t, s.Record(ctx, "glu", "Glühwürmchen", t0))
			require.NoError(t, s.Record(ctx, "glut", "Glut", t0))

			got, err := s.LookupPrefix(ctx, "glu", 0)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "Glühwürmchen", got[0].Phrase)
			assert.Equal(t, 3, got[0].UserFreq)
			assert.Equal(t, t0.Add(time.Second).UnixNano(), got[0].LastUsed.UnixNano())
			assert.Equal(t, "Glut", got[1].Phrase)

			got, err = s.LookupPrefix(ctx, "gluhw", 0)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, 2, got[0].UserFreq)

			counts, err := s.PhraseCounts(ctx, []string{"Glühwürmchen", "Glut", "missing"})
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"Glühwürmchen": 3, "Glut": 1}, counts)
		})
	}
}

func TestLookupPrefixOrderAndLimit(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			now := time.Unix(5000, 0)
			require.NoError(t, s.Record(ctx, "ab", "abc", now))
			require.NoError(t, s.Record(ctx, "ab", "abd", now.Add(time.Minute)))
			require.NoError(t, s.Record(ctx, "ab", "abe", now))
			require.NoError(t, s.Record(ctx, "ab", "abe", now))

			got, err := s.LookupPrefix(ctx, "a", 0)
			require.NoError(t, err)
			phrases := make([]string, len(got))
			for i, m := range got {
				phrases[i] = m.Phrase
			}
			assert.Equal(t, []string{"abe", "abd", "abc"}, phrases)

			got, err = s.LookupPrefix(ctx, "a", 1)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestLookupPrefixEscapesWildcards(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			require.NoError(t, s.Record(ctx, "50%off", "50%off", time.Now()))
			require.NoError(t, s.Record(ctx, "500", "500", time.Now()))
			require.NoError(t, s.Record(ctx, "a_b", "a_b", time.Now()))
			require.NoError(t, s.Record(ctx, "axb", "axb", time.Now()))

			got, err := s.LookupPrefix(ctx, "50%", 0)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "50%off", got[0].Phrase)

			got, err = s.LookupPrefix(ctx, "a_", 0)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "a_b", got[0].Phrase)
		})
	}
}

func TestInsertKeepsExistingRows(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			require.NoError(t, s.Record(ctx, "test", "test", time.Now()))
			require.NoError(t, s.Insert(ctx, []Record{
				{InputPhrase: "test", Phrase: "test", Timestamp: time.Now()},
				{InputPhrase: "tests", Phrase: "tests", Timestamp: time.Now()},
			}))
			require.NoError(t, s.Insert(ctx, nil))

			got, err := s.LookupPrefix(ctx, "test", 0)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "test", got[0].Phrase)
			assert.Equal(t, 1, got[0].UserFreq)
			assert.Equal(t, "tests", got[1].Phrase)
			assert.Equal(t, 0, got[1].UserFreq)
		})
	}
}

func TestClosedStore(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			require.NoError(t, s.Close())
			require.NoError(t, s.Close())

			_, err := s.LookupPrefix(ctx, "a", 0)
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Record(ctx, "a", "a", time.Now()), ErrClosed)
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "user.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, "cerule", "cerulean", time.Now()))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	counts, err := s.PhraseCounts(ctx, []string{"cerulean"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts["cerulean"])
}
