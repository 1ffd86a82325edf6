package dictionary

import (
	"errors"
	"sort"
	"sync"

	"github.com/bastiangx/wordboost/pkg/fold"
	"github.com/charmbracelet/log"
)

// Loader loads dictionaries from a directory on first use and keeps them
// for later sessions and set changes.
type Loader struct {
	dirs   []string
	mu     sync.RWMutex
	loaded map[string]*Dictionary
	failed map[string]error
}

// NewLoader searches dirs in order for <name>.dic.
func NewLoader(dirs ...string) *Loader {
	return &Loader{
		dirs:   dirs,
		loaded: make(map[string]*Dictionary),
		failed: make(map[string]error),
	}
}

// Add registers an already built dictionary, replacing any loaded one.
func (l *Loader) Add(d *Dictionary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded[d.Name()] = d
	delete(l.failed, d.Name())
}

// Get returns the named dictionary, loading it if needed. Failures are
// remembered so a missing dictionary is only reported once.
func (l *Loader) Get(name string) (*Dictionary, error) {
	l.mu.RLock()
	d, ok := l.loaded[name]
	err := l.failed[name]
	l.mu.RUnlock()
	if ok {
		return d, nil
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if d, ok := l.loaded[name]; ok {
		return d, nil
	}
	err = ErrNotFound
	for _, dir := range l.dirs {
		d, err = Load(dir, name)
		if err == nil {
			l.loaded[name] = d
			return d, nil
		}
		if !errors.Is(err, ErrNotFound) {
			break
		}
	}
	l.failed[name] = err
	return nil, err
}

// Forget drops cached state so the next Get reads from disk again.
func (l *Loader) Forget(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.loaded, name)
	delete(l.failed, name)
}

// Available lists the dictionary names found in any of the loader's
// directories.
func (l *Loader) Available() []string {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range l.dirs {
		found, err := Available(dir)
		if err != nil {
			log.Debugf("Cannot list %s: %v", dir, err)
			continue
		}
		for _, name := range found {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Set is the ordered list of dictionaries a session completes from.
type Set struct {
	names []string
	dicts []*Dictionary
	table *fold.Table
}

// NewSet resolves names through the loader. Dictionaries that cannot be
// loaded are logged and left out; the others still work.
func (l *Loader) NewSet(names []string) *Set {
	s := &Set{names: append([]string(nil), names...)}
	for _, name := range names {
		d, err := l.Get(name)
		if err != nil {
			log.Warnf("Dictionary %s unavailable: %v", name, err)
			continue
		}
		s.dicts = append(s.dicts, d)
	}
	s.rebuildTable()
	return s
}

func (s *Set) rebuildTable() {
	tables := make([]*fold.Table, 0, len(s.names))
	for _, name := range s.names {
		t, _ := fold.Lookup(name)
		tables = append(tables, t)
	}
	s.table = fold.Compose("session", tables...)
}

// Names returns the configured names in order, loaded or not.
func (s *Set) Names() []string { return append([]string(nil), s.names...) }

// Dictionaries returns the loaded dictionaries in order.
func (s *Set) Dictionaries() []*Dictionary { return s.dicts }

// Table folds typed text for the whole set. The first dictionary's table
// wins where two disagree.
func (s *Set) Table() *fold.Table { return s.table }

// Rotate moves the first dictionary by step positions.
func (s *Set) Rotate(step int) {
	n := len(s.names)
	if n < 2 {
		return
	}
	step = ((step % n) + n) % n
	names := append(append([]string(nil), s.names[step:]...), s.names[:step]...)
	order := make(map[string]int, n)
	for i, name := range names {
		order[name] = i
	}
	dicts := make([]*Dictionary, len(s.dicts))
	copy(dicts, s.dicts)
	for i := 1; i < len(dicts); i++ {
		for j := i; j > 0 && order[dicts[j].Name()] < order[dicts[j-1].Name()]; j-- {
			dicts[j], dicts[j-1] = dicts[j-1], dicts[j]
		}
	}
	s.names, s.dicts = names, dicts
	s.rebuildTable()
}

// Complete merges prefix matches of every dictionary, first dictionary
// first, without repeating a word.
func (s *Set) Complete(prefix string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range s.dicts {
		for _, w := range d.Complete(prefix, limit) {
			if seen[w] {
				continue
			}
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// Suggest merges spelling suggestions of every dictionary.
func (s *Set) Suggest(word string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range s.dicts {
		for _, w := range d.Suggest(word, limit) {
			if seen[w] {
				continue
			}
			seen[w] = true
			out = append(out, w)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Contains reports whether any dictionary spells word exactly.
func (s *Set) Contains(word string) bool {
	for _, d := range s.dicts {
		if d.Contains(word) {
			return true
		}
	}
	return false
}
