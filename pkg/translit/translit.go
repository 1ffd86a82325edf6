// Package translit turns raw key presses into script text.
//
// Every Method is a pure function of the raw keys it is given, so callers
// keep the raw history and re-derive the composed text whenever the history
// or the active method changes.
package translit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownMethod is returned for a method name with no registered factory.
var ErrUnknownMethod = errors.New("unknown input method")

// Segment is a run of raw keys that composes to one piece of text.
type Segment struct {
	Keys int
	Text string
}

// Method is a single transliteration scheme.
type Method interface {
	Name() string
	// Accepts reports whether the method takes this key at all.
	Accepts(r rune) bool
	// Segment splits keys into composed pieces. The sum of Keys equals
	// len(keys).
	Segment(keys []rune) []Segment
	// Pending reports whether the trailing keys are an unfinished sequence
	// that a further key could still change.
	Pending(keys []rune) bool
}

// Transliterate composes keys with m.
func Transliterate(m Method, keys []rune) string {
	var b strings.Builder
	for _, s := range m.Segment(keys) {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Merges reports whether feeding key after history changes text m already
// produced for history, i.e. the key combines with earlier keys.
func Merges(m Method, history []rune, key rune) bool {
	if len(history) == 0 {
		return false
	}
	joined := append(append([]rune(nil), history...), key)
	return Transliterate(m, joined) != Transliterate(m, history)+Transliterate(m, []rune{key})
}

// Kind classifies the outcome of feeding one key to a method.
type Kind int

const (
	Rejected Kind = iota
	Pending
	Produced
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Produced:
		return "produced"
	default:
		return "rejected"
	}
}

// Result is the outcome of Feed.
type Result struct {
	Kind   Kind
	Method string
	// Output is the text of the segment the key ended up in.
	Output string
	// Consumed counts the earlier keys merged into that segment.
	Consumed int
}

// Feed runs key after history through m.
func Feed(m Method, history []rune, key rune) Result {
	if !m.Accepts(key) {
		return Result{Kind: Rejected, Method: m.Name()}
	}
	keys := append(append([]rune(nil), history...), key)
	segs := m.Segment(keys)
	res := Result{Kind: Produced, Method: m.Name()}
	if len(segs) > 0 {
		last := segs[len(segs)-1]
		res.Output = last.Text
		res.Consumed = last.Keys - 1
	}
	if m.Pending(keys) {
		res.Kind = Pending
	}
	return res
}

// Factory builds a method instance.
type Factory func() Method

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a method factory under name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New builds the method registered under name.
func New(name string) (Method, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return f(), nil
}

// Names lists registered methods in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(DirectName, func() Method { return direct{} })
	Register("t-latn-post", newLatinPostfix)
	Register("hi-itrans", func() Method { return newITRANS("hi-itrans") })
	Register("mr-itrans", func() Method { return newITRANS("mr-itrans") })
	Register("ko-romaja", func() Method { return newRomaja("ko-romaja") })
}
