package translit

import (
	"errors"
	"fmt"
	"unicode"
)

// DirectName is the method that types keys as they are.
const DirectName = "NoIME"

type direct struct{}

func (direct) Name() string { return DirectName }

func (direct) Accepts(r rune) bool { return unicode.IsPrint(r) }

func (direct) Segment(keys []rune) []Segment {
	segs := make([]Segment, len(keys))
	for i, r := range keys {
		segs[i] = Segment{Keys: 1, Text: string(r)}
	}
	return segs
}

func (direct) Pending([]rune) bool { return false }

// Chain is the ordered list of methods a session types with. The first
// method that accepts a key handles it.
type Chain struct {
	methods []Method
}

// NewChain builds a chain from method names. A chain always ends up with
// the direct method; it is appended when missing.
func NewChain(names []string) (*Chain, error) {
	c := &Chain{}
	var errs []error
	hasDirect := false
	for _, name := range names {
		m, err := New(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if m.Name() == DirectName {
			if hasDirect {
				continue
			}
			hasDirect = true
		}
		c.methods = append(c.methods, m)
	}
	if !hasDirect {
		c.methods = append(c.methods, direct{})
	}
	if len(errs) > 0 {
		return c, fmt.Errorf("input methods: %w", errors.Join(errs...))
	}
	return c, nil
}

// Names returns the method names in order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.methods))
	for i, m := range c.methods {
		out[i] = m.Name()
	}
	return out
}

// Len returns the number of methods.
func (c *Chain) Len() int { return len(c.methods) }

// Current returns the method tried first.
func (c *Chain) Current() Method { return c.methods[0] }

// Method returns the method with the given name, or nil.
func (c *Chain) Method(name string) Method {
	for _, m := range c.methods {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Select returns the first method that accepts r, or nil.
func (c *Chain) Select(r rune) Method {
	for _, m := range c.methods {
		if m.Accepts(r) {
			return m
		}
	}
	return nil
}

// Feed offers key to each method in order and returns the first result
// that is not Rejected.
func (c *Chain) Feed(history []rune, key rune) Result {
	return c.FeedRuns(func(string) []rune { return history }, key)
}

// FeedRuns is Feed for a buffer that mixes methods. Each method is given
// the keys that runBefore returns for its name.
func (c *Chain) FeedRuns(runBefore func(method string) []rune, key rune) Result {
	for _, m := range c.methods {
		if !m.Accepts(key) {
			continue
		}
		if res := Feed(m, runBefore(m.Name()), key); res.Kind != Rejected {
			return res
		}
	}
	return Result{Kind: Rejected}
}

// Rotate moves the first method by step positions; +1 makes the second
// method current, -1 makes the last one current.
func (c *Chain) Rotate(step int) {
	n := len(c.methods)
	if n < 2 {
		return
	}
	step = ((step % n) + n) % n
	rotated := make([]Method, 0, n)
	rotated = append(rotated, c.methods[step:]...)
	c.methods = append(rotated, c.methods[:step]...)
}
