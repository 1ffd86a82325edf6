package dictionary

import (
	"strconv"
	"strings"
)

// flagMode is how an affix file writes flags (the FLAG directive).
type flagMode int

const (
	flagChar flagMode = iota
	flagLong
	flagNum
)

type affixRule struct {
	strip string
	add   string
	cond  condition
}

type affixClass struct {
	suffix bool
	cross  bool
	rules  []affixRule
}

// Affixes holds the PFX and SFX classes of an affix file.
type Affixes struct {
	mode    flagMode
	classes map[string]*affixClass
}

// ParseAffixes reads the directives this loader understands: FLAG, PFX and
// SFX. Everything else is ignored.
func ParseAffixes(text string) *Affixes {
	a := &Affixes{classes: make(map[string]*affixClass)}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "FLAG":
			if len(fields) > 1 {
				switch strings.ToLower(fields[1]) {
				case "long":
					a.mode = flagLong
				case "num":
					a.mode = flagNum
				}
			}
		case "PFX", "SFX":
			a.parseAffixLine(fields)
		}
	}
	return a
}

func (a *Affixes) parseAffixLine(fields []string) {
	if len(fields) < 4 {
		return
	}
	suffix := fields[0] == "SFX"
	flag := fields[1]
	class, ok := a.classes[flag]
	// Header: "SFX S Y 4"
	if !ok {
		if _, err := strconv.Atoi(fields[3]); err == nil && (fields[2] == "Y" || fields[2] == "N") {
			a.classes[flag] = &affixClass{suffix: suffix, cross: fields[2] == "Y"}
		}
		return
	}
	// Rule: "SFX S y ies [^aeiou]y"
	strip := fields[2]
	if strip == "0" {
		strip = ""
	}
	add, _, _ := strings.Cut(fields[3], "/")
	if add == "0" {
		add = ""
	}
	cond := "."
	if len(fields) > 4 {
		cond = fields[4]
	}
	class.rules = append(class.rules, affixRule{strip: strip, add: add, cond: parseCondition(cond)})
}

func (a *Affixes) splitFlags(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	switch a.mode {
	case flagLong:
		r := []rune(s)
		for i := 0; i+1 < len(r); i += 2 {
			out = append(out, string(r[i:i+2]))
		}
	case flagNum:
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	default:
		for _, r := range s {
			out = append(out, string(r))
		}
	}
	return out
}

// Expand returns the stem followed by every form its flags produce.
// Prefixes and suffixes that both allow cross products are combined.
func (a *Affixes) Expand(e Entry) []string {
	out := []string{e.Word}
	if a == nil || len(a.classes) == 0 {
		return out
	}
	var suffixed []string
	for _, f := range e.Flags {
		c, ok := a.classes[f]
		if !ok || !c.suffix {
			continue
		}
		for _, r := range c.rules {
			if w, ok := r.applySuffix(e.Word); ok {
				out = append(out, w)
				if c.cross {
					suffixed = append(suffixed, w)
				}
			}
		}
	}
	for _, f := range e.Flags {
		c, ok := a.classes[f]
		if !ok || c.suffix {
			continue
		}
		for _, r := range c.rules {
			if w, ok := r.applyPrefix(e.Word); ok {
				out = append(out, w)
			}
			if !c.cross {
				continue
			}
			for _, s := range suffixed {
				if w, ok := r.applyPrefix(s); ok {
					out = append(out, w)
				}
			}
		}
	}
	return out
}

func (r affixRule) applySuffix(word string) (string, bool) {
	if !strings.HasSuffix(word, r.strip) || !r.cond.matchEnd(word) {
		return "", false
	}
	base := strings.TrimSuffix(word, r.strip)
	if base == "" && r.add == "" {
		return "", false
	}
	return base + r.add, true
}

func (r affixRule) applyPrefix(word string) (string, bool) {
	if !strings.HasPrefix(word, r.strip) || !r.cond.matchStart(word) {
		return "", false
	}
	base := strings.TrimPrefix(word, r.strip)
	if base == "" && r.add == "" {
		return "", false
	}
	return r.add + base, true
}

// condition is the character-class pattern of an affix rule, such as
// "[^aeiou]y". Each element matches exactly one character.
type condition []charClass

type charClass struct {
	any    bool
	negate bool
	set    map[rune]bool
}

func (c charClass) match(r rune) bool {
	if c.any {
		return true
	}
	return c.set[r] != c.negate
}

func parseCondition(s string) condition {
	if s == "." {
		return nil
	}
	var cond condition
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.':
			cond = append(cond, charClass{any: true})
		case '[':
			cc := charClass{set: make(map[rune]bool)}
			i++
			if i < len(runes) && runes[i] == '^' {
				cc.negate = true
				i++
			}
			for ; i < len(runes) && runes[i] != ']'; i++ {
				cc.set[runes[i]] = true
			}
			cond = append(cond, cc)
		default:
			cond = append(cond, charClass{set: map[rune]bool{runes[i]: true}})
		}
	}
	return cond
}

func (c condition) matchEnd(word string) bool {
	r := []rune(word)
	if len(c) > len(r) {
		return false
	}
	tail := r[len(r)-len(c):]
	for i, cc := range c {
		if !cc.match(tail[i]) {
			return false
		}
	}
	return true
}

func (c condition) matchStart(word string) bool {
	r := []rune(word)
	if len(c) > len(r) {
		return false
	}
	for i, cc := range c {
		if !cc.match(r[i]) {
			return false
		}
	}
	return true
}
