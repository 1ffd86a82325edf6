package translit

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Accent keys typed after a letter and the combining mark they add.
var postfixMarks = map[rune]rune{
	'"':  '\u0308', // diaeresis
	'\'': '\u0301', // acute
	'`':  '\u0300', // grave
	'^':  '\u0302', // circumflex
	'~':  '\u0303', // tilde
	',':  '\u0327', // cedilla
	';':  '\u0328', // ogonek
	'.':  '\u0307', // dot above
	'<':  '\u030c', // caron
	'-':  '\u0304', // macron
	'*':  '\u030a', // ring above
}

// Letters whose stroke form has no canonical decomposition.
var postfixStroke = map[rune]rune{
	'o': 'ø', 'O': 'Ø',
	'd': 'đ', 'D': 'Đ',
	'l': 'ł', 'L': 'Ł',
	'h': 'ħ', 'H': 'Ħ',
	't': 'ŧ', 'T': 'Ŧ',
}

// latinPostfix composes a letter with the accent key typed after it, so
// a" gives ä and e' gives é. Repeating the accent key yields the literal
// pair: a"" gives a".
type latinPostfix struct {
	rules map[[2]rune]rune
	bases map[rune]bool
}

func newLatinPostfix() Method {
	lp := &latinPostfix{
		rules: make(map[[2]rune]rune),
		bases: make(map[rune]bool),
	}
	for r := 'A'; r <= 'z'; r++ {
		if !unicode.IsLetter(r) {
			continue
		}
		for key, mark := range postfixMarks {
			composed := norm.NFC.String(string([]rune{r, mark}))
			if utf8.RuneCountInString(composed) == 1 {
				c, _ := utf8.DecodeRuneInString(composed)
				lp.rules[[2]rune{r, key}] = c
				lp.bases[r] = true
			}
		}
	}
	for base, c := range postfixStroke {
		lp.rules[[2]rune{base, '/'}] = c
		lp.bases[base] = true
	}
	return lp
}

func (*latinPostfix) Name() string { return "t-latn-post" }

func (*latinPostfix) Accepts(r rune) bool { return unicode.IsPrint(r) }

func (lp *latinPostfix) Segment(keys []rune) []Segment {
	segs := make([]Segment, 0, len(keys))
	for i := 0; i < len(keys); {
		if i+1 < len(keys) {
			if c, ok := lp.rules[[2]rune{keys[i], keys[i+1]}]; ok {
				if i+2 < len(keys) && keys[i+2] == keys[i+1] {
					segs = append(segs, Segment{Keys: 3, Text: string(keys[i : i+2])})
					i += 3
					continue
				}
				segs = append(segs, Segment{Keys: 2, Text: string(c)})
				i += 2
				continue
			}
		}
		segs = append(segs, Segment{Keys: 1, Text: string(keys[i])})
		i++
	}
	return segs
}

func (lp *latinPostfix) Pending(keys []rune) bool {
	if len(keys) == 0 {
		return false
	}
	segs := lp.Segment(keys)
	last := segs[len(segs)-1]
	switch last.Keys {
	case 1:
		return lp.bases[keys[len(keys)-1]]
	case 2:
		// The accent may still be repeated to undo the composition.
		return true
	}
	return false
}
