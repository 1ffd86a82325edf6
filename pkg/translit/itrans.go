package translit

import (
	"strings"
)

const virama = "्"

// Consonants with their inherent vowel.
var itransConsonants = map[string]string{
	"k": "क", "kh": "ख", "g": "ग", "gh": "घ", "~N": "ङ",
	"ch": "च", "Ch": "छ", "chh": "छ", "j": "ज", "jh": "झ", "~n": "ञ",
	"T": "ट", "Th": "ठ", "D": "ड", "Dh": "ढ", "N": "ण",
	"t": "त", "th": "थ", "d": "द", "dh": "ध", "n": "न",
	"p": "प", "ph": "फ", "b": "ब", "bh": "भ", "m": "म",
	"y": "य", "r": "र", "l": "ल", "v": "व", "w": "व",
	"sh": "श", "Sh": "ष", "shh": "ष", "s": "स", "h": "ह",
	"L": "ळ", "x": "क्ष", "kSh": "क्ष", "GY": "ज्ञ", "j~n": "ज्ञ", "dny": "ज्ञ",
	"q": "क़", "K": "ख़", "G": "ग़", "z": "ज़", "f": "फ़",
	".D": "ड़", ".Dh": "ढ़", "R": "ऱ",
}

// Vowels as independent letters and as signs after a consonant. The sign
// of "a" is empty because it is the inherent vowel.
var itransVowels = map[string][2]string{
	"a":   {"अ", ""},
	"aa":  {"आ", "ा"},
	"A":   {"आ", "ा"},
	"i":   {"इ", "ि"},
	"ii":  {"ई", "ी"},
	"I":   {"ई", "ी"},
	"u":   {"उ", "ु"},
	"uu":  {"ऊ", "ू"},
	"U":   {"ऊ", "ू"},
	"RRi": {"ऋ", "ृ"},
	"R^i": {"ऋ", "ृ"},
	"RRI": {"ॠ", "ॄ"},
	"e":   {"ए", "े"},
	"ai":  {"ऐ", "ै"},
	"o":   {"ओ", "ो"},
	"au":  {"औ", "ौ"},
	"E":   {"ऍ", "ॅ"},
	"O":   {"ऑ", "ॉ"},
	"^e":  {"ऎ", "ॆ"},
	"^o":  {"ऒ", "ॊ"},
}

var itransMarks = map[string]string{
	"M":  "ं",
	".n": "ं",
	"H":  "ः",
	".N": "ँ",
	".a": "ऽ",
	"|":  "।",
	"||": "॥",
	"OM": "ॐ",

	"0": "०", "1": "१", "2": "२", "3": "३", "4": "४",
	"5": "५", "6": "६", "7": "७", "8": "८", "9": "९",
}

// itrans writes Devanagari from ITRANS romanization, used for Hindi and
// Marathi. Matching is greedy, longest token first.
type itrans struct {
	name     string
	maxToken int
	prefixes map[string]bool
}

func newITRANS(name string) Method {
	it := &itrans{name: name, prefixes: make(map[string]bool)}
	for _, table := range []map[string]string{itransConsonants, itransMarks} {
		for tok := range table {
			it.addToken(tok)
		}
	}
	for tok := range itransVowels {
		it.addToken(tok)
	}
	return it
}

func (it *itrans) addToken(tok string) {
	if len(tok) > it.maxToken {
		it.maxToken = len(tok)
	}
	for i := 1; i < len(tok); i++ {
		it.prefixes[tok[:i]] = true
	}
}

func (it *itrans) Name() string { return it.name }

// Accepts takes printable ASCII except space.
func (it *itrans) Accepts(r rune) bool { return r > ' ' && r < 0x7f }

func (it *itrans) match(keys []rune, i int, table func(string) bool) int {
	for n := min(it.maxToken, len(keys)-i); n >= 1; n-- {
		if table(string(keys[i : i+n])) {
			return n
		}
	}
	return 0
}

func isConsonant(s string) bool { _, ok := itransConsonants[s]; return ok }
func isVowel(s string) bool     { _, ok := itransVowels[s]; return ok }
func isMark(s string) bool      { _, ok := itransMarks[s]; return ok }

func (it *itrans) Segment(keys []rune) []Segment {
	segs := make([]Segment, 0, len(keys))
	for i := 0; i < len(keys); {
		c := it.match(keys, i, isConsonant)
		v := it.match(keys, i, isVowel)
		m := it.match(keys, i, isMark)
		switch {
		case c > 0 && c >= v && c >= m:
			text := itransConsonants[string(keys[i:i+c])]
			n := c
			if vv := it.match(keys, i+c, isVowel); vv > 0 {
				text += itransVowels[string(keys[i+c:i+c+vv])][1]
				n += vv
			} else {
				text += virama
			}
			segs = append(segs, Segment{Keys: n, Text: text})
			i += n
		case v > 0 && v >= m:
			segs = append(segs, Segment{Keys: v, Text: itransVowels[string(keys[i:i+v])][0]})
			i += v
		case m > 0:
			segs = append(segs, Segment{Keys: m, Text: itransMarks[string(keys[i:i+m])]})
			i += m
		default:
			segs = append(segs, Segment{Keys: 1, Text: string(keys[i])})
			i++
		}
	}
	return segs
}

// Pending is true while the last segment is a bare consonant waiting for a
// vowel, or while its keys could still grow into a longer token.
func (it *itrans) Pending(keys []rune) bool {
	segs := it.Segment(keys)
	if len(segs) == 0 {
		return false
	}
	last := segs[len(segs)-1]
	if strings.HasSuffix(last.Text, virama) {
		return true
	}
	tail := string(keys[len(keys)-last.Keys:])
	if it.prefixes[tail] {
		return true
	}
	// A vowel sign can extend too, as in "ka" becoming "kai".
	for n := 1; n < last.Keys; n++ {
		if it.prefixes[string(keys[len(keys)-n:])] {
			return true
		}
	}
	return false
}
