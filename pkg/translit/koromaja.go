package translit

import "strings"

// Leads, vowels and tails in Unicode syllable order, as compatibility jamo.
const (
	hangulLeads  = "ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ"
	hangulTails  = "ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ"
	hangulBase   = 0xAC00
	firstVowel   = 'ㅏ'
	vowelCount   = 21
	tailCount    = 28
	silentLead   = 'ㅇ'
	romajaVowels = "aeiouwy"
)

var romajaConsonants = map[string]rune{
	"g": 'ㄱ', "k": 'ㅋ', "kk": 'ㄲ', "gg": 'ㄲ',
	"n": 'ㄴ', "d": 'ㄷ', "t": 'ㅌ', "tt": 'ㄸ', "dd": 'ㄸ',
	"r": 'ㄹ', "l": 'ㄹ', "m": 'ㅁ',
	"b": 'ㅂ', "p": 'ㅍ', "pp": 'ㅃ', "bb": 'ㅃ',
	"s": 'ㅅ', "ss": 'ㅆ', "ng": 'ㅇ',
	"j": 'ㅈ', "jj": 'ㅉ', "ch": 'ㅊ', "h": 'ㅎ',
}

// A lone "y" or "w" shows the vowel it starts until the rest is typed.
var romajaVowelTable = map[string]rune{
	"a": 'ㅏ', "ae": 'ㅐ', "ya": 'ㅑ', "yae": 'ㅒ',
	"eo": 'ㅓ', "e": 'ㅔ', "yeo": 'ㅕ', "ye": 'ㅖ',
	"o": 'ㅗ', "wa": 'ㅘ', "wae": 'ㅙ', "oe": 'ㅚ', "yo": 'ㅛ',
	"u": 'ㅜ', "wo": 'ㅝ', "we": 'ㅞ', "wi": 'ㅟ', "yu": 'ㅠ',
	"eu": 'ㅡ', "ui": 'ㅢ', "i": 'ㅣ',
	"y": 'ㅣ', "w": 'ㅜ',
}

var compoundTails = map[[2]rune]rune{
	{'ㄱ', 'ㅅ'}: 'ㄳ', {'ㄴ', 'ㅈ'}: 'ㄵ', {'ㄴ', 'ㅎ'}: 'ㄶ',
	{'ㄹ', 'ㄱ'}: 'ㄺ', {'ㄹ', 'ㅁ'}: 'ㄻ', {'ㄹ', 'ㅂ'}: 'ㄼ',
	{'ㄹ', 'ㅅ'}: 'ㄽ', {'ㄹ', 'ㅌ'}: 'ㄾ', {'ㄹ', 'ㅍ'}: 'ㄿ',
	{'ㄹ', 'ㅎ'}: 'ㅀ', {'ㅂ', 'ㅅ'}: 'ㅄ',
}

type jamoKind uint8

const (
	jamoOther jamoKind = iota
	jamoConsonant
	jamoVowel
)

type jamoToken struct {
	kind jamoKind
	keys int
	text string
	r    rune
}

// romaja writes Hangul from Revised Romanization. Jamo are grouped into
// syllables as they are typed, so a consonant after a vowel is a tail until
// the next vowel pulls it into a new syllable.
type romaja struct {
	name     string
	prefixes map[string]bool
}

func newRomaja(name string) Method {
	m := &romaja{name: name, prefixes: make(map[string]bool)}
	for _, table := range []map[string]rune{romajaConsonants, romajaVowelTable} {
		for tok := range table {
			for i := 1; i < len(tok); i++ {
				m.prefixes[tok[:i]] = true
			}
		}
	}
	return m
}

func (m *romaja) Name() string { return m.name }

// Accepts takes the letters used by the romanization.
func (m *romaja) Accepts(r rune) bool {
	return r < 0x80 && strings.ContainsRune("abcdeghijklmnoprstuwy", r)
}

func (m *romaja) tokenize(keys []rune) []jamoToken {
	var toks []jamoToken
	for i := 0; i < len(keys); {
		tok := jamoToken{kind: jamoOther, keys: 1, text: string(keys[i])}
		for n := min(3, len(keys)-i); n >= 1; n-- {
			s := string(keys[i : i+n])
			// "ng" before a vowel is an n closing one syllable and a g
			// opening the next.
			if s == "ng" && i+n < len(keys) && strings.ContainsRune(romajaVowels, keys[i+n]) {
				continue
			}
			if r, ok := romajaConsonants[s]; ok {
				tok = jamoToken{kind: jamoConsonant, keys: n, text: s, r: r}
				break
			}
			if r, ok := romajaVowelTable[s]; ok {
				tok = jamoToken{kind: jamoVowel, keys: n, text: s, r: r}
				break
			}
		}
		toks = append(toks, tok)
		i += tok.keys
	}
	return toks
}

func composeSyllable(lead, vowel, tail rune) string {
	l := strings.IndexRune(hangulLeads, lead) / len(string(lead))
	v := int(vowel - firstVowel)
	t := 0
	if tail != 0 {
		t = strings.IndexRune(hangulTails, tail)/len(string(tail)) + 1
	}
	return string(rune(hangulBase + (l*vowelCount+v)*tailCount + t))
}

func validTail(r rune) bool { return strings.ContainsRune(hangulTails, r) }

func (m *romaja) Segment(keys []rune) []Segment {
	toks := m.tokenize(keys)
	segs := make([]Segment, 0, len(toks))
	for i := 0; i < len(toks); {
		tok := toks[i]
		var lead rune
		n := 0
		switch {
		case tok.kind == jamoVowel:
			lead = silentLead
		case tok.kind == jamoConsonant && i+1 < len(toks) && toks[i+1].kind == jamoVowel:
			lead = tok.r
			n = tok.keys
			i++
		case tok.kind == jamoConsonant:
			segs = append(segs, Segment{Keys: tok.keys, Text: string(tok.r)})
			i++
			continue
		default:
			segs = append(segs, Segment{Keys: tok.keys, Text: tok.text})
			i++
			continue
		}
		vowel := toks[i].r
		n += toks[i].keys
		i++

		end := i
		for end < len(toks) && toks[end].kind == jamoConsonant {
			end++
		}
		// The last consonant before a vowel leads the next syllable.
		if end < len(toks) && toks[end].kind == jamoVowel {
			end--
		}
		var tail rune
		switch {
		case end-i >= 2 && compoundTails[[2]rune{toks[i].r, toks[i+1].r}] != 0:
			tail = compoundTails[[2]rune{toks[i].r, toks[i+1].r}]
			n += toks[i].keys + toks[i+1].keys
			i += 2
		case end-i >= 1 && validTail(toks[i].r):
			tail = toks[i].r
			n += toks[i].keys
			i++
		}
		segs = append(segs, Segment{Keys: n, Text: composeSyllable(lead, vowel, tail)})
	}
	return segs
}

// Pending is true after a consonant, which the next vowel may move into a
// new syllable, and while the last token could still grow.
func (m *romaja) Pending(keys []rune) bool {
	toks := m.tokenize(keys)
	if len(toks) == 0 {
		return false
	}
	last := toks[len(toks)-1]
	return last.kind == jamoConsonant || m.prefixes[last.text]
}
