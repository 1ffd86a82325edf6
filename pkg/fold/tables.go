package fold

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Marks the Marathi romanization leaves behind after transliteration.
var marathiDrop = []rune{'\u0325', '\u0310', '\u0304', '\u0315', '\u0314'}

var marathi = map[string]string{
	"ā":       "aa",
	"ṭ":       "t",
	"ḍ":       "d",
	"ē":       "e",
	"ĕ":       "ey",
	"ẖ":       "ha",
	"ṛ":       "da",
	"ġ":       "gan",
	"ī":       "ee",
	"ḵ":       "k",
	"ḷ":       "l",
	"ṁ":       "-mm",
	"ṅ":       "nn",
	"ṇ":       "na",
	"\ue04d":  "a",
	"ō":       "o",
	"ṣ":       "sh",
	"ŏ":       "oy",
	"ḥ":       "tah",
	"ś":       "she",
	"ṟ":       "rr",
	"ū":       "u",
	"ñ":       "dnya",
	"n\u0304": "n",
}

// Letters without a canonical decomposition to an ASCII base.
var latinSpecials = map[string]string{
	"ß": "ss", "ẞ": "SS",
	"æ": "ae", "Æ": "AE",
	"œ": "oe", "Œ": "OE",
	"ø": "o", "Ø": "O",
	"ł": "l", "Ł": "L",
	"đ": "d", "Đ": "D",
	"ð": "d", "Ð": "D",
	"þ": "th", "Þ": "TH",
	"ı": "i",
	"ĳ": "ij", "Ĳ": "IJ",
	"ŀ": "l", "Ŀ": "L",
	"ħ": "h", "Ħ": "H",
	"ŧ": "t", "Ŧ": "T",
	"ſ": "s",
	"ŉ": "n",
}

// latinLanguages share the generated Latin table.
var latinLanguages = []string{
	"en", "de", "fr", "es", "it", "pt", "nl", "sv", "da", "nb", "nn", "no",
	"fi", "pl", "cs", "sk", "ca", "ro", "hu", "tr", "az",
}

// latinTable folds every Latin-1 Supplement and Latin Extended-A letter
// whose canonical decomposition starts with an ASCII letter to that letter,
// and drops all combining diacritics.
func latinTable() *Table {
	subs := make(map[string]string, 256)
	for r := rune(0xc0); r <= 0x17f; r++ {
		if !unicode.IsLetter(r) {
			continue
		}
		d := []rune(norm.NFD.String(string(r)))
		if len(d) > 1 && d[0] < 0x80 && unicode.IsLetter(d[0]) {
			subs[string(r)] = string(d[0])
		}
	}
	for k, v := range latinSpecials {
		subs[k] = v
	}
	var drop []rune
	for r := rune(0x300); r <= 0x36f; r++ {
		drop = append(drop, r)
	}
	return NewTable("latin", subs, drop)
}

func init() {
	Register("mr_IN", NewTable("mr_IN", marathi, marathiDrop))
	latin := latinTable()
	for _, lang := range latinLanguages {
		Register(lang, latin)
	}
}

// Compose merges tables into one. Earlier tables win when two map the same
// key; dropped marks are the union.
func Compose(name string, tables ...*Table) *Table {
	subs := make(map[string]string)
	var drop []rune
	seen := make(map[rune]struct{})
	for i := len(tables) - 1; i >= 0; i-- {
		t := tables[i]
		if t == nil {
			continue
		}
		for k, v := range t.subs {
			subs[k] = v
		}
		for r := range t.drop {
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				drop = append(drop, r)
			}
		}
	}
	return NewTable(name, subs, drop)
}
