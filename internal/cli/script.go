package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/wordboost/pkg/keys"
)

// ParseScript turns one line of key script into key events.
//
// Plain characters are typed as they are. A chord in angle brackets such as
// <F1>, <Control+Down> or <space> is pressed once. <Release+Shift_L>
// releases a key, so <Shift_L><Release+Shift_L> is a Shift tap. "<<" types
// a literal '<'.
func ParseScript(line string) ([]keys.Event, error) {
	var out []keys.Event
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '<' {
			out = append(out, keys.Press(keys.FromRune(r), 0))
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '<' {
			out = append(out, keys.Press(keys.FromRune('<'), 0))
			i++
			continue
		}
		end := strings.IndexRune(string(runes[i+1:]), '>')
		if end < 0 {
			return nil, fmt.Errorf("unclosed '<' at column %d", i+1)
		}
		name := string(runes[i+1:])[:end]
		ev, err := parseKey(name)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		out = append(out, ev)
		i += len([]rune(name)) + 1
	}
	return out, nil
}

func parseKey(name string) (keys.Event, error) {
	release := false
	if rest, ok := cutPrefixFold(name, "Release+"); ok {
		release, name = true, rest
	}
	c, err := keys.ParseChord(name)
	if err != nil {
		return keys.Event{}, err
	}
	if release {
		return keys.Release(c.Sym, c.Mods), nil
	}
	return keys.Press(c.Sym, c.Mods), nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
