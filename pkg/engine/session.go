package engine

import (
	"errors"
	"fmt"

	"github.com/bastiangx/wordboost/pkg/config"
	"github.com/bastiangx/wordboost/pkg/dictionary"
	"github.com/bastiangx/wordboost/pkg/keybind"
	"github.com/bastiangx/wordboost/pkg/translit"
)

// Session is the per-user state an engine types with.
type Session struct {
	Chain        *translit.Chain
	Dictionaries *dictionary.Set
	Keymap       *keybind.Map
	Options      config.EngineConfig

	loader *dictionary.Loader
}

// NewSession builds a session from config. Dictionaries are resolved
// through loader. Invalid method names or keybindings are reported but
// the session is still usable with what was valid.
func NewSession(c *config.Config, loader *dictionary.Loader) (*Session, error) {
	var errs []error
	chain, err := translit.NewChain(c.Engine.CurrentIMEs)
	if err != nil {
		errs = append(errs, err)
	}
	keymap, err := c.Keymap()
	if err != nil {
		errs = append(errs, fmt.Errorf("keybindings: %w", err))
	}
	s := &Session{
		Chain:        chain,
		Dictionaries: loader.NewSet(c.Engine.DictionaryNames),
		Keymap:       keymap,
		Options:      c.Engine,
		loader:       loader,
	}
	s.Options.CurrentIMEs = append([]string(nil), c.Engine.CurrentIMEs...)
	s.Options.DictionaryNames = append([]string(nil), c.Engine.DictionaryNames...)
	return s, errors.Join(errs...)
}

// Loader returns the dictionary loader the session resolves names with.
func (s *Session) Loader() *dictionary.Loader { return s.loader }

// Limit is the number of candidates generated for one word.
func (s *Session) Limit() int {
	return max(s.Options.PageSize, 1) * max(s.Options.CandidatePages, 1)
}
