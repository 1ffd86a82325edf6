package config

import (
	"errors"
	"fmt"

	"github.com/bastiangx/wordboost/pkg/fold"
	"github.com/bastiangx/wordboost/pkg/keybind"
	"github.com/bastiangx/wordboost/pkg/translit"
	"github.com/charmbracelet/log"
)

// Lookup table orientations.
const (
	OrientationVertical   = "vertical"
	OrientationHorizontal = "horizontal"
	OrientationSystem     = "system"
)

// MaxPageSize is the number of candidate labels.
const MaxPageSize = 9

type check struct {
	field string
	err   func(c *Config) error
	reset func(c, def *Config)
}

var checks = []check{
	{
		field: "engine.page_size",
		err: func(c *Config) error {
			if c.Engine.PageSize < 1 || c.Engine.PageSize > MaxPageSize {
				return fmt.Errorf("must be between 1 and %d, got %d", MaxPageSize, c.Engine.PageSize)
			}
			return nil
		},
		reset: func(c, def *Config) { c.Engine.PageSize = def.Engine.PageSize },
	},
	{
		field: "engine.candidate_pages",
		err: func(c *Config) error {
			if c.Engine.CandidatePages < 1 {
				return fmt.Errorf("must be at least 1, got %d", c.Engine.CandidatePages)
			}
			return nil
		},
		reset: func(c, def *Config) { c.Engine.CandidatePages = def.Engine.CandidatePages },
	},
	{
		field: "engine.min_char_complete",
		err: func(c *Config) error {
			if c.Engine.MinCharComplete < 1 {
				return fmt.Errorf("must be at least 1, got %d", c.Engine.MinCharComplete)
			}
			return nil
		},
		reset: func(c, def *Config) { c.Engine.MinCharComplete = def.Engine.MinCharComplete },
	},
	{
		field: "engine.lookup_table_orientation",
		err: func(c *Config) error {
			switch c.Engine.LookupTableOrientation {
			case OrientationVertical, OrientationHorizontal, OrientationSystem:
				return nil
			}
			return fmt.Errorf("unknown orientation %q", c.Engine.LookupTableOrientation)
		},
		reset: func(c, def *Config) { c.Engine.LookupTableOrientation = def.Engine.LookupTableOrientation },
	},
	{
		field: "engine.current_imes",
		err: func(c *Config) error {
			var errs []error
			for _, name := range c.Engine.CurrentIMEs {
				if _, err := translit.New(name); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
		reset: func(c, def *Config) {
			var kept []string
			for _, name := range c.Engine.CurrentIMEs {
				if _, err := translit.New(name); err == nil {
					kept = append(kept, name)
				}
			}
			if len(kept) == 0 {
				kept = def.Engine.CurrentIMEs
			}
			c.Engine.CurrentIMEs = kept
		},
	},
	{
		field: "server.max_pending",
		err: func(c *Config) error {
			if c.Server.MaxPending < 1 {
				return fmt.Errorf("must be at least 1, got %d", c.Server.MaxPending)
			}
			return nil
		},
		reset: func(c, def *Config) { c.Server.MaxPending = def.Server.MaxPending },
	},
	{
		field: "keybindings",
		err: func(c *Config) error {
			return keybind.Defaults().Apply(c.Keybindings)
		},
		reset: func(c, _ *Config) {
			kept := make(map[string][]string, len(c.Keybindings))
			for action, chords := range c.Keybindings {
				if keybind.NewMap().BindNames(action, chords) == nil {
					kept[action] = chords
				}
			}
			c.Keybindings = kept
		},
	},
}

// Validate reports every invalid value.
func (c *Config) Validate() error {
	var errs []error
	for _, ch := range checks {
		if err := ch.err(c); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.field, err))
		}
	}
	return errors.Join(errs...)
}

// Repair logs each invalid value and replaces it with its default, so a
// bad setting never stops a session from starting. Dictionaries without an
// accent table are only reported.
func (c *Config) Repair() {
	def := DefaultConfig()
	for _, ch := range checks {
		if err := ch.err(c); err != nil {
			log.Warnf("Invalid %s: %v. Using default.", ch.field, err)
			ch.reset(c, def)
		}
	}
	for _, name := range c.Engine.DictionaryNames {
		if _, ok := fold.Lookup(name); !ok {
			log.Warnf("No accent table for dictionary %s, matching will be accent sensitive", name)
		}
	}
}

// Keymap builds the keybinding map: defaults overridden by the configured
// actions.
func (c *Config) Keymap() (*keybind.Map, error) {
	m := keybind.Defaults()
	if err := m.Apply(c.Keybindings); err != nil {
		return m, err
	}
	return m, nil
}
