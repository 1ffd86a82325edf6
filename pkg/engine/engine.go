// Package engine is the preedit state machine. It takes key events, keeps
// the word being typed, asks the generator for candidates and commits the
// chosen text to a Host.
//
// An Engine is not safe for concurrent use; a host drives it from one
// goroutine.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/internal/utils"
	"github.com/bastiangx/wordboost/pkg/config"
	"github.com/bastiangx/wordboost/pkg/keybind"
	"github.com/bastiangx/wordboost/pkg/keys"
	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/bastiangx/wordboost/pkg/translit"
	"github.com/charmbracelet/log"
)

// Mouse buttons accepted by CandidateClicked.
const (
	ButtonPrimary   = 1
	ButtonSecondary = 3
)

// commandMods are modifiers that turn a key into a shortcut for the
// application rather than text.
const commandMods = keys.ControlMask | keys.Mod1Mask | keys.Mod4Mask |
	keys.SuperMask | keys.HyperMask | keys.MetaMask

// Engine turns key events into preedit updates and commits.
type Engine struct {
	host    Host
	gen     *suggest.Generator
	session *Session
	log     *log.Logger
	now     func() time.Time

	buf   Buffer
	table *lookupTable
	// normal holds the regular list while related candidates are shown.
	normal        []suggest.Candidate
	related       bool
	lookupEnabled bool
	caseMode      suggest.CaseMode
	shiftPressed  keys.Keysym
	enabled       bool
	digitsBound   bool
}

// New returns an engine typing into host.
func New(host Host, gen *suggest.Generator, s *Session) *Engine {
	e := &Engine{
		host:    host,
		gen:     gen,
		session: s,
		log:     logger.New("engine"),
		now:     time.Now,
		table:   newLookupTable(s.Options.PageSize, s.Options.LookupTableOrientation),
		enabled: true,
	}
	e.digitsBound = digitsBound(s.Keymap)
	return e
}

// Session returns the session the engine types with.
func (e *Engine) Session() *Session { return e.session }

// ProcessKey handles one key event and reports whether the engine consumed
// it. Keys that are not consumed should reach the application unchanged.
func (e *Engine) ProcessKey(ctx context.Context, ev keys.Event) bool {
	if e.shiftTap(ctx, ev) {
		return true
	}
	if ev.IsRelease() || ev.Sym.IsModifier() {
		return false
	}
	for _, a := range e.session.Keymap.Resolve(ev.Chord()) {
		if e.applicable(a) {
			e.log.Debug("Running action", "action", a, "key", ev)
			e.run(ctx, a)
			return true
		}
	}
	if !e.enabled {
		return false
	}
	return e.input(ctx, ev)
}

// CandidateClicked handles a click on the index-th candidate of the page
// that is showing.
func (e *Engine) CandidateClicked(ctx context.Context, index, button int) {
	if !e.tableShown() {
		return
	}
	i, ok := e.table.onPage(index)
	if !ok {
		return
	}
	c := e.table.candidates[i]
	switch button {
	case ButtonPrimary:
		suffix := ""
		if e.session.Options.AddSpaceOnCommit {
			suffix = " "
		}
		e.commitCandidate(ctx, c, suffix)
	case ButtonSecondary:
		e.showRelated(ctx, c.Text)
	}
}

// shiftTap cycles the candidate case when a Shift key is pressed and
// released with nothing in between.
func (e *Engine) shiftTap(ctx context.Context, ev keys.Event) bool {
	isShift := ev.Sym == keys.ShiftL || ev.Sym == keys.ShiftR
	switch {
	case isShift && !ev.IsRelease():
		e.shiftPressed = ev.Sym
		return false
	case isShift && ev.Sym == e.shiftPressed:
		e.shiftPressed = 0
		if !e.enabled || e.buf.Empty() || e.table.len() == 0 {
			return false
		}
		e.caseMode = e.caseMode.Next()
		e.log.Debug("Candidate case", "mode", e.caseMode)
		e.changed(ctx)
		return true
	default:
		e.shiftPressed = 0
		return false
	}
}

func (e *Engine) applicable(a keybind.Action) bool {
	if !e.enabled {
		return a == keybind.ToggleInputModeOnOff
	}
	if idx, _, ok := a.CommitIndex(); ok {
		if !e.tableShown() {
			return false
		}
		_, ok := e.table.onPage(idx)
		return ok
	}
	switch a {
	case keybind.Cancel, keybind.LookupRelated:
		return !e.buf.Empty()
	case keybind.EnableLookup:
		return e.session.Options.TabEnable && !e.lookupEnabled && !e.buf.Empty()
	case keybind.SelectNextCandidate, keybind.SelectPreviousCandidate,
		keybind.LookupTablePageUp, keybind.LookupTablePageDown:
		return e.tableShown()
	}
	return true
}

func (e *Engine) run(ctx context.Context, a keybind.Action) {
	if idx, plusSpace, ok := a.CommitIndex(); ok {
		i, _ := e.table.onPage(idx)
		suffix := ""
		if plusSpace {
			suffix = " "
		}
		e.commitCandidate(ctx, e.table.candidates[i], suffix)
		return
	}
	opts := &e.session.Options
	switch a {
	case keybind.Cancel:
		e.cancel()
	case keybind.EnableLookup:
		e.lookupEnabled = true
	case keybind.SelectNextCandidate:
		e.table.next()
	case keybind.SelectPreviousCandidate:
		e.table.previous()
	case keybind.LookupTablePageDown:
		e.table.pageDown()
	case keybind.LookupTablePageUp:
		e.table.pageUp()
	case keybind.LookupRelated:
		subject := e.buf.Text(e.session.Chain)
		if c, ok := e.table.selected(); ok {
			subject = c.Text
		}
		e.showRelated(ctx, subject)
	case keybind.NextDictionary, keybind.PreviousDictionary:
		step := 1
		if a == keybind.PreviousDictionary {
			step = -1
		}
		e.session.Dictionaries.Rotate(step)
		opts.DictionaryNames = e.session.Dictionaries.Names()
		e.log.Info("Dictionaries", "order", opts.DictionaryNames)
		e.regenerate(ctx)
	case keybind.NextInputMethod, keybind.PreviousInputMethod:
		step := 1
		if a == keybind.PreviousInputMethod {
			step = -1
		}
		e.rotateInputMethods(ctx, step)
	case keybind.ToggleEmojiPrediction:
		opts.EmojiPrediction = !opts.EmojiPrediction
		e.regenerate(ctx)
	case keybind.ToggleOffTheRecord:
		opts.OffTheRecord = !opts.OffTheRecord
	case keybind.ToggleInputModeOnOff:
		if e.enabled && !e.buf.Empty() {
			e.commitPreedit(ctx, "")
		}
		e.enabled = !e.enabled
		e.log.Info("Input mode", "on", e.enabled)
	case keybind.SpeechRecognition, keybind.Setup:
		e.launch(a)
		return
	}
	e.update()
}

// cancel steps back one level: hide the cursor, leave the related view,
// hide the candidates, and finally drop the preedit.
func (e *Engine) cancel() {
	switch {
	case e.table.cursorVisible:
		e.table.hideCursor()
	case e.related:
		e.table.set(e.normal)
		e.normal = nil
		e.related = false
	case e.tableShown():
		e.table.clear()
	default:
		e.reset()
	}
}

func (e *Engine) showRelated(ctx context.Context, text string) {
	list := e.gen.Related(ctx, text)
	if len(list) == 0 {
		e.log.Debug("Nothing related", "text", text)
		return
	}
	if !e.related {
		e.normal = e.table.candidates
	}
	e.related = true
	e.table.set(list)
	e.update()
}

func (e *Engine) launch(a keybind.Action) {
	l, ok := e.host.(Launcher)
	if !ok {
		e.log.Warn("Host cannot launch", "action", a)
		return
	}
	if err := l.Launch(a); err != nil {
		e.log.Error("Launch failed", "action", a, "err", err)
	}
}

func (e *Engine) rotateInputMethods(ctx context.Context, step int) {
	e.session.Chain.Rotate(step)
	e.session.Options.CurrentIMEs = e.session.Chain.Names()
	e.log.Info("Input methods", "order", e.session.Options.CurrentIMEs)
	e.buf.Reassign(e.session.Chain)
	e.regenerate(ctx)
}

// input handles a key no action claimed.
func (e *Engine) input(ctx context.Context, ev keys.Event) bool {
	ctrl := ev.Has(keys.ControlMask)
	switch ev.Sym {
	case keys.Left, keys.KPLeft:
		return e.left(ctx, ctrl)
	case keys.Right, keys.KPRight:
		return e.right(ctx, ctrl)
	}
	if ev.Mods&commandMods != 0 {
		if !e.buf.Empty() {
			e.commitPreedit(ctx, "")
		}
		return false
	}

	switch ev.Sym {
	case keys.BackSpace, keys.Delete, keys.KPDelete:
		if e.buf.Empty() {
			return false
		}
		var removed bool
		if ev.Sym == keys.BackSpace {
			removed = e.buf.Backspace()
		} else {
			removed = e.buf.Delete()
		}
		if !removed {
			// Nothing to remove at this edge, the key is still consumed.
			return true
		}
		if e.buf.Empty() {
			e.reset()
		}
		e.changed(ctx)
		return true
	case keys.Home, keys.KPHome, keys.End, keys.KPEnd:
		if e.buf.Empty() {
			return false
		}
		if ev.Sym == keys.Home || ev.Sym == keys.KPHome {
			e.buf.MoveTo(0)
		} else {
			e.buf.MoveTo(e.buf.Len())
		}
		e.update()
		return true
	case keys.Return, keys.KPEnter:
		if !e.buf.Empty() {
			e.commitSelectionOrPreedit(ctx, "")
		}
		return false
	case keys.Space, keys.KPSpace:
		if e.buf.Empty() {
			return false
		}
		e.commitSelectionOrPreedit(ctx, " ")
		return true
	case keys.Tab, keys.KPTab, keys.ISOLeftTab:
		if e.buf.Empty() {
			return false
		}
		e.commitSelectionOrPreedit(ctx, "\t")
		return true
	case keys.Escape:
		return false
	}

	r := ev.Rune()
	if r == 0 {
		return false
	}
	return e.typeRune(ctx, ev, r)
}

func (e *Engine) typeRune(ctx context.Context, ev keys.Event, r rune) bool {
	res := e.session.Chain.FeedRuns(e.buf.RunBefore, r)
	m := e.session.Chain.Method(res.Method)
	if res.Kind == translit.Rejected || m == nil {
		if !e.buf.Empty() {
			e.commitPreedit(ctx, "")
		}
		return false
	}
	e.log.Debug("Fed key", "method", res.Method, "kind", res.Kind, "output", res.Output, "consumed", res.Consumed)
	if e.buf.Empty() && e.labelKey(ev, r) {
		e.host.CommitText(translit.Transliterate(m, []rune{r}))
		return true
	}
	if e.autoCommits(m, res, r) {
		e.commitPreedit(ctx, translit.Transliterate(m, []rune{r})+" ")
		return true
	}
	e.buf.Insert(Unit{Key: r, Method: m.Name()})
	e.changed(ctx)
	return true
}

// autoCommits reports whether r commits the preedit. A key that starts or
// extends a pending sequence, or composes with earlier keys, is typed.
func (e *Engine) autoCommits(m translit.Method, res translit.Result, r rune) bool {
	if e.buf.Empty() || !strings.ContainsRune(e.session.Options.AutoCommitCharacters, r) {
		return false
	}
	if res.Kind == translit.Pending || res.Consumed > 0 {
		return false
	}
	return !translit.Merges(m, e.buf.RunBefore(m.Name()), r)
}

// labelKey reports whether a key selects candidates by label. Digits count
// as soon as any digit does, so a digit never opens a preedit that the
// next digit would select from.
func (e *Engine) labelKey(ev keys.Event, r rune) bool {
	for _, a := range e.session.Keymap.Resolve(ev.Chord()) {
		if _, _, ok := a.CommitIndex(); ok {
			return true
		}
	}
	return e.digitsBound && r >= '0' && r <= '9'
}

func digitsBound(m *keybind.Map) bool {
	for d := '0'; d <= '9'; d++ {
		for _, a := range m.Resolve(keys.Chord{Sym: keys.FromRune(d)}) {
			if _, _, ok := a.CommitIndex(); ok {
				return true
			}
		}
	}
	return false
}

func (e *Engine) left(ctx context.Context, ctrl bool) bool {
	if e.buf.Empty() {
		return e.reopen(ctx)
	}
	if e.buf.Cursor() == 0 {
		e.leave(ctx)
		return false
	}
	if ctrl {
		e.buf.WordLeft()
	} else {
		e.buf.MoveTo(e.buf.Cursor() - 1)
	}
	e.update()
	return true
}

func (e *Engine) right(ctx context.Context, ctrl bool) bool {
	if e.buf.Empty() {
		return false
	}
	if e.buf.Cursor() == e.buf.Len() {
		e.leave(ctx)
		return false
	}
	if ctrl {
		e.buf.WordRight()
	} else {
		e.buf.MoveTo(e.buf.Cursor() + 1)
	}
	e.update()
	return true
}

// leave commits the preedit when the cursor walks off its edge and puts
// the host caret where the preedit cursor was.
func (e *Engine) leave(ctx context.Context) {
	text, cursor := e.buf.Compose(e.session.Chain)
	after := utf8.RuneCountInString(text) - cursor
	e.commitPreedit(ctx, "")
	for i := 0; i < after; i++ {
		e.host.ForwardKey(keys.Press(keys.Left, 0))
	}
}

// reopen pulls the word before the host caret back into the preedit.
func (e *Engine) reopen(ctx context.Context) bool {
	sh, ok := e.host.(SurroundingHost)
	if !ok || !e.session.Options.ReopenCommittedWords {
		return false
	}
	text, caret := sh.SurroundingText()
	runes := []rune(text)
	if caret < 1 || caret > len(runes) {
		return false
	}
	word := utils.TrailingWord(string(runes[:caret]))
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return false
	}
	sh.DeleteSurroundingText(-n, n)
	e.buf.SetText(word, n-1)
	e.log.Debug("Reopened word", "word", word)
	e.changed(ctx)
	return true
}

func (e *Engine) commitSelectionOrPreedit(ctx context.Context, suffix string) {
	if c, ok := e.table.selected(); ok && e.tableShown() {
		e.commitCandidate(ctx, c, suffix)
		return
	}
	e.commitPreedit(ctx, suffix)
}

func (e *Engine) commitCandidate(ctx context.Context, c suggest.Candidate, suffix string) {
	typed := e.buf.Text(e.session.Chain)
	e.learn(ctx, typed, c.Text)
	e.flush(c.Text + suffix)
}

func (e *Engine) commitPreedit(ctx context.Context, suffix string) {
	typed := e.buf.Text(e.session.Chain)
	if strings.IndexFunc(typed, unicode.IsLetter) >= 0 {
		e.learn(ctx, typed, typed)
	}
	e.flush(typed + suffix)
}

func (e *Engine) flush(text string) {
	if text != "" {
		e.host.CommitText(text)
	}
	e.reset()
	e.update()
}

// learn records phrase as chosen for typed. Failures only cost the
// ranking, so they are logged and typing goes on.
func (e *Engine) learn(ctx context.Context, typed, phrase string) {
	st := e.gen.Store()
	if st == nil || e.session.Options.OffTheRecord || phrase == "" {
		return
	}
	input := e.session.Dictionaries.Table().Key(typed)
	if err := st.Record(ctx, input, phrase, e.now()); err != nil {
		e.log.Error("Could not record phrase", "phrase", phrase, "err", err)
	}
}

func (e *Engine) reset() {
	e.buf.Reset()
	e.table.clear()
	e.normal = nil
	e.related = false
	e.lookupEnabled = false
	e.caseMode = suggest.CaseAsTyped
}

func (e *Engine) changed(ctx context.Context) {
	e.regenerate(ctx)
	e.update()
}

func (e *Engine) regenerate(ctx context.Context) {
	e.related = false
	e.normal = nil
	if e.buf.Empty() {
		e.table.clear()
		return
	}
	opts := e.session.Options
	list := e.gen.Generate(ctx, suggest.Query{
		Text:         e.buf.Text(e.session.Chain),
		Dictionaries: e.session.Dictionaries,
		Emoji:        opts.EmojiPrediction,
		Limit:        e.session.Limit(),
		MinChars:     opts.MinCharComplete,
		Case:         e.caseMode,
	})
	e.table.set(list)
}

func (e *Engine) tableShown() bool {
	return e.table.len() > 0 && (!e.session.Options.TabEnable || e.lookupEnabled)
}

func (e *Engine) update() {
	text, cursor := e.buf.Compose(e.session.Chain)
	e.host.UpdatePreedit(text, cursor, text != "")
	e.host.UpdateLookupTable(e.table.snapshot(e.related), e.tableShown())
}

// Preedit returns the composed text and its cursor in runes.
func (e *Engine) Preedit() (string, int) {
	return e.buf.Compose(e.session.Chain)
}

// Table returns the candidate list and whether it is showing.
func (e *Engine) Table() (Table, bool) {
	return e.table.snapshot(e.related), e.tableShown()
}

// Enabled reports whether input mode is on.
func (e *Engine) Enabled() bool { return e.enabled }

// Reset drops the preedit without committing, as on focus loss.
func (e *Engine) Reset() {
	e.reset()
	e.update()
}

// SetPageSize changes the number of candidates per page.
func (e *Engine) SetPageSize(ctx context.Context, n int) error {
	if n < 1 || n > config.MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d, got %d", config.MaxPageSize, n)
	}
	e.session.Options.PageSize = n
	e.table.setPageSize(n)
	e.changed(ctx)
	return nil
}

// SetOrientation changes the lookup table orientation.
func (e *Engine) SetOrientation(o string) error {
	switch o {
	case config.OrientationVertical, config.OrientationHorizontal, config.OrientationSystem:
	default:
		return fmt.Errorf("unknown orientation %q", o)
	}
	e.session.Options.LookupTableOrientation = o
	e.table.orientation = o
	e.update()
	return nil
}

// SetMinCharComplete sets the shortest typed text that gets candidates.
func (e *Engine) SetMinCharComplete(ctx context.Context, n int) {
	e.session.Options.MinCharComplete = max(n, 1)
	e.changed(ctx)
}

// SetEmojiPrediction turns emoji matching without the trigger on or off.
func (e *Engine) SetEmojiPrediction(ctx context.Context, on bool) {
	e.session.Options.EmojiPrediction = on
	e.changed(ctx)
}

// SetTabEnable hides the candidates until enable_lookup is used.
func (e *Engine) SetTabEnable(on bool) {
	e.session.Options.TabEnable = on
	e.lookupEnabled = false
	e.update()
}

// SetOffTheRecord stops recording commits.
func (e *Engine) SetOffTheRecord(on bool) { e.session.Options.OffTheRecord = on }

// SetAddSpaceOnCommit adds a space after commits by mouse click.
func (e *Engine) SetAddSpaceOnCommit(on bool) { e.session.Options.AddSpaceOnCommit = on }

// SetAutoCommitCharacters sets the characters that commit the preedit.
func (e *Engine) SetAutoCommitCharacters(chars string) {
	e.session.Options.AutoCommitCharacters = chars
}

// SetReopenCommittedWords lets Left pull the previous word back in.
func (e *Engine) SetReopenCommittedWords(on bool) {
	e.session.Options.ReopenCommittedWords = on
}

// SetIMEs replaces the input method chain. Unknown names are reported and
// left out.
func (e *Engine) SetIMEs(ctx context.Context, names []string) error {
	chain, err := translit.NewChain(names)
	e.session.Chain = chain
	e.session.Options.CurrentIMEs = chain.Names()
	e.buf.Reassign(chain)
	e.changed(ctx)
	return err
}

// SetDictionaries replaces the active dictionaries.
func (e *Engine) SetDictionaries(ctx context.Context, names []string) {
	e.session.Dictionaries = e.session.loader.NewSet(names)
	e.session.Options.DictionaryNames = append([]string(nil), names...)
	e.changed(ctx)
}

// SetKeybindings overlays bindings on the current ones. Actions missing
// from cfg keep their chords.
func (e *Engine) SetKeybindings(cfg map[string][]string) error {
	m := e.session.Keymap.Clone()
	err := m.Apply(cfg)
	e.session.Keymap = m
	e.digitsBound = digitsBound(m)
	return err
}

// ApplyConfig switches to a reloaded config, keeping what is typed.
func (e *Engine) ApplyConfig(ctx context.Context, c *config.Config) error {
	s, err := NewSession(c, e.session.loader)
	e.session = s
	e.table.setPageSize(s.Options.PageSize)
	e.table.orientation = s.Options.LookupTableOrientation
	e.digitsBound = digitsBound(s.Keymap)
	e.buf.Reassign(s.Chain)
	e.changed(ctx)
	return err
}
