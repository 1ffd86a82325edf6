// Package cli runs key scripts through an engine for DBG and testing
// various features.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/pkg/engine"
	"github.com/bastiangx/wordboost/pkg/keybind"
	"github.com/bastiangx/wordboost/pkg/keys"
	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads key scripts from stdin, one per line, and prints what
// the engine shows after each line.
//
// Lines starting with ':' are commands:
//
//	:size 4              set the page size
//	:imes hi-itrans NoIME
//	:dicts de_DE en_US   without names, list the installed dictionaries
//	:click 1 [3]         click the first shown candidate, optionally with button 3
//	:reset               drop the preedit and the transcript
//	:text                print the transcript
type InputHandler struct {
	engine *engine.Engine
	host   *terminalHost
	log    *log.Logger
	ctx    context.Context
}

// NewInputHandler builds an engine for the session that types into a
// transcript.
func NewInputHandler(gen *suggest.Generator, s *engine.Session) *InputHandler {
	h := &terminalHost{}
	return &InputHandler{
		engine: engine.New(h, gen, s),
		host:   h,
		log:    logger.NewWithConfig("", log.GetLevel(), false, false, log.TextFormatter),
		ctx:    context.Background(),
	}
}

// SetLogger replaces the logger results are printed with.
func (h *InputHandler) SetLogger(l *log.Logger) { h.log = l }

// Start begins the interface loop on stdin. It returns nil at EOF.
func (h *InputHandler) Start() error {
	h.log.Print("WordBoost CLI [BETA]")
	h.log.Print("type keys and press Enter, e.g. cerule<F1> (Ctrl+C to exit):")
	return h.run(os.Stdin)
}

func (h *InputHandler) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		h.log.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput runs one script line or command.
func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		if err := h.command(strings.Fields(line[1:])); err != nil {
			h.log.Error("Command failed", "line", line, "err", err)
		}
		return
	}

	events, err := ParseScript(line)
	if err != nil {
		h.log.Errorf("Bad key script: %v", err)
		return
	}

	start := time.Now()
	h.host.begin()
	for _, ev := range events {
		if !h.engine.ProcessKey(h.ctx, ev) {
			h.host.apply(ev)
		}
	}
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for %d keys", elapsed, len(events))
	h.show()
}

func (h *InputHandler) command(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}
	switch args[0] {
	case "size":
		if len(args) != 2 {
			return fmt.Errorf("usage: :size N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		if err := h.engine.SetPageSize(h.ctx, n); err != nil {
			return err
		}
	case "imes":
		if err := h.engine.SetIMEs(h.ctx, args[1:]); err != nil {
			return err
		}
	case "dicts":
		if len(args) == 1 {
			h.log.Print("Installed dictionaries", "names", h.engine.Session().Loader().Available())
			return nil
		}
		h.engine.SetDictionaries(h.ctx, args[1:])
	case "click":
		if len(args) < 2 {
			return fmt.Errorf("usage: :click N [button]")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		button := engine.ButtonPrimary
		if len(args) > 2 {
			if button, err = strconv.Atoi(args[2]); err != nil {
				return err
			}
		}
		h.host.begin()
		h.engine.CandidateClicked(h.ctx, n-1, button)
	case "reset":
		h.engine.Reset()
		h.host.reset()
	case "text":
		h.log.Print("Transcript", "text", h.host.Transcript())
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	h.show()
	return nil
}

// Engine returns the engine the handler drives.
func (h *InputHandler) Engine() *engine.Engine { return h.engine }

// Transcript returns everything committed or typed through so far.
func (h *InputHandler) Transcript() string { return h.host.Transcript() }

// terminalHost keeps a transcript of the text an application would hold.
type terminalHost struct {
	text    []rune
	commits []string
	launch  []keybind.Action

	preedit       string
	preeditCursor int
	table         engine.Table
	tableVisible  bool
}

func (t *terminalHost) UpdatePreedit(text string, cursor int, _ bool) {
	t.preedit, t.preeditCursor = text, cursor
}

func (t *terminalHost) CommitText(text string) {
	t.commits = append(t.commits, text)
	t.text = append(t.text, []rune(text)...)
}

func (t *terminalHost) UpdateLookupTable(table engine.Table, visible bool) {
	t.table, t.tableVisible = table, visible
}

func (t *terminalHost) ForwardKey(ev keys.Event) { t.apply(ev) }

func (t *terminalHost) Launch(a keybind.Action) error {
	t.launch = append(t.launch, a)
	return nil
}

func (t *terminalHost) begin() {
	t.commits = t.commits[:0]
	t.launch = t.launch[:0]
}

func (t *terminalHost) reset() {
	t.begin()
	t.text = t.text[:0]
}

// apply handles keys the engine passed on. The transcript has no caret, so
// cursor keys are ignored.
func (t *terminalHost) apply(ev keys.Event) {
	if ev.IsRelease() {
		return
	}
	switch ev.Sym {
	case keys.Return, keys.KPEnter:
		t.text = append(t.text, '\n')
	case keys.BackSpace:
		if len(t.text) > 0 {
			t.text = t.text[:len(t.text)-1]
		}
	case keys.Tab:
		t.text = append(t.text, '\t')
	default:
		if r := ev.Rune(); r != 0 {
			t.text = append(t.text, r)
		}
	}
}

func (t *terminalHost) Transcript() string { return string(t.text) }
