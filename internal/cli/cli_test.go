package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/wordboost/pkg/config"
	"github.com/bastiangx/wordboost/pkg/dictionary"
	"github.com/bastiangx/wordboost/pkg/emoji"
	"github.com/bastiangx/wordboost/pkg/engine"
	"github.com/bastiangx/wordboost/pkg/keys"
	"github.com/bastiangx/wordboost/pkg/store"
	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []keys.Event
		wantErr bool
	}{
		{
			name: "plain",
			line: "ab",
			want: []keys.Event{keys.Press(keys.FromRune('a'), 0), keys.Press(keys.FromRune('b'), 0)},
		},
		{
			name: "function key",
			line: "c<F1>",
			want: []keys.Event{keys.Press(keys.FromRune('c'), 0), keys.Press(keys.F1, 0)},
		},
		{
			name: "chord",
			line: "<Control+Down>",
			want: []keys.Event{keys.Press(keys.Down, keys.ControlMask)},
		},
		{
			name: "shift tap",
			line: "<Shift_L><Release+Shift_L>",
			want: []keys.Event{keys.Press(keys.ShiftL, 0), keys.Release(keys.ShiftL, 0)},
		},
		{
			name: "literal angle",
			line: "a<<b",
			want: []keys.Event{
				keys.Press(keys.FromRune('a'), 0),
				keys.Press(keys.FromRune('<'), 0),
				keys.Press(keys.FromRune('b'), 0),
			},
		},
		{
			name: "non ascii",
			line: "ü<space>",
			want: []keys.Event{keys.Press(keys.FromRune('ü'), 0), keys.Press(keys.Space, 0)},
		},
		{name: "unclosed", line: "ab<F1", wantErr: true},
		{name: "unknown key", line: "<NoSuchKey>", wantErr: true},
		{name: "unknown modifier", line: "<Foo+a>", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newHandler(t *testing.T) *InputHandler {
	t.Helper()
	c := config.DefaultConfig()
	s, err := engine.NewSession(c, dictionary.NewLoader("../../pkg/dictionary/testdata"))
	require.NoError(t, err)
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	h := NewInputHandler(suggest.NewGenerator(st, emoji.Default()), s)
	h.SetLogger(log.New(io.Discard))
	return h
}

func TestInputHandlerScripts(t *testing.T) {
	h := newHandler(t)
	require.NoError(t, h.run(strings.NewReader("cerule<F1>\nfoo<Return>\n\n")))
	assert.Equal(t, "cerulean foo\n", h.Transcript())

	h.handleInput("tes<BackSpace>")
	text, cursor := h.Engine().Preedit()
	assert.Equal(t, "te", text)
	assert.Equal(t, 2, cursor)

	h.handleInput("<Escape><Escape>")
	text, _ = h.Engine().Preedit()
	assert.Empty(t, text)
	assert.Equal(t, "cerulean foo\n", h.Transcript())
}

func TestInputHandlerCommands(t *testing.T) {
	h := newHandler(t)

	require.NoError(t, h.command([]string{"size", "2"}))
	assert.Equal(t, 2, h.Engine().Session().Options.PageSize)
	assert.Error(t, h.command([]string{"size", "12"}))
	assert.Error(t, h.command([]string{"size"}))

	h.handleInput("camel")
	require.NoError(t, h.command([]string{"click", "2"}))
	assert.Equal(t, "camelhair ", h.Transcript())

	require.NoError(t, h.command([]string{"imes", "hi-itrans", "NoIME"}))
	assert.Equal(t, []string{"hi-itrans", "NoIME"}, h.Engine().Session().Options.CurrentIMEs)
	require.NoError(t, h.command([]string{"dicts", "de_DE"}))
	assert.Equal(t, []string{"de_DE"}, h.Engine().Session().Options.DictionaryNames)

	require.NoError(t, h.command([]string{"reset"}))
	assert.Empty(t, h.Transcript())
	assert.Error(t, h.command([]string{"launch"}))
	assert.Error(t, h.command(nil))
}

func TestFormatWithCommas(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for n, want := range tests {
		assert.Equal(t, want, formatWithCommas(n))
	}
}
