package keybind

import "fmt"

// DefaultNames returns the stock bindings keyed by action name.
func DefaultNames() map[string][]string {
	m := map[string][]string{
		"cancel":                    {"Escape"},
		"enable_lookup":             {"Tab", "ISO_Left_Tab"},
		"lookup_related":            {"Mod5+F12"},
		"lookup_table_page_down":    {"Page_Down", "KP_Page_Down", "KP_Next"},
		"lookup_table_page_up":      {"Page_Up", "KP_Page_Up", "KP_Prior"},
		"next_dictionary":           {"Mod1+Down", "Mod1+KP_Down"},
		"previous_dictionary":       {"Mod1+Up", "Mod1+KP_Up"},
		"next_input_method":         {"Control+Down", "Control+KP_Down"},
		"previous_input_method":     {"Control+Up", "Control+KP_Up"},
		"select_next_candidate":     {"Tab", "ISO_Left_Tab", "Down", "KP_Down"},
		"select_previous_candidate": {"Shift+Tab", "Shift+ISO_Left_Tab", "Up", "KP_Up"},
		"setup":                     {"Mod5+F10"},
		"speech_recognition":        {},
		"toggle_emoji_prediction":   {"Mod5+F6"},
		"toggle_input_mode_on_off":  {},
		"toggle_off_the_record":     {"Mod5+F9"},
	}
	for i := 1; i <= 9; i++ {
		m[fmt.Sprintf("commit_candidate_%d", i)] = []string{}
		m[fmt.Sprintf("commit_candidate_%d_plus_space", i)] = []string{
			fmt.Sprint(i), fmt.Sprintf("KP_%d", i), fmt.Sprintf("F%d", i),
		}
	}
	return m
}

// Defaults returns a map with the stock bindings.
func Defaults() *Map {
	m := NewMap()
	if err := m.Apply(DefaultNames()); err != nil {
		panic(err)
	}
	return m
}
