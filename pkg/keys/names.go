package keys

var nameToSym = map[string]Keysym{
	"BackSpace":       BackSpace,
	"Tab":             Tab,
	"Return":          Return,
	"Escape":          Escape,
	"Delete":          Delete,
	"Home":            Home,
	"Left":            Left,
	"Up":              Up,
	"Right":           Right,
	"Down":            Down,
	"Page_Up":         PageUp,
	"Prior":           PageUp,
	"Page_Down":       PageDown,
	"Next":            PageDown,
	"End":             End,
	"Insert":          Insert,
	"ISO_Left_Tab":    ISOLeftTab,
	"space":           Space,
	"KP_Space":        KPSpace,
	"KP_Tab":          KPTab,
	"KP_Enter":        KPEnter,
	"KP_Home":         KPHome,
	"KP_Left":         KPLeft,
	"KP_Up":           KPUp,
	"KP_Right":        KPRight,
	"KP_Down":         KPDown,
	"KP_Page_Up":      KPPageUp,
	"KP_Prior":        KPPageUp,
	"KP_Page_Down":    KPPageDown,
	"KP_Next":         KPPageDown,
	"KP_End":          KPEnd,
	"KP_Delete":       KPDelete,
	"KP_Multiply":     KPMultiply,
	"KP_Add":          KPAdd,
	"KP_Separator":    KPSeparator,
	"KP_Subtract":     KPSubtract,
	"KP_Decimal":      KPDecimal,
	"KP_Divide":       KPDivide,
	"KP_0":            KP0,
	"KP_1":            KP0 + 1,
	"KP_2":            KP0 + 2,
	"KP_3":            KP0 + 3,
	"KP_4":            KP0 + 4,
	"KP_5":            KP0 + 5,
	"KP_6":            KP0 + 6,
	"KP_7":            KP0 + 7,
	"KP_8":            KP0 + 8,
	"KP_9":            KP0 + 9,
	"Shift_L":         ShiftL,
	"Shift_R":         ShiftR,
	"Control_L":       ControlL,
	"Control_R":       ControlR,
	"Caps_Lock":       CapsLock,
	"Alt_L":           AltL,
	"Alt_R":           AltR,
	"Super_L":         SuperL,
	"Super_R":         SuperR,

	"ISO_Level3_Shift": ISOLevel3,

	"plus":            '+',
	"minus":           '-',
	"comma":           ',',
	"period":          '.',
	"semicolon":       ';',
	"colon":           ':',
	"apostrophe":      '\'',
	"quotedbl":        '"',
	"grave":           '`',
	"asciicircum":     '^',
	"asciitilde":      '~',
	"underscore":      '_',
	"slash":           '/',
	"backslash":       '\\',
	"exclam":          '!',
	"question":        '?',
}

var aliases = map[string]bool{
	"Prior":    true,
	"Next":     true,
	"KP_Prior": true,
	"KP_Next":  true,
}

// symToName holds one canonical name per non-printing keysym.
var symToName = make(map[Keysym]string)

func init() {
	for name, sym := range nameToSym {
		if aliases[name] || (sym != Space && sym <= 0xff) {
			continue
		}
		symToName[sym] = name
	}
}
