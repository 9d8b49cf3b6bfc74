package gioui

import (
	"strings"

	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"github.com/echokeys/echokeys"
)

// keyCodes translates gio key names into the lower-case key names used by
// the key map. Names not listed here are lower-cased as they are.
var keyCodes = map[key.Name]string{
	key.NameLeftArrow:      "arrowleft",
	key.NameRightArrow:     "arrowright",
	key.NameUpArrow:        "arrowup",
	key.NameDownArrow:      "arrowdown",
	key.NameEscape:         "escape",
	key.NameReturn:         "enter",
	key.NameEnter:          "enter",
	key.NameDeleteBackward: "backspace",
	key.NameDeleteForward:  "delete",
	key.NameHome:           "home",
	key.NameEnd:            "end",
	key.NamePageUp:         "pageup",
	key.NamePageDown:       "pagedown",
	key.NameTab:            "tab",
	key.NameSpace:          " ",
	key.NameCtrl:           "control",
	key.NameShift:          "shift",
	key.NameAlt:            "alt",
	key.NameSuper:          "meta",
	key.NameCommand:        "meta",
}

// mouseButtons are the pointer buttons the GUI forwards, with their button
// numbers: 0 is the primary, 1 the tertiary (middle) and 2 the secondary.
var mouseButtons = []struct {
	button pointer.Buttons
	number int
}{
	{pointer.ButtonPrimary, 0},
	{pointer.ButtonTertiary, 1},
	{pointer.ButtonSecondary, 2},
}

func keyInput(name key.Name) echokeys.Input {
	if code, ok := keyCodes[name]; ok {
		return echokeys.Input{Device: echokeys.Keyboard, Code: code}
	}
	return echokeys.Input{Device: echokeys.Keyboard, Code: strings.ToLower(string(name))}
}

// buttonChanges compares two button sets and calls f for every button that
// went down or up.
func buttonChanges(prev, cur pointer.Buttons, f func(in echokeys.Input, pressed bool)) {
	for _, b := range mouseButtons {
		was, is := prev&b.button != 0, cur&b.button != 0
		if was != is {
			f(echokeys.MouseInput(b.number), is)
		}
	}
}
