package core

import "strings"

// Key code definitions
type KeyCode uint16

const (
	KEY_ENTER  KeyCode = 0x0D
	KEY_ESCAPE KeyCode = 0x1B
	KEY_SPACE  KeyCode = 0x20
	KEY_LEFT   KeyCode = 0x25
	KEY_UP     KeyCode = 0x26
	KEY_RIGHT  KeyCode = 0x27
	KEY_DOWN   KeyCode = 0x28
	KEY_A      KeyCode = 0x41
	KEY_D      KeyCode = 0x44
	KEY_Q      KeyCode = 0x51
	KEY_S      KeyCode = 0x53
	KEY_W      KeyCode = 0x57
	KEY_F1     KeyCode = 0x70
)

var keyNames = map[string]KeyCode{
	"enter":  KEY_ENTER,
	"escape": KEY_ESCAPE,
	"space":  KEY_SPACE,
	"left":   KEY_LEFT,
	"up":     KEY_UP,
	"right":  KEY_RIGHT,
	"down":   KEY_DOWN,
	"a":      KEY_A,
	"d":      KEY_D,
	"q":      KEY_Q,
	"s":      KEY_S,
	"w":      KEY_W,
	"f1":     KEY_F1,
}

// ParseKeyName maps a lower case key name ("w", "up", "escape", ...) to its code.
func ParseKeyName(name string) (KeyCode, bool) {
	k, ok := keyNames[strings.ToLower(name)]
	return k, ok
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// InputState holds current and previous keyboard states. It is owned by the
// engine loop; displays fill it in from their Poll.
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
}

func NewInputState() *InputState {
	return &InputState{}
}

// Update copies current states to previous states. Call once per frame
// before polling the display.
func (s *InputState) Update() {
	s.KeyboardPrevious = s.KeyboardCurrent
}

func (s *InputState) IsKeyDown(key KeyCode) bool {
	return s.KeyboardCurrent.Keys[uint8(key)]
}

func (s *InputState) IsKeyUp(key KeyCode) bool {
	return !s.KeyboardCurrent.Keys[uint8(key)]
}

func (s *InputState) WasKeyDown(key KeyCode) bool {
	return s.KeyboardPrevious.Keys[uint8(key)]
}

func (s *InputState) WasKeyUp(key KeyCode) bool {
	return !s.KeyboardPrevious.Keys[uint8(key)]
}

// ProcessKey records a key transition and fires a key event when the state
// actually changed.
func (s *InputState) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if s.KeyboardCurrent.Keys[uint8(key)] == pressed {
		return
	}
	s.KeyboardCurrent.Keys[uint8(key)] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	context := EventContext{}
	context.Data.U16[0] = uint16(key)

	// Fire off an event for immediate processing.
	EventFire(code, s, context)
}
