package core

// Key codes share their values with GLFW key tokens so the platform layer can
// forward them unchanged.
const (
	KeySpace      = 32
	KeyApostrophe = 39
	KeyComma      = 44
	KeyMinus      = 45
	KeyPeriod     = 46
	KeySlash      = 47
	Key0          = 48
	Key1          = 49
	Key2          = 50
	Key3          = 51
	Key4          = 52
	Key5          = 53
	Key6          = 54
	Key7          = 55
	Key8          = 56
	Key9          = 57
	KeySemicolon  = 59
	KeyEqual      = 61
	KeyA          = 65
	KeyB          = 66
	KeyC          = 67
	KeyD          = 68
	KeyE          = 69
	KeyF          = 70
	KeyG          = 71
	KeyH          = 72
	KeyI          = 73
	KeyJ          = 74
	KeyK          = 75
	KeyL          = 76
	KeyM          = 77
	KeyN          = 78
	KeyO          = 79
	KeyP          = 80
	KeyQ          = 81
	KeyR          = 82
	KeyS          = 83
	KeyT          = 84
	KeyU          = 85
	KeyV          = 86
	KeyW          = 87
	KeyX          = 88
	KeyY          = 89
	KeyZ          = 90

	KeyEscape    = 256
	KeyEnter     = 257
	KeyTab       = 258
	KeyBackspace = 259
	KeyInsert    = 260
	KeyDelete    = 261
	KeyRight     = 262
	KeyLeft      = 263
	KeyDown      = 264
	KeyUp        = 265
	KeyPageUp    = 266
	KeyPageDown  = 267
	KeyHome      = 268
	KeyEnd       = 269

	KeyF1  = 290
	KeyF2  = 291
	KeyF3  = 292
	KeyF4  = 293
	KeyF5  = 294
	KeyF6  = 295
	KeyF7  = 296
	KeyF8  = 297
	KeyF9  = 298
	KeyF10 = 299
	KeyF11 = 300
	KeyF12 = 301

	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyLeftAlt      = 342
	KeyLeftSuper    = 343
	KeyRightShift   = 344
	KeyRightControl = 345
	KeyRightAlt     = 346
	KeyRightSuper   = 347
	KeyMenu         = 348

	KeyLast = KeyMenu + 1
)

const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2

	mouseButtonCount = 8
)

var keyNames = map[string]int{
	"space": KeySpace, "escape": KeyEscape, "enter": KeyEnter, "tab": KeyTab,
	"up": KeyUp, "down": KeyDown, "left": KeyLeft, "right": KeyRight,
	"pageup": KeyPageUp, "pagedown": KeyPageDown, "home": KeyHome, "end": KeyEnd,
	"lshift": KeyLeftShift, "rshift": KeyRightShift,
	"lctrl": KeyLeftControl, "rctrl": KeyRightControl,
}

// KeyFromName resolves a binding name such as "w", "9", "space" or "lshift".
// Letters and digits are case-insensitive.
func KeyFromName(name string) (int, bool) {
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyA + int(c-'a'), true
		case c >= 'A' && c <= 'Z':
			return KeyA + int(c-'A'), true
		case c >= '0' && c <= '9':
			return Key0 + int(c-'0'), true
		}
	}
	key, ok := keyNames[name]
	return key, ok
}
