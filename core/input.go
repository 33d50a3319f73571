package core

import "math"

// CursorController is implemented by the platform window so Input can show
// or capture the OS cursor.
type CursorController interface {
	SetCursorVisible(visible bool)
}

// Input tracks keyboard and mouse state for the current frame. The platform
// layer pushes key and button transitions as they arrive and calls Update
// once per frame, after event polling, with the cursor position.
type Input struct {
	keys         [KeyLast]bool
	keysPressed  [KeyLast]bool
	mouseButtons [mouseButtonCount]bool

	mouseX, mouseY int
	moveX, moveY   int
	firstFrame     bool

	mouseVisible bool
	cursor       CursorController
}

func NewInput(cursor CursorController) *Input {
	return &Input{
		firstFrame:   true,
		mouseVisible: true,
		cursor:       cursor,
	}
}

// SetKeyDown records a key transition. Out-of-range keys are ignored.
func (in *Input) SetKeyDown(key int, down bool) {
	if key < 0 || key >= len(in.keys) {
		return
	}
	if down && !in.keys[key] {
		in.keysPressed[key] = true
	}
	in.keys[key] = down
}

func (in *Input) SetMouseButtonDown(button int, down bool) {
	if button < 0 || button >= len(in.mouseButtons) {
		return
	}
	in.mouseButtons[button] = down
}

// Update derives this frame's mouse motion from the cursor position. The
// first sample only establishes the origin, so it reports no motion.
func (in *Input) Update(cursorX, cursorY float64) {
	x := int(math.Round(cursorX))
	y := int(math.Round(cursorY))
	if in.firstFrame {
		in.mouseX, in.mouseY = x, y
		in.firstFrame = false
	}
	in.moveX = x - in.mouseX
	in.moveY = y - in.mouseY
	in.mouseX, in.mouseY = x, y
}

// EndFrame clears per-frame state: motion and key presses.
func (in *Input) EndFrame() {
	in.moveX, in.moveY = 0, 0
	in.keysPressed = [KeyLast]bool{}
}

// ResetMouse forgets the last cursor position, e.g. after the cursor mode
// changed and positions jump.
func (in *Input) ResetMouse() {
	in.firstFrame = true
	in.moveX, in.moveY = 0, 0
}

// KeyDown reports whether key is currently held.
func (in *Input) KeyDown(key int) bool {
	if key < 0 || key >= len(in.keys) {
		return false
	}
	return in.keys[key]
}

// KeyPress reports whether key went down during this frame.
func (in *Input) KeyPress(key int) bool {
	if key < 0 || key >= len(in.keysPressed) {
		return false
	}
	return in.keysPressed[key]
}

// PressedKeys lists the keys that went down during this frame in key code
// order.
func (in *Input) PressedKeys() []int {
	var out []int
	for k, pressed := range in.keysPressed {
		if pressed {
			out = append(out, k)
		}
	}
	return out
}

func (in *Input) MouseButtonDown(button int) bool {
	if button < 0 || button >= len(in.mouseButtons) {
		return false
	}
	return in.mouseButtons[button]
}

// MouseMove returns the cursor motion in pixels since the previous frame.
func (in *Input) MouseMove() (dx, dy int) {
	return in.moveX, in.moveY
}

func (in *Input) MousePosition() (x, y int) {
	return in.mouseX, in.mouseY
}

func (in *Input) SetMouseVisible(visible bool) {
	if visible == in.mouseVisible {
		return
	}
	in.mouseVisible = visible
	if in.cursor != nil {
		in.cursor.SetCursorVisible(visible)
	}
	in.ResetMouse()
}

func (in *Input) IsMouseVisible() bool {
	return in.mouseVisible
}
