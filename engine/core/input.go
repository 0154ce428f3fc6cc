package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

func (b Button) String() string {
	switch b {
	case BUTTON_LEFT:
		return "left"
	case BUTTON_RIGHT:
		return "right"
	case BUTTON_MIDDLE:
		return "middle"
	}
	return "unknown"
}

// FlipY converts a window y coordinate, measured from the top, into the
// bottom-origin convention used by the manipulation code.
func FlipY(y, windowHeight int) float64 {
	return float64(windowHeight - y - 1)
}

// Mouse state structure. X and Y hold the last position that was seen,
// already flipped to a bottom-origin convention.
type MouseState struct {
	X       float64
	Y       float64
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// ProcessButton records a press or release at window position (x, y).
func (s *MouseState) ProcessButton(button Button, pressed bool, x, y, windowHeight int) {
	s.X = float64(x)
	s.Y = FlipY(y, windowHeight)
	if button < BUTTON_MAX_BUTTONS {
		s.Buttons[button] = pressed
	}
}

// ProcessMove returns the delta from the last seen position to (x, y) and
// then remembers (x, y).
func (s *MouseState) ProcessMove(x, y, windowHeight int) (dx, dy float64) {
	nx, ny := float64(x), FlipY(y, windowHeight)
	dx, dy = nx-s.X, ny-s.Y
	s.X, s.Y = nx, ny
	return dx, dy
}

func (s MouseState) IsButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && s.Buttons[button]
}

// AnyButtonDown reports whether a drag is in progress.
func (s MouseState) AnyButtonDown() bool {
	for _, down := range s.Buttons {
		if down {
			return true
		}
	}
	return false
}

// LeftOnly is true for a left drag without the right button.
func (s MouseState) LeftOnly() bool {
	return s.IsButtonDown(BUTTON_LEFT) && !s.IsButtonDown(BUTTON_RIGHT)
}

// RightOnly is true for a right drag without the left button.
func (s MouseState) RightOnly() bool {
	return s.IsButtonDown(BUTTON_RIGHT) && !s.IsButtonDown(BUTTON_LEFT)
}

// DepthDrag is true for a middle drag or a left+right drag.
func (s MouseState) DepthDrag() bool {
	return s.IsButtonDown(BUTTON_MIDDLE) || (s.IsButtonDown(BUTTON_LEFT) && s.IsButtonDown(BUTTON_RIGHT))
}
