package input

import (
	"strings"

	"github.com/zucenko/tiltmaze/ball"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
)

func (k Key) Direction() ball.Direction {
	switch k {
	case KeyUp, KeyW:
		return ball.Up
	case KeyDown, KeyS:
		return ball.Down
	case KeyLeft, KeyA:
		return ball.Left
	case KeyRight, KeyD:
		return ball.Right
	default:
		return ball.None
	}
}

// ParseKey understands both browser key names ("ArrowUp", "w") and key
// codes ("KeyW").
func ParseKey(name string) Key {
	switch name {
	case "ArrowUp", "Up":
		return KeyUp
	case "ArrowDown", "Down":
		return KeyDown
	case "ArrowLeft", "Left":
		return KeyLeft
	case "ArrowRight", "Right":
		return KeyRight
	}
	switch strings.ToLower(strings.TrimPrefix(name, "Key")) {
	case "w":
		return KeyW
	case "a":
		return KeyA
	case "s":
		return KeyS
	case "d":
		return KeyD
	}
	return KeyUnknown
}

// Keyboard tracks held keys. The most recently pressed key that is still
// down decides the direction.
type Keyboard struct {
	held []Key
}

func (kb *Keyboard) Press(k Key) {
	if k.Direction() == ball.None {
		return
	}
	kb.Release(k)
	kb.held = append(kb.held, k)
}

func (kb *Keyboard) Release(k Key) {
	for i, h := range kb.held {
		if h == k {
			kb.held = append(kb.held[:i], kb.held[i+1:]...)
			return
		}
	}
}

func (kb *Keyboard) Reset() {
	kb.held = kb.held[:0]
}

func (kb *Keyboard) Direction() ball.Direction {
	if len(kb.held) == 0 {
		return ball.None
	}
	return kb.held[len(kb.held)-1].Direction()
}

func (kb *Keyboard) Move() ball.Move {
	return ball.Dir(kb.Direction())
}
