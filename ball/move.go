package ball

import (
	"fmt"
	"math"
	"strings"
)

type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

func (d Direction) Name() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("n/a:%d", int(d))
	}
}

func (d Direction) String() string {
	return d.Name()
}

// ParseDirection accepts the names produced by Name. Anything else is None.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up
	case "down":
		return Down
	case "left":
		return Left
	case "right":
		return Right
	default:
		return None
	}
}

// Move is what the ball consumes once per tick: Directional or Analog.
type Move interface {
	move()
}

// Directional is a digital input such as a held key.
type Directional struct {
	Dir Direction
}

// Analog is a tilt or drag vector, each component in [-1, 1].
type Analog struct {
	X, Y float64
}

func (Directional) move() {}
func (Analog) move() {}

// Stop is the move that does nothing.
var Stop Move = Directional{Dir: None}

func Dir(d Direction) Move {
	return Directional{Dir: d}
}

// NewAnalog builds a sanitized analog move.
func NewAnalog(x, y float64) Analog {
	return Analog{X: x, Y: y}.Sanitized()
}

// Sanitized drops non-finite components and clamps the rest into [-1, 1].
func (a Analog) Sanitized() Analog {
	return Analog{X: unit(a.X), Y: unit(a.Y)}
}

func (a Analog) Zero() bool {
	return a.X == 0 && a.Y == 0
}

func unit(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
