// Package input turns keyboard, drag and tilt events into ball moves and
// hands the latest one to the simulation tick.
package input

import (
	"sync/atomic"

	"github.com/zucenko/tiltmaze/ball"
)

type slotValue struct {
	move ball.Move
}

// Slot holds the latest move. Writers overwrite, the tick reads; neither
// blocks and nothing is queued, so when two events land in the same frame
// the later Store wins.
type Slot struct {
	v atomic.Value
}

func (s *Slot) Store(m ball.Move) {
	if a, ok := m.(ball.Analog); ok {
		m = a.Sanitized()
	}
	s.v.Store(slotValue{move: m})
}

// Load returns the latest move, or ball.Stop if nothing was stored.
func (s *Slot) Load() ball.Move {
	v, ok := s.v.Load().(slotValue)
	if !ok || v.move == nil {
		return ball.Stop
	}
	return v.move
}
