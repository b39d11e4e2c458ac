package input

import (
	"math"

	"github.com/zucenko/tiltmaze/ball"
)

// StrokeSource represents a input device to provide strokes.
type StrokeSource interface {
	Position() (int, int)
	IsJustReleased() bool
}

type DragConfig struct {
	CellSize float64 `yaml:"cell_size"`
	// DragCells is how many cells of drag give full deflection.
	DragCells float64 `yaml:"drag_cells"`
	// DeadZone in pixels.
	DeadZone float64 `yaml:"dead_zone"`
}

func DefaultDragConfig() DragConfig {
	return DragConfig{CellSize: 40, DragCells: 2, DeadZone: 6}
}

// ForCell returns the config for cells drawn cellPx pixels wide, so a full
// deflection spans DragCells on-screen cells at any zoom.
func (c DragConfig) ForCell(cellPx float64) DragConfig {
	if cellPx > 0 && !math.IsInf(cellPx, 0) {
		c.CellSize = cellPx
	}
	return c
}

// Stroke manages the current drag state of a mouse button or a touch.
type Stroke struct {
	source StrokeSource

	// initX and initY represents the position when dragging starts.
	initX int
	initY int

	// currentX and currentY represents the current position
	currentX int
	currentY int

	released bool
}

func NewStroke(source StrokeSource) *Stroke {
	cx, cy := source.Position()
	return &Stroke{
		source:   source,
		initX:    cx,
		initY:    cy,
		currentX: cx,
		currentY: cy,
	}
}

func (s *Stroke) Update() {
	if s.released {
		return
	}
	if s.source.IsJustReleased() {
		s.released = true
		return
	}
	x, y := s.source.Position()
	s.currentX = x
	s.currentY = y
}

func (s *Stroke) IsReleased() bool {
	return s.released
}

func (s *Stroke) Position() (int, int) {
	return s.currentX, s.currentY
}

func (s *Stroke) PositionDiff() (int, int) {
	dx := s.currentX - s.initX
	dy := s.currentY - s.initY
	return dx, dy
}

// Move projects the drag onto its dominant axis.
func (s *Stroke) Move(cfg DragConfig) ball.Move {
	if s.released {
		return ball.Stop
	}
	dx, dy := s.PositionDiff()
	return DragMove(float64(dx), float64(dy), cfg)
}

// DragMove turns a drag delta in pixels into an analog move along its
// dominant axis. Deltas inside the dead zone stop the ball.
func DragMove(dx, dy float64, cfg DragConfig) ball.Move {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return ball.Stop
	}
	full := cfg.CellSize * cfg.DragCells
	if full <= 0 {
		d := DefaultDragConfig()
		full = d.CellSize * d.DragCells
	}
	if math.Hypot(dx, dy) <= cfg.DeadZone {
		return ball.Stop
	}
	if math.Abs(dx) >= math.Abs(dy) {
		return ball.NewAnalog(dx/full, 0)
	}
	return ball.NewAnalog(0, dy/full)
}
