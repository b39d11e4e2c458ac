package ball

import (
	"errors"
	"fmt"
	"math"

	"github.com/zucenko/tiltmaze/model"
)

var ErrInvalidParams = errors.New("invalid ball parameters")

type Params struct {
	// Radius in grid units.
	Radius float64 `yaml:"radius"`
	// Speed in pixels per second; CellSize converts it to grid units.
	Speed    float64 `yaml:"speed"`
	CellSize float64 `yaml:"cell_size"`
	// Sensitivity scales analog moves.
	Sensitivity    float64 `yaml:"sensitivity"`
	CooldownMs     float64 `yaml:"cooldown_ms"`
	TrailCapacity  int     `yaml:"trail_capacity"`
	ParticleCount  int     `yaml:"particle_count"`
	ParticleLifeMs float64 `yaml:"particle_life_ms"`
	// ParticleSpeed in grid units per second.
	ParticleSpeed float64 `yaml:"particle_speed"`
}

func DefaultParams() Params {
	return Params{
		Radius:         0.3,
		Speed:          200,
		CellSize:       40,
		Sensitivity:    1,
		CooldownMs:     100,
		TrailCapacity:  20,
		ParticleCount:  8,
		ParticleLifeMs: 300,
		ParticleSpeed:  2,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.Radius > 0 && p.Radius < 0.5):
		return fmt.Errorf("%w: radius %v must be in (0, 0.5)", ErrInvalidParams, p.Radius)
	case !(p.CellSize > 0):
		return fmt.Errorf("%w: cell size %v", ErrInvalidParams, p.CellSize)
	case p.Speed < 0 || math.IsInf(p.Speed, 0) || math.IsNaN(p.Speed):
		return fmt.Errorf("%w: speed %v", ErrInvalidParams, p.Speed)
	case p.Sensitivity < 0:
		return fmt.Errorf("%w: sensitivity %v", ErrInvalidParams, p.Sensitivity)
	case p.CooldownMs < 0:
		return fmt.Errorf("%w: cooldown %v", ErrInvalidParams, p.CooldownMs)
	case p.TrailCapacity < 0 || p.ParticleCount < 0 || p.ParticleLifeMs < 0:
		return fmt.Errorf("%w: negative trail or particle setting", ErrInvalidParams)
	}
	return nil
}

type State int

const (
	FreeMoving State = iota
	Colliding
)

func (s State) Name() string {
	switch s {
	case FreeMoving:
		return "FREE_MOVING"
	case Colliding:
		return "COLLIDING"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// Outcome describes one Advance. Bumped is the collision event: it is set
// only when a rejected move also started a new cooldown.
type Outcome struct {
	Moved   bool
	Blocked bool
	Bumped  bool
}

// Ball is the player agent. Its centre sits at (X, Y) in grid units, cell
// (c, r) being centred on (c, r). Only the simulation tick mutates it.
type Ball struct {
	X, Y     float64
	Radius   float64
	Speed    float64
	Cooldown float64

	params    Params
	trail     *Trail
	particles []Particle
}

func New(start model.Point, params Params) *Ball {
	return &Ball{
		X:      float64(start.X),
		Y:      float64(start.Y),
		Radius: params.Radius,
		Speed:  params.Speed,
		params: params,
		trail:  NewTrail(params.TrailCapacity),
	}
}

func (b *Ball) Params() Params { return b.params }
func (b *Ball) Trail() []Vec { return b.trail.Points() }

func (b *Ball) Position() Vec {
	return Vec{X: b.X, Y: b.Y}
}

func (b *Ball) State() State {
	if b.Cooldown > 0 {
		return Colliding
	}
	return FreeMoving
}

// SetSpeed changes the movement speed, in pixels per second. Negative or
// non-finite values are ignored.
func (b *Ball) SetSpeed(speed float64) {
	if speed < 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return
	}
	b.Speed = speed
}

func (b *Ball) ResetSpeed() {
	b.Speed = b.params.Speed
}

// ApplyCooldown runs the collision cooldown down, never below zero.
func (b *Ball) ApplyCooldown(elapsedMs float64) {
	b.Cooldown = math.Max(0, b.Cooldown-sanitizeElapsed(elapsedMs))
}

// Advance moves the ball for one tick. A move that would overlap a wall is
// dropped as a whole; the ball never slides along the wall.
func (b *Ball) Advance(m Move, elapsedMs float64, g *model.Grid) Outcome {
	elapsedMs = sanitizeElapsed(elapsedMs)
	b.ApplyCooldown(elapsedMs)
	b.ageParticles(elapsedMs)

	var out Outcome
	dx, dy := b.displacement(m, elapsedMs)
	if dx != 0 || dy != 0 {
		nx, ny := b.X+dx, b.Y+dy
		if Collides(g, nx, ny, b.Radius) {
			out.Blocked = true
			if b.Cooldown <= 0 {
				b.Cooldown = b.params.CooldownMs
				b.spawnParticles()
				out.Bumped = true
			}
		} else {
			b.X, b.Y = nx, ny
			b.trail.Push(b.Position())
			out.Moved = true
		}
	}
	b.clamp(g)
	return out
}

func (b *Ball) displacement(m Move, elapsedMs float64) (float64, float64) {
	cell := b.params.CellSize
	if cell <= 0 {
		cell = DefaultParams().CellSize
	}
	units := b.Speed * elapsedMs / 1000 / cell
	switch mv := m.(type) {
	case nil:
		return 0, 0
	case Directional:
		switch mv.Dir {
		case Up:
			return 0, -units
		case Down:
			return 0, units
		case Left:
			return -units, 0
		case Right:
			return units, 0
		default:
			return 0, 0
		}
	case Analog:
		a := mv.Sanitized()
		k := units * b.params.Sensitivity
		return a.X * k, a.Y * k
	default:
		panic(fmt.Sprintf("ball: unhandled move %T", m))
	}
}

func (b *Ball) clamp(g *model.Grid) {
	b.X = clampRange(b.X, b.Radius, float64(g.Width-1)-b.Radius)
	b.Y = clampRange(b.Y, b.Radius, float64(g.Height-1)-b.Radius)
}

// Collides tests the square of side 2r centred on (x, y) against the walls
// of g. Everything outside the grid counts as wall.
func Collides(g *model.Grid, x, y, r float64) bool {
	left, right := x-r, x+r
	top, bottom := y-r, y+r
	if left < -0.5 || top < -0.5 || right > float64(g.Width)-0.5 || bottom > float64(g.Height)-0.5 {
		return true
	}
	for cy := int(math.Floor(top)); cy <= int(math.Ceil(bottom)); cy++ {
		for cx := int(math.Floor(left)); cx <= int(math.Ceil(right)); cx++ {
			if !g.IsWall(cx, cy) {
				continue
			}
			if left < float64(cx)+0.5 && right > float64(cx)-0.5 &&
				top < float64(cy)+0.5 && bottom > float64(cy)-0.5 {
				return true
			}
		}
	}
	return false
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func sanitizeElapsed(ms float64) float64 {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0
	}
	return ms
}
