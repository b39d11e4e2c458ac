// Package game owns a single play session: the maze, the ball, the input
// slot and the win check.
package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/input"
	"github.com/zucenko/tiltmaze/model"
)

var ErrUnsolvable = errors.New("maze has no route from start to goal")

type State int

const (
	PLAYING State = iota + 1
	WON
)

func (s State) Name() string {
	switch s {
	case PLAYING:
		return "PLAYING"
	case WON:
		return "WON"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// Tick reports what one call to Session.Tick did.
type Tick struct {
	ball.Outcome
	// Won is set on the tick the ball reached the goal.
	Won bool
}

type Session struct {
	ID string

	cfg        Config
	gen        *model.Generator
	difficulty model.Difficulty
	grid       *model.Grid
	ball       *ball.Ball
	input      input.Slot
	state      State
	ticks      uint64
	elapsed    float64
	bumps      int
	lastBump   bool
}

// New validates cfg and starts a session on a fresh maze. gen may be nil, in
// which case one is built from cfg.
func New(cfg Config, gen *model.Generator) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, _ := model.ParseDifficulty(cfg.Difficulty)
	if gen == nil {
		gen = cfg.NewGenerator()
	}
	s := &Session{
		ID:         uuid.New().String(),
		cfg:        cfg,
		gen:        gen,
		difficulty: d,
	}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// Restart throws the current maze away and starts over on a new one.
func (s *Session) Restart() error {
	g, err := s.gen.Level(s.difficulty)
	if err != nil {
		return err
	}
	s.reset(g)
	return nil
}

func (s *Session) SetDifficulty(d model.Difficulty) error {
	if _, _, err := d.Size(); err != nil {
		return err
	}
	s.difficulty = d
	return s.Restart()
}

// UseGrid starts over on a caller supplied maze.
func (s *Session) UseGrid(g *model.Grid) error {
	if !model.Solvable(g) {
		return ErrUnsolvable
	}
	s.reset(g.Clone())
	return nil
}

func (s *Session) reset(g *model.Grid) {
	s.grid = g
	s.ball = ball.New(g.Start(), s.cfg.Ball)
	s.input.Store(ball.Stop)
	s.state = PLAYING
	s.ticks, s.elapsed, s.bumps = 0, 0, 0
	s.lastBump = false
	log.WithFields(log.Fields{
		"session":    s.ID,
		"difficulty": s.difficulty.Name(),
		"size":       fmt.Sprintf("%dx%d", g.Width, g.Height),
	}).Info("session started")
}

// Tick advances the session by elapsedMs using the latest input.
func (s *Session) Tick(elapsedMs float64) Tick {
	if s.state != PLAYING {
		return Tick{}
	}
	out := s.ball.Advance(s.input.Load(), elapsedMs, s.grid)
	s.ticks++
	if elapsedMs > 0 && !math.IsInf(elapsedMs, 0) {
		s.elapsed += elapsedMs
	}
	s.lastBump = out.Bumped
	if out.Bumped {
		s.bumps++
	}
	res := Tick{Outcome: out}
	if s.atGoal() {
		s.state = WON
		res.Won = true
		log.WithFields(log.Fields{
			"session": s.ID,
			"ms":      int(s.elapsed),
			"bumps":   s.bumps,
		}).Info("goal reached")
	}
	return res
}

func (s *Session) atGoal() bool {
	goal := s.grid.Goal()
	tol := s.cfg.WinTolerance
	return math.Abs(s.ball.X-float64(goal.X)) < tol && math.Abs(s.ball.Y-float64(goal.Y)) < tol
}

func (s *Session) Config() Config { return s.cfg }
func (s *Session) Input() *input.Slot { return &s.input }
func (s *Session) Grid() *model.Grid { return s.grid }
func (s *Session) Ball() *ball.Ball { return s.ball }
func (s *Session) Goal() model.Point { return s.grid.Goal() }
func (s *Session) State() State { return s.state }
func (s *Session) Won() bool { return s.state == WON }
func (s *Session) Difficulty() model.Difficulty { return s.difficulty }
func (s *Session) ElapsedMs() float64 { return s.elapsed }
func (s *Session) Bumps() int { return s.bumps }
func (s *Session) Generator() *model.Generator { return s.gen }

func (s *Session) Setup() model.Setup {
	return model.Setup{
		SessionID:  s.ID,
		Difficulty: s.difficulty.Name(),
		Width:      s.grid.Width,
		Height:     s.grid.Height,
		Rows:       s.grid.Rows(),
		Start:      s.grid.Start(),
		Goal:       s.grid.Goal(),
		CellSize:   s.cfg.Ball.CellSize,
		Radius:     s.ball.Radius,
	}
}

func (s *Session) Snapshot() model.Snapshot {
	trail := s.ball.Trail()
	pts := make([][2]float64, len(trail))
	for i, p := range trail {
		pts[i] = [2]float64{p.X, p.Y}
	}
	var sparks []model.Spark
	for _, p := range s.ball.Particles() {
		sparks = append(sparks, model.Spark{X: p.X, Y: p.Y, Life: p.Life})
	}
	return model.Snapshot{
		Tick:      s.ticks,
		X:         s.ball.X,
		Y:         s.ball.Y,
		Cooldown:  s.ball.Cooldown,
		Colliding: s.ball.State() == ball.Colliding,
		Bumped:    s.lastBump,
		Trail:     pts,
		Sparks:    sparks,
		State:     s.state.Name(),
		ElapsedMs: s.elapsed,
		Bumps:     s.bumps,
	}
}
