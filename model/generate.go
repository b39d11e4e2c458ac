package model

import (
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultBraid            = 0.05
	DefaultPrune            = 0.10
	DefaultPredefinedChance = 0.7

	// cells this close to start or goal are never walled back in
	pruneGuard = 3
)

type Generator struct {
	// Braid is the chance for a wall touching a path to be opened.
	Braid float64
	// Prune is the chance for a well connected path cell to be closed.
	Prune float64
	// PredefinedChance is the chance Level serves a hand-authored level.
	PredefinedChance float64

	rng    *rand.Rand
	levels map[Difficulty][]*Grid
}

// NewGenerator seeds its own source; seed 0 picks one from the clock.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		Braid:            DefaultBraid,
		Prune:            DefaultPrune,
		PredefinedChance: DefaultPredefinedChance,
		rng:              rand.New(rand.NewSource(seed)),
		levels:           builtinLevels(),
	}
}

// Generate carves a random maze. The returned grid always has a path from
// Start to Goal.
func (gen *Generator) Generate(width, height int) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	gen.carve(g, g.Start())
	g.set(g.Start(), Path)
	g.set(g.Goal(), Path)
	gen.densify(g)
	ensureSolvable(g)
	return g, nil
}

// Level returns a grid for the difficulty, either one of the predefined
// levels or a freshly generated one.
func (gen *Generator) Level(d Difficulty) (*Grid, error) {
	w, h, err := d.Size()
	if err != nil {
		return nil, err
	}
	if lv := gen.levels[d]; len(lv) > 0 && gen.rng.Float64() < gen.PredefinedChance {
		g := lv[gen.rng.Intn(len(lv))].Clone()
		log.Debugf("serving predefined %s level", d)
		ensureSolvable(g)
		return g, nil
	}
	return gen.Generate(w, h)
}

type carveFrame struct {
	at   Point
	dirs [4]Point
	next int
}

func (gen *Generator) frame(p Point) carveFrame {
	f := carveFrame{at: p}
	for i, d := range steps {
		f.dirs[i] = Point{X: d.X * 2, Y: d.Y * 2}
	}
	gen.rng.Shuffle(len(f.dirs), func(i, j int) {
		f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i]
	})
	return f
}

// carve runs the recursive backtracker with an explicit stack. Each frame
// walks its own shuffled direction list, like the recursive version would.
func (gen *Generator) carve(g *Grid, start Point) {
	g.set(start, Path)
	stack := []carveFrame{gen.frame(start)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.dirs) {
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.dirs[top.next]
		top.next++
		n := Point{X: top.at.X + d.X, Y: top.at.Y + d.Y}
		if !g.InBounds(n) || g.OnBorder(n) || g.At(n) == Path {
			continue
		}
		g.set(Point{X: top.at.X + d.X/2, Y: top.at.Y + d.Y/2}, Path)
		g.set(n, Path)
		stack = append(stack, gen.frame(n))
	}
}

func (gen *Generator) densify(g *Grid) {
	start, goal := g.Start(), g.Goal()
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			p := Point{X: x, Y: y}
			if g.At(p) == Wall && g.pathNeighbours(p) > 0 && gen.rng.Float64() < gen.Braid {
				g.set(p, Path)
			}
		}
	}
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			p := Point{X: x, Y: y}
			if g.At(p) != Path || g.pathNeighbours(p) < 2 {
				continue
			}
			if p.Manhattan(start) <= pruneGuard || p.Manhattan(goal) <= pruneGuard {
				continue
			}
			if gen.rng.Float64() < gen.Prune {
				g.set(p, Wall)
			}
		}
	}
}
