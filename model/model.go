package model

import (
	"errors"
	"fmt"
	"strings"
)

type Cell uint8

const (
	Path Cell = iota
	Wall
)

// MinSize is the smallest width or height that keeps start and goal distinct
// and inside the border.
const MinSize = 4

var ErrInvalidDimensions = errors.New("invalid maze dimensions")

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Grid is a Height x Width occupancy matrix, indexed Cells[row][col].
type Grid struct {
	Width, Height int
	Cells         [][]Cell
}

func checkSize(width, height int) error {
	if width < MinSize || height < MinSize {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrInvalidDimensions, width, height, MinSize, MinSize)
	}
	return nil
}

// NewGrid returns a grid filled with walls.
func NewGrid(width, height int) (*Grid, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	cells := make([][]Cell, height)
	for r := range cells {
		row := make([]Cell, width)
		for c := range row {
			row[c] = Wall
		}
		cells[r] = row
	}
	return &Grid{Width: width, Height: height, Cells: cells}, nil
}

func (g *Grid) Start() Point {
	return Point{X: 1, Y: 1}
}

func (g *Grid) Goal() Point {
	return Point{X: g.Width - 2, Y: g.Height - 2}
}

func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

func (g *Grid) OnBorder(p Point) bool {
	return p.X == 0 || p.Y == 0 || p.X == g.Width-1 || p.Y == g.Height-1
}

// At reports the cell at p. Anything outside the grid is a wall.
func (g *Grid) At(p Point) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g.Cells[p.Y][p.X]
}

func (g *Grid) IsWall(x, y int) bool {
	return g.At(Point{X: x, Y: y}) == Wall
}

func (g *Grid) set(p Point, c Cell) {
	g.Cells[p.Y][p.X] = c
}

// Neighbours returns the in-bounds 4-neighbours of p.
func (g *Grid) Neighbours(p Point) []Point {
	out := make([]Point, 0, 4)
	for _, d := range steps {
		n := Point{X: p.X + d.X, Y: p.Y + d.Y}
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Grid) pathNeighbours(p Point) int {
	n := 0
	for _, q := range g.Neighbours(p) {
		if g.At(q) == Path {
			n++
		}
	}
	return n
}

func (g *Grid) Clone() *Grid {
	cells := make([][]Cell, g.Height)
	for r := range g.Cells {
		cells[r] = append([]Cell(nil), g.Cells[r]...)
	}
	return &Grid{Width: g.Width, Height: g.Height, Cells: cells}
}

// String renders the grid in the level text format.
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.Rows() {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

var steps = [4]Point{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
