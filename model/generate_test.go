package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWellFormed(t *testing.T, g *Grid) {
	t.Helper()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Point{X: x, Y: y}
			if g.OnBorder(p) {
				require.Equal(t, Wall, g.At(p), "border cell %v", p)
			}
		}
	}
	assert.Equal(t, Path, g.At(g.Start()))
	assert.Equal(t, Path, g.At(g.Goal()))
	assert.True(t, Solvable(g), "maze not solvable:\n%s", g)
}

func TestGenerateWellFormed(t *testing.T) {
	sizes := [][2]int{{4, 4}, {5, 5}, {4, 9}, {10, 10}, {11, 7}, {15, 15}, {20, 20}, {21, 33}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 40; seed++ {
			gen := NewGenerator(seed)
			g, err := gen.Generate(size[0], size[1])
			require.NoError(t, err)
			require.Equal(t, size[0], g.Width)
			require.Equal(t, size[1], g.Height)
			require.Len(t, g.Cells, size[1])
			assertWellFormed(t, g)
		}
	}
}

func TestGenerateHeavyPruningStillSolvable(t *testing.T) {
	gen := NewGenerator(7)
	gen.Prune = 1
	gen.Braid = 0
	for i := 0; i < 50; i++ {
		g, err := gen.Generate(12, 9)
		require.NoError(t, err)
		assertWellFormed(t, g)
	}
}

func TestGenerateMinimum(t *testing.T) {
	g, err := NewGenerator(3).Generate(4, 4)
	require.NoError(t, err)
	assertWellFormed(t, g)
	assert.Equal(t, Point{X: 2, Y: 2}, g.Goal())
}

func TestGenerateRejectsSmallDimensions(t *testing.T) {
	for _, size := range [][2]int{{3, 10}, {10, 3}, {0, 0}, {-5, 8}} {
		_, err := NewGenerator(1).Generate(size[0], size[1])
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
}

func TestPerfectMazeWithoutDensify(t *testing.T) {
	gen := NewGenerator(42)
	gen.Braid, gen.Prune = 0, 0
	g, err := gen.Generate(11, 11)
	require.NoError(t, err)

	// a spanning tree over the 5x5 room lattice has rooms-1 corridors
	rooms, corridors := 0, 0
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			if g.At(Point{X: x, Y: y}) != Path {
				continue
			}
			if x%2 == 1 && y%2 == 1 {
				rooms++
			} else {
				corridors++
			}
		}
	}
	assert.Equal(t, 25, rooms)
	assert.Equal(t, 24, corridors)
}

func TestSolvableIdempotent(t *testing.T) {
	g, err := NewGenerator(9).Generate(15, 15)
	require.NoError(t, err)
	before := g.String()
	first := Solvable(g)
	second := Solvable(g)
	assert.Equal(t, first, second)
	assert.Equal(t, before, g.String())
}

func TestRepairOpensRing(t *testing.T) {
	g, err := NewGrid(8, 6)
	require.NoError(t, err)
	g.set(g.Start(), Path)
	g.set(g.Goal(), Path)
	require.False(t, Solvable(g))

	ensureSolvable(g)
	assertWellFormed(t, g)
	for x := 1; x < g.Width-1; x++ {
		assert.Equal(t, Path, g.At(Point{X: x, Y: 1}))
		assert.Equal(t, Path, g.At(Point{X: x, Y: g.Height - 2}))
	}
}

func TestShortestPath(t *testing.T) {
	g, err := ParseLevel(strings.NewReader(strings.Join([]string{
		"######",
		"#....#",
		"####.#",
		"#....#",
		"######",
	}, "\n")))
	require.NoError(t, err)
	path := ShortestPath(g, g.Start(), g.Goal())
	require.NotNil(t, path)
	assert.Equal(t, g.Start(), path[0])
	assert.Equal(t, g.Goal(), path[len(path)-1])
	assert.Len(t, path, 6)

	assert.Nil(t, ShortestPath(g, g.Start(), Point{X: 0, Y: 0}))
}

func TestLevelServesRequestedSize(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		w, h, err := d.Size()
		require.NoError(t, err)
		for _, chance := range []float64{0, 1} {
			gen := NewGenerator(5)
			gen.PredefinedChance = chance
			g, err := gen.Level(d)
			require.NoError(t, err)
			assert.Equal(t, w, g.Width)
			assert.Equal(t, h, g.Height)
			assertWellFormed(t, g)
		}
	}
	_, err := NewGenerator(1).Level(Difficulty(9))
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}

func TestLevelDoesNotLeakLibrary(t *testing.T) {
	gen := NewGenerator(1)
	gen.PredefinedChance = 1
	g, err := gen.Level(Easy)
	require.NoError(t, err)
	for y := range g.Cells {
		for x := range g.Cells[y] {
			g.Cells[y][x] = Path
		}
	}
	for _, lv := range gen.Levels(Easy) {
		assert.Equal(t, Wall, lv.At(Point{X: 0, Y: 0}))
	}
}
