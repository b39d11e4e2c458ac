package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/game"
	"github.com/zucenko/tiltmaze/model"
)

func openSession(t *testing.T) *game.Session {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Maze.Seed = 5
	s, err := game.New(cfg, nil)
	require.NoError(t, err)
	g, err := model.ParseLevel(strings.NewReader("######\n#....#\n#....#\n#....#\n#....#\n######\n"))
	require.NoError(t, err)
	require.NoError(t, s.UseGrid(g))
	return s
}

func TestKeyMove(t *testing.T) {
	m, ok := keyMove(tcell.KeyRight, 0)
	require.True(t, ok)
	assert.Equal(t, ball.Dir(ball.Right), m)

	m, ok = keyMove(tcell.KeyRune, 'w')
	require.True(t, ok)
	assert.Equal(t, ball.Dir(ball.Up), m)

	m, ok = keyMove(tcell.KeyRune, ' ')
	require.True(t, ok)
	assert.Equal(t, ball.Stop, m)

	_, ok = keyMove(tcell.KeyRune, 'x')
	assert.False(t, ok)
	_, ok = keyMove(tcell.KeyTab, 0)
	assert.False(t, ok)
}

func TestKeyHandling(t *testing.T) {
	g := &termGame{session: openSession(t)}

	assert.True(t, g.key(tcell.KeyLeft, 0))
	assert.Equal(t, ball.Dir(ball.Left), g.session.Input().Load())

	assert.True(t, g.key(tcell.KeyRune, '2'))
	assert.Equal(t, model.Medium, g.session.Difficulty())
	assert.Equal(t, 15, g.session.Grid().Width)

	assert.False(t, g.key(tcell.KeyRune, 'q'))
	assert.False(t, g.key(tcell.KeyEscape, 0))
}

func TestDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)

	s := openSession(t)
	draw(screen, s)

	_, _, style, _ := screen.GetContent(0, 1)
	assert.Equal(t, styleWall, style)

	ch, _, style, _ := screen.GetContent(2, 2)
	assert.Equal(t, '●', ch)
	assert.Equal(t, styleBall, style)

	ch, _, _, _ = screen.GetContent(8, 5)
	assert.Equal(t, '[', ch)

	ch, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, 'e', ch)
}

func TestCellAt(t *testing.T) {
	x, y := cellAt(3, 2)
	assert.Equal(t, 6, x)
	assert.Equal(t, 3, y)
	x, _ = cellAt(3.3, 2)
	assert.Equal(t, 7, x)
}
