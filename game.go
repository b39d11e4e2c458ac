package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/game"
	"github.com/zucenko/tiltmaze/input"
	"github.com/zucenko/tiltmaze/model"
)

const (
	boardSize = 600
	hudHeight = 40
)

var (
	colorFloor = color.RGBA{24, 24, 28, 255}
	colorWall  = color.RGBA{90, 90, 104, 255}
	colorGoal  = color.RGBA{10, 189, 56, 255}
	colorBall  = color.RGBA{52, 170, 250, 255}
	colorBump  = color.RGBA{250, 54, 54, 255}
	colorTrail = color.NRGBA{52, 170, 250, 70}
	colorSpark = color.NRGBA{237, 188, 30, 255}
)

// MouseStrokeSource is a StrokeSource implementation of mouse.
type MouseStrokeSource struct{}

func (m *MouseStrokeSource) Position() (int, int) {
	return ebiten.CursorPosition()
}

func (m *MouseStrokeSource) IsJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// TouchStrokeSource is a StrokeSource implementation of touch.
type TouchStrokeSource struct {
	ID int
}

func (t *TouchStrokeSource) Position() (int, int) {
	return ebiten.TouchPosition(t.ID)
}

func (t *TouchStrokeSource) IsJustReleased() bool {
	return inpututil.IsTouchJustReleased(t.ID)
}

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyUp:    input.KeyUp,
	ebiten.KeyDown:  input.KeyDown,
	ebiten.KeyLeft:  input.KeyLeft,
	ebiten.KeyRight: input.KeyRight,
	ebiten.KeyW:     input.KeyW,
	ebiten.KeyA:     input.KeyA,
	ebiten.KeyS:     input.KeyS,
	ebiten.KeyD:     input.KeyD,
}

var difficultyKeys = map[ebiten.Key]model.Difficulty{
	ebiten.Key1: model.Easy,
	ebiten.Key2: model.Medium,
	ebiten.Key3: model.Hard,
}

type Game struct {
	Session *game.Session
	Keys    input.Keyboard
	Tweens  map[*gween.Tween]*Action

	strokes map[*input.Stroke]struct{}
	drag    input.DragConfig
	tickMs  float64

	overlay    float32
	bannerY    float32
	bannerDone bool
}

var Font font.Face

func init() {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	const dpi = 72
	Font = truetype.NewFace(tt, &truetype.Options{
		Size:    28,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

func NewGame(cfg game.Config) (*Game, error) {
	session, err := game.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	g := &Game{
		Session: session,
		strokes: map[*input.Stroke]struct{}{},
		drag:    cfg.Drag,
		tickMs:  cfg.TickMs(),
	}
	g.clearTweens()
	return g, nil
}

func (g *Game) cellPx() float64 {
	grid := g.Session.Grid()
	w, h := grid.Width, grid.Height
	if h > w {
		w = h
	}
	return float64(boardSize) / float64(w)
}

func (g *Game) updateKeys() {
	changed := false
	for ek, k := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			g.Keys.Press(k)
			changed = true
		}
		if inpututil.IsKeyJustReleased(ek) {
			g.Keys.Release(k)
			changed = true
		}
	}
	if changed {
		g.Session.Input().Store(g.Keys.Move())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart(g.Session.Restart())
	}
	for ek, d := range difficultyKeys {
		if inpututil.IsKeyJustPressed(ek) {
			g.restart(g.Session.SetDifficulty(d))
		}
	}
}

func (g *Game) restart(err error) {
	if err != nil {
		log.Warnf("restart: %v", err)
		return
	}
	g.Keys.Reset()
	g.strokes = map[*input.Stroke]struct{}{}
	g.clearTweens()
}

func (g *Game) updateStrokes() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.strokes[input.NewStroke(&MouseStrokeSource{})] = struct{}{}
	}
	for _, id := range inpututil.JustPressedTouchIDs() {
		g.strokes[input.NewStroke(&TouchStrokeSource{id})] = struct{}{}
	}

	slot := g.Session.Input()
	for s := range g.strokes {
		s.Update()
		if s.IsReleased() {
			delete(g.strokes, s)
			slot.Store(g.Keys.Move())
			continue
		}
		slot.Store(s.Move(g.drag.ForCell(g.cellPx())))
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.updateKeys()
	g.updateStrokes()

	if tk := g.Session.Tick(g.tickMs); tk.Won {
		g.celebrate()
	}
	g.updateTweens(float32(g.tickMs / 1000))

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	g.draw(screen)
	return nil
}

func (g *Game) draw(screen *ebiten.Image) {
	if err := screen.Fill(colorFloor); err != nil {
		log.Printf("%v", err)
	}
	px := g.cellPx()
	grid := g.Session.Grid()
	// cell (c,r) covers [c-0.5, c+0.5] in grid units
	at := func(x, y float64) (float64, float64) {
		return (x + 0.5) * px, hudHeight + (y+0.5)*px
	}

	for r := 0; r < grid.Height; r++ {
		for c := 0; c < grid.Width; c++ {
			if grid.IsWall(c, r) {
				x, y := at(float64(c)-0.5, float64(r)-0.5)
				ebitenutil.DrawRect(screen, x, y, px, px, colorWall)
			}
		}
	}
	goal := g.Session.Goal()
	gx, gy := at(float64(goal.X)-0.35, float64(goal.Y)-0.35)
	ebitenutil.DrawRect(screen, gx, gy, px*0.7, px*0.7, colorGoal)

	b := g.Session.Ball()
	tr := b.Radius * px * 0.5
	for _, p := range b.Trail() {
		x, y := at(p.X, p.Y)
		ebitenutil.DrawRect(screen, x-tr/2, y-tr/2, tr, tr, colorTrail)
	}
	lifeMs := b.Params().ParticleLifeMs
	for _, p := range b.Particles() {
		x, y := at(p.X, p.Y)
		life := p.Life / lifeMs
		s := 2 + 4*life
		spark := colorSpark
		spark.A = uint8(255 * life)
		ebitenutil.DrawRect(screen, x-s/2, y-s/2, s, s, spark)
	}

	fill := colorBall
	if b.State() == ball.Colliding {
		fill = colorBump
	}
	bx, by := at(b.X, b.Y)
	br := b.Radius * px
	ebitenutil.DrawRect(screen, bx-br, by-br, 2*br, 2*br, fill)

	hud := fmt.Sprintf("%s  %.1fs  bumps %d", g.Session.Difficulty().Name(), g.Session.ElapsedMs()/1000, g.Session.Bumps())
	text.Draw(screen, hud, Font, 10, 30, color.White)

	if g.Session.Won() {
		ebitenutil.DrawRect(screen, 0, 0, boardSize, boardSize+hudHeight, color.RGBA{0, 0, 0, uint8(255 * g.overlay)})
		text.Draw(screen, "You made it!", Font, boardSize/2-80, boardSize/2+int(g.bannerY), colorGoal)
		if g.bannerDone {
			ebitenutil.DebugPrintAt(screen, "R restart  1/2/3 difficulty", boardSize/2-80, boardSize/2+30)
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file: %v", err)
	}
	cfg, err := game.LoadConfig(os.Getenv("MAZE_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	theGame, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetMaxTPS(int(cfg.TickHz))
	if err := ebiten.Run(theGame.update, boardSize, boardSize+hudHeight, 1, "Tilt Maze"); err != nil {
		log.Fatal(err)
	}
}
