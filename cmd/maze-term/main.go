// Command maze-term plays the maze in a terminal. Arrow keys or WASD set the
// rolling direction, space stops, r restarts, 1/2/3 pick the difficulty.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/tiltmaze/audio"
	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/game"
	"github.com/zucenko/tiltmaze/input"
	"github.com/zucenko/tiltmaze/model"
)

var (
	styleWall  = tcell.StyleDefault.Background(tcell.ColorGray)
	styleGoal  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBall  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBump  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleTrail = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleSpark = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

type termGame struct {
	screen  tcell.Screen
	session *game.Session
	sound   *audio.Player
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	difficulty := flag.String("difficulty", "", "easy, medium or hard")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file: %v", err)
	}
	if *configPath == "" {
		*configPath = os.Getenv("MAZE_CONFIG")
	}
	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *difficulty != "" {
		cfg.Difficulty = *difficulty
	}
	// the screen owns stdout from here on
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	session, err := game.New(cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	sound := audio.NewPlayer(0.4)
	if !*mute {
		_ = sound.Init()
	}
	defer sound.Close()

	g := &termGame{screen: screen, session: session, sound: sound}
	g.run(cfg.TickMs())
}

func (g *termGame) run(tickMs float64) {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(time.Duration(tickMs * float64(time.Millisecond)))
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			if !g.handle(ev) {
				return
			}
		case <-ticker.C:
			tk := g.session.Tick(tickMs)
			if tk.Bumped {
				g.sound.Bump()
			}
			if tk.Won {
				g.sound.Win()
			}
			draw(g.screen, g.session)
			g.screen.Show()
		}
	}
}

// handle applies one terminal event and reports whether to keep running.
func (g *termGame) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		return g.key(ev.Key(), ev.Rune())
	}
	return true
}

func (g *termGame) key(k tcell.Key, r rune) bool {
	if k == tcell.KeyEscape || k == tcell.KeyCtrlC {
		return false
	}
	if k == tcell.KeyRune && r == 'q' {
		return false
	}
	if m, ok := keyMove(k, r); ok {
		g.session.Input().Store(m)
		return true
	}
	if k != tcell.KeyRune {
		return true
	}
	var err error
	switch r {
	case 'r':
		err = g.session.Restart()
	case '1', '2', '3':
		err = g.session.SetDifficulty(model.Difficulty(r - '0'))
	}
	if err != nil {
		log.Warnf("restart: %v", err)
	}
	return true
}

// keyMove maps a key to a latched move. Terminals report presses only, so a
// direction holds until another key replaces it.
func keyMove(k tcell.Key, r rune) (ball.Move, bool) {
	var key input.Key
	switch k {
	case tcell.KeyUp:
		key = input.KeyUp
	case tcell.KeyDown:
		key = input.KeyDown
	case tcell.KeyLeft:
		key = input.KeyLeft
	case tcell.KeyRight:
		key = input.KeyRight
	case tcell.KeyRune:
		if r == ' ' {
			return ball.Stop, true
		}
		key = input.ParseKey(string(r))
	}
	d := key.Direction()
	if d == ball.None {
		return nil, false
	}
	return ball.Dir(d), true
}

// Every maze cell takes two terminal columns; the top line is the status bar.
func cellAt(x, y float64) (int, int) {
	return int(math.Floor(x*2 + 0.5)), int(math.Round(y)) + 1
}

func draw(screen tcell.Screen, s *game.Session) {
	screen.Clear()
	grid := s.Grid()
	for r := 0; r < grid.Height; r++ {
		for c := 0; c < grid.Width; c++ {
			if grid.IsWall(c, r) {
				screen.SetContent(c*2, r+1, ' ', nil, styleWall)
				screen.SetContent(c*2+1, r+1, ' ', nil, styleWall)
			}
		}
	}
	goal := s.Goal()
	screen.SetContent(goal.X*2, goal.Y+1, '[', nil, styleGoal)
	screen.SetContent(goal.X*2+1, goal.Y+1, ']', nil, styleGoal)

	b := s.Ball()
	for _, p := range b.Trail() {
		x, y := cellAt(p.X, p.Y)
		screen.SetContent(x, y, '·', nil, styleTrail)
	}
	for _, p := range b.Particles() {
		x, y := cellAt(p.X, p.Y)
		screen.SetContent(x, y, '*', nil, styleSpark)
	}
	style := styleBall
	if b.State() == ball.Colliding {
		style = styleBump
	}
	x, y := cellAt(b.X, b.Y)
	screen.SetContent(x, y, '●', nil, style)

	status := fmt.Sprintf("%s  %.1fs  bumps %d", s.Difficulty().Name(), s.ElapsedMs()/1000, s.Bumps())
	if s.Won() {
		status += "  GOAL! r restart, q quit"
	}
	for i, ch := range status {
		screen.SetContent(i, 0, ch, nil, tcell.StyleDefault)
	}
}
