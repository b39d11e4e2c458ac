// Command maze-generator prints a maze with its shortest solution marked.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/tiltmaze/model"
)

func main() {
	width := flag.Int("width", 0, "maze width, overrides -difficulty")
	height := flag.Int("height", 0, "maze height, overrides -difficulty")
	difficulty := flag.String("difficulty", "easy", "easy, medium or hard")
	seed := flag.Int64("seed", 0, "random seed, 0 uses the clock")
	predefined := flag.Float64("predefined", 0, "chance of a built-in level when sized by difficulty")
	solution := flag.Bool("solution", true, "mark the shortest path")
	flag.Parse()

	gen := model.NewGenerator(*seed)
	gen.PredefinedChance = *predefined

	var (
		g   *model.Grid
		err error
	)
	if *width > 0 || *height > 0 {
		g, err = gen.Generate(*width, *height)
	} else {
		var d model.Difficulty
		if d, err = model.ParseDifficulty(*difficulty); err == nil {
			g, err = gen.Level(d)
		}
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := render(os.Stdout, g, *solution); err != nil {
		log.Fatal(err)
	}
}

// render writes the grid as text: # wall, S start, G goal, o solution.
func render(w io.Writer, g *model.Grid, withPath bool) error {
	rows := make([][]byte, g.Height)
	for y, row := range g.Rows() {
		rows[y] = []byte(row)
	}
	path := model.ShortestPath(g, g.Start(), g.Goal())
	if withPath {
		for _, p := range path {
			rows[p.Y][p.X] = 'o'
		}
	}
	s, goal := g.Start(), g.Goal()
	rows[s.Y][s.X] = 'S'
	rows[goal.Y][goal.X] = 'G'
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\n", row); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%dx%d, solution %d steps\n", g.Width, g.Height, len(path)-1)
	return err
}
