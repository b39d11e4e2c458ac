package model

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed levels/*.txt
var levelFiles embed.FS

var ErrBadLevel = errors.New("bad level")

// ParseLevel reads a level drawn with '#' for walls and '.' or ' ' for paths,
// one row per line.
func ParseLevel(reader io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	rows := make([][]Cell, 0)
	for scanner.Scan() {
		s := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(s) == "" {
			if len(rows) > 0 {
				break
			}
			continue
		}
		line := make([]Cell, 0, len(s))
		for col, char := range s {
			switch char {
			case '#':
				line = append(line, Wall)
			case '.', ' ':
				line = append(line, Path)
			default:
				return nil, fmt.Errorf("%w: row %d col %d: unexpected %q", ErrBadLevel, len(rows), col, char)
			}
		}
		if len(rows) > 0 && len(line) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadLevel, len(rows), len(line), len(rows[0]))
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadLevel)
	}
	g := &Grid{Width: len(rows[0]), Height: len(rows), Cells: rows}
	if err := checkSize(g.Width, g.Height); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLevel, err)
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Point{X: x, Y: y}
			if g.OnBorder(p) && g.At(p) != Wall {
				return nil, fmt.Errorf("%w: open border at %d,%d", ErrBadLevel, x, y)
			}
		}
	}
	g.set(g.Start(), Path)
	g.set(g.Goal(), Path)
	return g, nil
}

// builtinLevels loads the embedded levels, keyed by the file name prefix.
func builtinLevels() map[Difficulty][]*Grid {
	levels := make(map[Difficulty][]*Grid)
	entries, err := levelFiles.ReadDir("levels")
	if err != nil {
		log.Errorf("reading embedded levels: %v", err)
		return levels
	}
	for _, e := range entries {
		name := e.Name()
		d, err := ParseDifficulty(strings.SplitN(name, "_", 2)[0])
		if err != nil {
			log.Warnf("level %s: %v", name, err)
			continue
		}
		f, err := levelFiles.Open(path.Join("levels", name))
		if err != nil {
			log.Warnf("level %s: %v", name, err)
			continue
		}
		g, err := ParseLevel(f)
		f.Close()
		if err != nil {
			log.Warnf("level %s: %v", name, err)
			continue
		}
		if w, h, _ := d.Size(); g.Width != w || g.Height != h {
			log.Warnf("level %s is %dx%d, %s wants %dx%d", name, g.Width, g.Height, d, w, h)
			continue
		}
		levels[d] = append(levels[d], g)
	}
	return levels
}

// Levels returns copies of the predefined levels for the difficulty.
func (gen *Generator) Levels(d Difficulty) []*Grid {
	out := make([]*Grid, 0, len(gen.levels[d]))
	for _, g := range gen.levels[d] {
		out = append(out, g.Clone())
	}
	return out
}
