package model

import log "github.com/sirupsen/logrus"

// Solvable reports whether Goal can be reached from Start over path cells.
func Solvable(g *Grid) bool {
	return ShortestPath(g, g.Start(), g.Goal()) != nil
}

// ShortestPath runs a breadth-first search and returns the cells from one
// end to the other, both included. It returns nil when there is no route.
func ShortestPath(g *Grid, from, to Point) []Point {
	if g.At(from) != Path || g.At(to) != Path {
		return nil
	}
	prev := map[Point]Point{from: from}
	queue := []Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			break
		}
		for _, n := range g.Neighbours(p) {
			if _, seen := prev[n]; seen || g.At(n) != Path {
				continue
			}
			prev[n] = p
			queue = append(queue, n)
		}
	}
	if _, ok := prev[to]; !ok {
		return nil
	}
	var path []Point
	for p := to; ; p = prev[p] {
		path = append(path, p)
		if p == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func ensureSolvable(g *Grid) {
	if Solvable(g) {
		return
	}
	log.Debugf("maze %dx%d unsolvable, opening the inner ring", g.Width, g.Height)
	repair(g)
}

// repair opens the ring just inside the border, which joins Start and Goal.
func repair(g *Grid) {
	for x := 1; x < g.Width-1; x++ {
		g.set(Point{X: x, Y: 1}, Path)
		g.set(Point{X: x, Y: g.Height - 2}, Path)
	}
	for y := 1; y < g.Height-1; y++ {
		g.set(Point{X: 1, Y: y}, Path)
		g.set(Point{X: g.Width - 2, Y: y}, Path)
	}
	g.set(g.Start(), Path)
	g.set(g.Goal(), Path)
}
