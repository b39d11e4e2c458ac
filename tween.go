package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Action is what runs while a tween plays and after it completes.
type Action struct {
	nexts    []func(g *Game)
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	a.onFinish = append(a.onFinish, f)
}

// next queues t to start once the current tween finishes.
func (a *Action) next(t *gween.Tween, onChange func(float32)) *Action {
	action := &Action{onChange: onChange}
	a.nexts = append(a.nexts,
		func(g *Game) {
			g.Tweens[t] = action
		})
	return action
}

func (g *Game) play(t *gween.Tween, onChange func(float32)) *Action {
	action := &Action{onChange: onChange}
	g.Tweens[t] = action
	return action
}

func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			for _, next := range a.nexts {
				next(g)
			}
			delete(g.Tweens, t)
		}
	}
}

// celebrate fades the win banner in, then drops the headline into place.
func (g *Game) celebrate() {
	g.overlay, g.bannerY = 0, -60
	fade := g.play(gween.New(0, 0.7, 0.6, ease.OutQuad), func(v float32) { g.overlay = v })
	drop := fade.next(gween.New(-60, 0, 0.5, ease.OutBounce), func(v float32) { g.bannerY = v })
	drop.addOnFinish(func() { g.bannerDone = true })
}

func (g *Game) clearTweens() {
	g.Tweens = make(map[*gween.Tween]*Action)
	g.overlay, g.bannerY, g.bannerDone = 0, 0, false
}
