package ball

import "math"

// Particle is a cosmetic spark thrown off by a bump. Velocity is in grid
// units per millisecond, Life in milliseconds.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
}

func (b *Ball) spawnParticles() {
	n := b.params.ParticleCount
	speed := b.params.ParticleSpeed / 1000
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		b.particles = append(b.particles, Particle{
			X:    b.X,
			Y:    b.Y,
			VX:   math.Cos(angle) * speed,
			VY:   math.Sin(angle) * speed,
			Life: b.params.ParticleLifeMs,
		})
	}
}

func (b *Ball) ageParticles(elapsedMs float64) {
	live := b.particles[:0]
	for _, p := range b.particles {
		p.Life -= elapsedMs
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX * elapsedMs
		p.Y += p.VY * elapsedMs
		live = append(live, p)
	}
	b.particles = live
}

// Particles returns a copy of the live particles.
func (b *Ball) Particles() []Particle {
	return append([]Particle(nil), b.particles...)
}
