package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a sine burst with a linear decay, finite by construction.
type tone struct {
	freq  float64
	phase float64
	pos   int
	total int
	rate  beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{freq: freq, total: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		decay := 1 - float64(t.pos)/float64(t.total)
		v := math.Sin(2*math.Pi*t.phase) * decay
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Len is the burst length in samples.
func (t *tone) Len() int { return t.total }

// bumpSound is a short low thud.
func bumpSound(rate beep.SampleRate) beep.Streamer {
	return newTone(110, 70*time.Millisecond, rate)
}

// winSound is a rising three-note chime.
func winSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		newTone(523.25, 120*time.Millisecond, rate),
		newTone(659.25, 120*time.Millisecond, rate),
		newTone(783.99, 240*time.Millisecond, rate),
	)
}
