package input

import (
	"math"

	"github.com/zucenko/tiltmaze/ball"
)

type TiltConfig struct {
	// DeadZone and MaxTilt are in degrees.
	DeadZone    float64 `yaml:"dead_zone"`
	MaxTilt     float64 `yaml:"max_tilt"`
	Sensitivity float64 `yaml:"sensitivity"`
	// Smoothing is the fraction of the gap to the target closed per Update.
	Smoothing float64 `yaml:"smoothing"`
}

func DefaultTiltConfig() TiltConfig {
	return TiltConfig{DeadZone: 2, MaxTilt: 15, Sensitivity: 0.3, Smoothing: 0.15}
}

type orientation struct {
	beta, gamma float64
}

// Tilt converts device orientation (beta front-back, gamma left-right) into
// a smoothed analog move.
type Tilt struct {
	cfg        TiltConfig
	enabled    bool
	baseline   orientation
	calibrated bool
	last       orientation
	target     ball.Analog
	current    ball.Analog
}

func NewTilt(cfg TiltConfig) *Tilt {
	t := &Tilt{enabled: true}
	t.cfg.Smoothing = cfg.Smoothing
	if !(t.cfg.Smoothing > 0 && t.cfg.Smoothing <= 1) {
		t.cfg.Smoothing = DefaultTiltConfig().Smoothing
	}
	t.SetDeadZone(cfg.DeadZone)
	t.SetMaxTilt(cfg.MaxTilt)
	t.SetSensitivity(cfg.Sensitivity)
	return t
}

func (t *Tilt) Config() TiltConfig { return t.cfg }
func (t *Tilt) Enabled() bool { return t.enabled }

// Orientation feeds a reading in degrees. Non-finite readings are dropped.
func (t *Tilt) Orientation(beta, gamma float64) {
	if !t.enabled || !finite(beta) || !finite(gamma) {
		return
	}
	t.last = orientation{beta: beta, gamma: gamma}
	if t.calibrated {
		beta -= t.baseline.beta
		gamma -= t.baseline.gamma
	}
	t.aim(beta, gamma)
}

// Motion derives the tilt from gravity acceleration, for devices that only
// report motion.
func (t *Tilt) Motion(x, y, z float64) {
	if !t.enabled || !finite(x) || !finite(y) || !finite(z) {
		return
	}
	beta := math.Atan2(x, z) * 180 / math.Pi
	gamma := math.Atan2(y, z) * 180 / math.Pi
	t.aim(beta, gamma)
}

func (t *Tilt) aim(beta, gamma float64) {
	t.target = ball.Analog{
		X: t.axis(gamma) * t.cfg.Sensitivity,
		Y: t.axis(beta) * t.cfg.Sensitivity,
	}.Sanitized()
}

func (t *Tilt) axis(deg float64) float64 {
	if math.Abs(deg) <= t.cfg.DeadZone {
		return 0
	}
	v := 1.0
	if span := t.cfg.MaxTilt - t.cfg.DeadZone; span > 0 {
		v = math.Min(1, (math.Abs(deg)-t.cfg.DeadZone)/span)
	}
	if deg < 0 {
		return -v
	}
	return v
}

// Update eases the output toward the latest target and returns it. Call it
// once per tick.
func (t *Tilt) Update() ball.Analog {
	t.current.X += (t.target.X - t.current.X) * t.cfg.Smoothing
	t.current.Y += (t.target.Y - t.current.Y) * t.cfg.Smoothing
	t.current = t.current.Sanitized()
	return t.current
}

func (t *Tilt) Current() ball.Analog { return t.current }

// Calibrate takes the latest reading as the neutral position.
func (t *Tilt) Calibrate() {
	t.baseline = t.last
	t.calibrated = true
	t.target = ball.Analog{}
}

func (t *Tilt) Pause() {
	t.enabled = false
	t.target = ball.Analog{}
	t.current = ball.Analog{}
}

func (t *Tilt) Resume() {
	t.enabled = true
}

func (t *Tilt) SetSensitivity(v float64) {
	t.cfg.Sensitivity = clamp(v, 0.1, 1)
}

func (t *Tilt) SetDeadZone(v float64) {
	t.cfg.DeadZone = clamp(v, 0, 10)
}

func (t *Tilt) SetMaxTilt(v float64) {
	t.cfg.MaxTilt = clamp(v, 5, 45)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
