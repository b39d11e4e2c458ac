package input

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zucenko/tiltmaze/ball"
)

func TestSlotLastWriteWins(t *testing.T) {
	var s Slot
	assert.Equal(t, ball.Stop, s.Load())

	s.Store(ball.Dir(ball.Left))
	s.Store(ball.Dir(ball.Up))
	assert.Equal(t, ball.Dir(ball.Up), s.Load())
	// reading does not consume
	assert.Equal(t, ball.Dir(ball.Up), s.Load())

	s.Store(ball.Analog{X: math.NaN(), Y: 4})
	assert.Equal(t, ball.Analog{X: 0, Y: 1}, s.Load())

	s.Store(nil)
	assert.Equal(t, ball.Stop, s.Load())
}

func TestKeyboardMostRecentHeldKey(t *testing.T) {
	var kb Keyboard
	assert.Equal(t, ball.None, kb.Direction())

	kb.Press(KeyUp)
	kb.Press(KeyRight)
	assert.Equal(t, ball.Right, kb.Direction())

	kb.Release(KeyRight)
	assert.Equal(t, ball.Up, kb.Direction())

	kb.Press(KeyA)
	kb.Press(KeyUp)
	assert.Equal(t, ball.Up, kb.Direction())
	kb.Release(KeyUp)
	assert.Equal(t, ball.Left, kb.Direction())

	kb.Press(KeyUnknown)
	assert.Equal(t, ball.Dir(ball.Left), kb.Move())

	kb.Reset()
	assert.Equal(t, ball.None, kb.Direction())
}

func TestParseKey(t *testing.T) {
	cases := map[string]Key{
		"ArrowUp": KeyUp, "ArrowDown": KeyDown, "ArrowLeft": KeyLeft, "ArrowRight": KeyRight,
		"w": KeyW, "W": KeyW, "KeyW": KeyW, "KeyA": KeyA, "s": KeyS, "D": KeyD,
		"Enter": KeyUnknown, "": KeyUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseKey(name), name)
	}
}

type fakeSource struct {
	x, y     int
	released bool
}

func (f *fakeSource) Position() (int, int) { return f.x, f.y }
func (f *fakeSource) IsJustReleased() bool { return f.released }

func TestStrokeProjectsOnPrimaryAxis(t *testing.T) {
	src := &fakeSource{x: 100, y: 100}
	s := NewStroke(src)
	cfg := DefaultDragConfig()

	assert.Equal(t, ball.Stop, s.Move(cfg))

	src.x, src.y = 140, 110
	s.Update()
	assert.Equal(t, ball.Analog{X: 0.5, Y: 0}, s.Move(cfg))

	src.x, src.y = 90, -200
	s.Update()
	assert.Equal(t, ball.Analog{X: 0, Y: -1}, s.Move(cfg))

	src.released = true
	s.Update()
	assert.True(t, s.IsReleased())
	assert.Equal(t, ball.Stop, s.Move(cfg))
}

func TestDragMoveDeadZone(t *testing.T) {
	cfg := DefaultDragConfig()
	assert.Equal(t, ball.Stop, DragMove(3, -4, cfg))
	assert.Equal(t, ball.Stop, DragMove(math.NaN(), 50, cfg))
	assert.Equal(t, ball.Analog{X: -0.25, Y: 0}, DragMove(-20, 5, cfg))
}

func TestDragFollowsDrawnCellSize(t *testing.T) {
	cfg := DefaultDragConfig()
	// two 30px cells give full deflection when cells are drawn 30px wide
	assert.Equal(t, ball.Analog{X: 1, Y: 0}, DragMove(60, 0, cfg.ForCell(30)))
	assert.Equal(t, ball.Analog{X: 0, Y: 0.5}, DragMove(0, 30, cfg.ForCell(30)))
	assert.Equal(t, ball.Analog{X: 0.25, Y: 0}, DragMove(30, 0, cfg.ForCell(60)))

	assert.Equal(t, cfg, cfg.ForCell(0))
	assert.Equal(t, cfg, cfg.ForCell(math.Inf(1)))
}

func TestTiltDeadZoneAndClamp(t *testing.T) {
	tilt := NewTilt(TiltConfig{DeadZone: 2, MaxTilt: 12, Sensitivity: 1, Smoothing: 1})

	tilt.Orientation(1, -1.5)
	assert.Equal(t, ball.Analog{}, tilt.Update())

	tilt.Orientation(7, -12)
	got := tilt.Update()
	assert.InDelta(t, -1, got.X, 1e-9)
	assert.InDelta(t, 0.5, got.Y, 1e-9)

	tilt.Orientation(90, 90)
	assert.Equal(t, ball.Analog{X: 1, Y: 1}, tilt.Update())

	tilt.Orientation(math.NaN(), 5)
	assert.Equal(t, ball.Analog{X: 1, Y: 1}, tilt.Update())
}

func TestTiltSmoothing(t *testing.T) {
	tilt := NewTilt(TiltConfig{DeadZone: 0, MaxTilt: 10, Sensitivity: 1, Smoothing: 0.5})
	tilt.Orientation(0, 10)
	assert.InDelta(t, 0.5, tilt.Update().X, 1e-9)
	assert.InDelta(t, 0.75, tilt.Update().X, 1e-9)
	assert.InDelta(t, 0.75, tilt.Current().X, 1e-9)
}

func TestTiltCalibration(t *testing.T) {
	tilt := NewTilt(TiltConfig{DeadZone: 2, MaxTilt: 12, Sensitivity: 1, Smoothing: 1})
	tilt.Orientation(30, 5)
	tilt.Calibrate()
	tilt.Orientation(30, 5)
	assert.Equal(t, ball.Analog{}, tilt.Update())

	tilt.Orientation(37, 5)
	assert.InDelta(t, 0.5, tilt.Update().Y, 1e-9)
}

func TestTiltMotionFallback(t *testing.T) {
	tilt := NewTilt(TiltConfig{DeadZone: 2, MaxTilt: 15, Sensitivity: 1, Smoothing: 1})
	// flat on the table
	tilt.Motion(0, 0, 9.81)
	assert.Equal(t, ball.Analog{}, tilt.Update())

	// tipped 45 degrees to one side
	tilt.Motion(0, 9.81, 9.81)
	got := tilt.Update()
	assert.Equal(t, 1.0, got.X)
	assert.Equal(t, 0.0, got.Y)
}

func TestTiltPauseResume(t *testing.T) {
	tilt := NewTilt(TiltConfig{DeadZone: 0, MaxTilt: 10, Sensitivity: 1, Smoothing: 1})
	tilt.Orientation(0, 10)
	tilt.Update()
	tilt.Pause()
	assert.False(t, tilt.Enabled())
	tilt.Orientation(0, 10)
	assert.Equal(t, ball.Analog{}, tilt.Update())

	tilt.Resume()
	tilt.Orientation(0, 10)
	assert.Equal(t, ball.Analog{X: 1}, tilt.Update())
}

func TestTiltSettersClamp(t *testing.T) {
	tilt := NewTilt(DefaultTiltConfig())
	tilt.SetSensitivity(3)
	tilt.SetDeadZone(-4)
	tilt.SetMaxTilt(90)
	cfg := tilt.Config()
	assert.Equal(t, 1.0, cfg.Sensitivity)
	assert.Equal(t, 0.0, cfg.DeadZone)
	assert.Equal(t, 45.0, cfg.MaxTilt)

	tilt.SetSensitivity(0)
	tilt.SetMaxTilt(1)
	assert.Equal(t, 0.1, tilt.Config().Sensitivity)
	assert.Equal(t, 5.0, tilt.Config().MaxTilt)
}
