package model

// ServerMessage is what the play server writes to a connection: a Setup
// once, then a State per tick.
type ServerMessage struct {
	Setup *Setup    `json:"setup,omitempty"`
	State *Snapshot `json:"state,omitempty"`
	Error string    `json:"error,omitempty"`
}

type Setup struct {
	SessionID  string   `json:"session_id"`
	Difficulty string   `json:"difficulty"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Rows       []string `json:"rows"`
	Start      Point    `json:"start"`
	Goal       Point    `json:"goal"`
	CellSize   float64  `json:"cell_size"`
	Radius     float64  `json:"radius"`
}

type Spark struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Life float64 `json:"life"`
}

type Snapshot struct {
	Tick      uint64       `json:"tick"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Cooldown  float64      `json:"cooldown"`
	Colliding bool         `json:"colliding"`
	Bumped    bool         `json:"bumped,omitempty"`
	Trail     [][2]float64 `json:"trail"`
	Sparks    []Spark      `json:"sparks,omitempty"`
	State     string       `json:"state"`
	ElapsedMs float64      `json:"elapsed_ms"`
	Bumps     int          `json:"bumps"`
}

type TiltReading struct {
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

type MotionReading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ClientMessage carries one input event. Fields left empty are ignored.
type ClientMessage struct {
	Dir        string         `json:"dir,omitempty"`
	KeyDown    string         `json:"key_down,omitempty"`
	KeyUp      string         `json:"key_up,omitempty"`
	Vector     *[2]float64    `json:"vector,omitempty"`
	Tilt       *TiltReading   `json:"tilt,omitempty"`
	Motion     *MotionReading `json:"motion,omitempty"`
	Calibrate  bool           `json:"calibrate,omitempty"`
	Speed      *float64       `json:"speed,omitempty"`
	Restart    bool           `json:"restart,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
}

// Rows renders the grid one string per row, '#' for walls.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	for y, row := range g.Cells {
		b := make([]byte, len(row))
		for x, c := range row {
			if c == Wall {
				b[x] = '#'
			} else {
				b[x] = '.'
			}
		}
		rows[y] = string(b)
	}
	return rows
}
