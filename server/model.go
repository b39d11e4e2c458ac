package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zucenko/tiltmaze/game"
	"github.com/zucenko/tiltmaze/input"
	"github.com/zucenko/tiltmaze/model"
)

type GameServer struct {
	Config       game.Config
	GameSessions map[string]*GameSession
	GameRequests chan GameRequest
	Finished     chan string
	Upgrader     *websocket.Upgrader

	// mazes serves the read-only maze endpoint
	mazesMu sync.Mutex
	mazes   *model.Generator
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_WON
	GS_ERR
	GS_OVER
)

// GameSession runs one headless game for one connection. Only Loop touches
// Session, Tilt and Keys.
type GameSession struct {
	Id                    string
	State                 GameSessionState
	Session               *game.Session
	Tilt                  *input.Tilt
	Keys                  input.Keyboard
	PlayerSession         *PlayerSession
	Errors                chan string
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	tiltActive bool
	done       chan struct{}
	finished   chan<- string
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          string
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugDropped     int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}

type MazeResponse struct {
	Difficulty string        `json:"difficulty"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Rows       []string      `json:"rows"`
	Start      model.Point   `json:"start"`
	Goal       model.Point   `json:"goal"`
	Solution   []model.Point `json:"solution"`
}
