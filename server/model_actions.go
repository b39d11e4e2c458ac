package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/game"
	"github.com/zucenko/tiltmaze/input"
	"github.com/zucenko/tiltmaze/model"
)

const (
	requestTimeout = 200 * time.Millisecond
	outgoingBuffer = 10
	eventBuffer    = 16
)

func NewGameServer(cfg game.Config) *GameServer {
	return &GameServer{
		Config:       cfg,
		GameSessions: make(map[string]*GameSession),
		GameRequests: make(chan GameRequest),
		Finished:     make(chan string, 1),
		Upgrader: &websocket.Upgrader{
			// origins are checked by the CORS layer in front
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mazes: cfg.NewGenerator(),
	}
}

// HandleHttpCall upgrades GET /play to a websocket and keeps the request
// open until the game session ends.
func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - connection received")

		difficulty, err := s.requestedDifficulty(r.URL.Query().Get("difficulty"))
		if err != nil {
			log.Warnf("HandleHttpCall %v", err)
			w.WriteHeader(GAME_INVALIDE.ToHttp())
			return
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{Difficulty: difficulty, GameContextAwaiting: gcas}:
		case <-time.After(requestTimeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			if gca.ResponseCode != GAME_READY {
				log.Warnf("HandleHttpCall game not ready code:%d err:%v", gca.ResponseCode, gca.Err)
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(requestTimeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			go abandonLate(gcas)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered the request
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			gca.GameSession.abandon()
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{Con: con, GameOver: gameOver}:
		case <-time.After(requestTimeout):
			log.Warn("PlayerConnectRequests TIMEOUTED")
			gca.GameSession.abandon()
			return
		}

		<-gameOver
		log.Infof("HandleHttpCall session %s over", gca.GameSession.Id)
	}
}

// abandonLate waits for a reply nobody is waiting for any more. Loop always
// answers a request it has taken, so this returns.
func abandonLate(gcas <-chan GameContextAwaiting) {
	gca := <-gcas
	if gca.GameSession != nil {
		log.Debugf("abandoning late GameSession %s", gca.GameSession.Id)
		gca.GameSession.abandon()
	}
}

func (s *GameServer) requestedDifficulty(q string) (model.Difficulty, error) {
	if q == "" {
		q = s.Config.Difficulty
	}
	return model.ParseDifficulty(q)
}

// HandleMaze serves GET /maze/:difficulty, a freshly generated maze with its
// shortest solution.
func (s *GameServer) HandleMaze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := model.ParseDifficulty(way.Param(r.Context(), "difficulty"))
		if err != nil {
			http.Error(w, err.Error(), HTTP_NOT_FOUND)
			return
		}
		s.mazesMu.Lock()
		g, err := s.mazes.Level(d)
		s.mazesMu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), HTTP_SERVER_ERR)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(MazeResponse{
			Difficulty: d.Name(),
			Width:      g.Width,
			Height:     g.Height,
			Rows:       g.Rows(),
			Start:      g.Start(),
			Goal:       g.Goal(),
			Solution:   model.ShortestPath(g, g.Start(), g.Goal()),
		})
		if err != nil {
			log.Warnf("HandleMaze encode %v", err)
		}
	}
}

// Loop owns the session registry until ctx is done.
func (s *GameServer) Loop(ctx context.Context) {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Printf("GameServer.Loop stopping, %d sessions", len(s.GameSessions))
			return
		case id := <-s.Finished:
			delete(s.GameSessions, id)
			log.Debugf("GameServer.Loop session %s removed, %d left", id, len(s.GameSessions))
		case gameReq := <-s.GameRequests:
			cfg := s.Config
			cfg.Difficulty = gameReq.Difficulty.Name()
			session, err := game.New(cfg, nil)
			if err != nil {
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_INVALIDE, Err: err}
				continue
			}
			gs := newGameSession(session, cfg, s.Finished)
			s.GameSessions[gs.Id] = gs
			go gs.Loop(ctx)
			log.Infof("create GameSession %s (%s)", gs.Id, cfg.Difficulty)
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		}
	}
}

func newGameSession(session *game.Session, cfg game.Config, finished chan<- string) *GameSession {
	return &GameSession{
		Id:                    session.ID,
		State:                 GS_NEW,
		Session:               session,
		Tilt:                  input.NewTilt(cfg.Tilt),
		Errors:                make(chan string),
		Events:                make(chan PlayerEvent, eventBuffer),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		done:                  make(chan struct{}),
		finished:              finished,
	}
}

// abandon ends a session nobody connected to.
func (gs *GameSession) abandon() {
	select {
	case gs.Errors <- "":
	case <-gs.done:
	}
}

// Loop is the only goroutine that touches the game session. It ticks at the
// configured rate once a player is connected.
func (gs *GameSession) Loop(ctx context.Context) {
	log.Infof("GameSession.Loop %s start", gs.Id)
	defer gs.end(ctx)

	var ticks <-chan time.Time
	tickMs := gs.Session.Config().TickMs()
	for {
		select {
		case <-ctx.Done():
			gs.State = GS_OVER
			return
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.State = GS_PLAY
			gs.send(model.ServerMessage{Setup: gs.setup()})
			ticker := time.NewTicker(time.Duration(tickMs * float64(time.Millisecond)))
			defer ticker.Stop()
			ticks = ticker.C
		case errPlayer := <-gs.Errors:
			log.Warnf("killing GS %s (player %q)", gs.Id, errPlayer)
			gs.State = GS_ERR
			if gs.PlayerSession != nil {
				gs.PlayerSession.State = PS_ERR
			}
			return
		case pe := <-gs.Events:
			gs.apply(pe.Message)
		case <-ticks:
			gs.tick(tickMs)
		}
	}
}

func (gs *GameSession) end(ctx context.Context) {
	close(gs.done)
	if gs.PlayerSession != nil {
		close(gs.PlayerSession.GameOver)
	}
	select {
	case gs.finished <- gs.Id:
	case <-ctx.Done():
	}
}

func (gs *GameSession) tick(tickMs float64) {
	if gs.tiltActive {
		gs.Session.Input().Store(gs.Tilt.Update())
	}
	wasWon := gs.Session.Won()
	tk := gs.Session.Tick(tickMs)
	if tk.Won {
		gs.State = GS_WON
	}
	if wasWon {
		// nothing moves after the win, one final state was already sent
		return
	}
	snap := gs.Session.Snapshot()
	gs.send(model.ServerMessage{State: &snap})
}

func (gs *GameSession) setup() *model.Setup {
	setup := gs.Session.Setup()
	return &setup
}

// apply turns one client message into input. Later messages in the same
// frame overwrite earlier ones.
func (gs *GameSession) apply(cm model.ClientMessage) {
	slot := gs.Session.Input()
	switch {
	case cm.KeyDown != "" || cm.KeyUp != "":
		gs.tiltActive = false
		if cm.KeyUp != "" {
			gs.Keys.Release(input.ParseKey(cm.KeyUp))
		}
		if cm.KeyDown != "" {
			gs.Keys.Press(input.ParseKey(cm.KeyDown))
		}
		slot.Store(gs.Keys.Move())
	case cm.Dir != "":
		gs.tiltActive = false
		slot.Store(ball.Dir(ball.ParseDirection(cm.Dir)))
	case cm.Vector != nil:
		gs.tiltActive = false
		slot.Store(ball.NewAnalog(cm.Vector[0], cm.Vector[1]))
	case cm.Tilt != nil:
		gs.tiltActive = true
		gs.Tilt.Orientation(cm.Tilt.Beta, cm.Tilt.Gamma)
	case cm.Motion != nil:
		gs.tiltActive = true
		gs.Tilt.Motion(cm.Motion.X, cm.Motion.Y, cm.Motion.Z)
	}
	if cm.Calibrate {
		gs.Tilt.Calibrate()
	}
	if cm.Speed != nil {
		gs.Session.Ball().SetSpeed(*cm.Speed)
	}
	if cm.Difficulty != "" {
		d, err := model.ParseDifficulty(cm.Difficulty)
		if err == nil {
			err = gs.Session.SetDifficulty(d)
		}
		if err != nil {
			gs.send(model.ServerMessage{Error: err.Error()})
			return
		}
		gs.restarted()
	} else if cm.Restart {
		if err := gs.Session.Restart(); err != nil {
			gs.send(model.ServerMessage{Error: err.Error()})
			return
		}
		gs.restarted()
	}
}

func (gs *GameSession) restarted() {
	gs.State = GS_PLAY
	gs.Keys.Reset()
	gs.tiltActive = false
	gs.send(model.ServerMessage{Setup: gs.setup()})
}

// send never blocks the game loop; a slow client loses frames.
func (gs *GameSession) send(m model.ServerMessage) {
	ps := gs.PlayerSession
	if ps == nil {
		return
	}
	select {
	case ps.MessagesToSend <- m:
	default:
		ps.DebugDropped++
		log.Debugf("GameSession %s outgoing buffer full, dropping", gs.Id)
	}
}

func (gs *GameSession) addPlayer(conn *websocket.Conn, gameOver chan struct{}) {
	log.Printf("GameSession.addPlayer %s", gs.Id)
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             gs.Id,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, outgoingBuffer),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	ps.State = PS_PLAY
	gs.PlayerSession = ps
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	case <-ps.GameSession.done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED")
	for {
		cm := model.ClientMessage{}
		if err := ps.Conn.ReadJSON(&cm); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("LoopChannelRead closed by client")
			} else {
				log.Warnf("LoopChannelRead err reading message from Conn %v", err)
			}
			ps.fail()
			break
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Player: ps.Id, Message: cm}:
		case <-ps.GameSession.done:
			return
		default:
			log.Warnf("Dropping data read from socket, GameSession.Events FULL")
		}
	}
	log.Printf("LoopChannelRead ENDED")
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite STARTED")
	for {
		select {
		case <-ps.GameSession.done:
			log.Printf("LoopChannelWrite ENDED")
			return
		case mes := <-ps.MessagesToSend:
			if err := ps.Conn.WriteJSON(mes); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant write %v", err)
				ps.fail()
				return
			}
			ps.DebugOutMessages++
		}
	}
}
