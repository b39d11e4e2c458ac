package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/tiltmaze/ball"
	"github.com/zucenko/tiltmaze/game"
	"github.com/zucenko/tiltmaze/model"
)

func testConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Maze.Seed = 3
	return cfg
}

func offlineSession(t *testing.T) *GameSession {
	t.Helper()
	cfg := testConfig()
	sess, err := game.New(cfg, nil)
	require.NoError(t, err)
	g, err := model.ParseLevel(strings.NewReader("######\n#....#\n#....#\n#....#\n#....#\n######\n"))
	require.NoError(t, err)
	require.NoError(t, sess.UseGrid(g))
	gs := newGameSession(sess, cfg, make(chan string, 1))
	gs.PlayerSession = &PlayerSession{MessagesToSend: make(chan model.ServerMessage, 32)}
	return gs
}

func drain(gs *GameSession) []model.ServerMessage {
	var out []model.ServerMessage
	for {
		select {
		case m := <-gs.PlayerSession.MessagesToSend:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestApplyKeysAndVectors(t *testing.T) {
	gs := offlineSession(t)
	slot := gs.Session.Input()

	gs.apply(model.ClientMessage{KeyDown: "ArrowRight"})
	assert.Equal(t, ball.Dir(ball.Right), slot.Load())
	gs.apply(model.ClientMessage{KeyDown: "s"})
	assert.Equal(t, ball.Dir(ball.Down), slot.Load())
	gs.apply(model.ClientMessage{KeyUp: "s"})
	assert.Equal(t, ball.Dir(ball.Right), slot.Load())

	gs.apply(model.ClientMessage{Dir: "left"})
	assert.Equal(t, ball.Dir(ball.Left), slot.Load())

	gs.apply(model.ClientMessage{Vector: &[2]float64{0.5, 2}})
	assert.Equal(t, ball.Analog{X: 0.5, Y: 1}, slot.Load())

	speed := 80.0
	gs.apply(model.ClientMessage{Speed: &speed})
	assert.Equal(t, 80.0, gs.Session.Ball().Speed)
}

func TestTiltDrivesTheBall(t *testing.T) {
	gs := offlineSession(t)
	gs.apply(model.ClientMessage{Tilt: &model.TiltReading{Beta: 0, Gamma: 30}})
	require.True(t, gs.tiltActive)

	for i := 0; i < 30; i++ {
		gs.tick(gs.Session.Config().TickMs())
	}
	assert.Greater(t, gs.Session.Ball().X, 1.0)
	assert.Equal(t, 1.0, gs.Session.Ball().Y)

	msgs := drain(gs)
	require.Len(t, msgs, 30)
	assert.NotNil(t, msgs[29].State)

	// a key press takes over from tilt
	gs.apply(model.ClientMessage{Dir: "none"})
	assert.False(t, gs.tiltActive)
}

func TestDifficultyAndRestartMessages(t *testing.T) {
	gs := offlineSession(t)

	gs.apply(model.ClientMessage{Difficulty: "hard"})
	msgs := drain(gs)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Setup)
	assert.Equal(t, 20, msgs[0].Setup.Width)
	assert.Equal(t, "hard", msgs[0].Setup.Difficulty)

	gs.apply(model.ClientMessage{Difficulty: "bogus"})
	msgs = drain(gs)
	require.Len(t, msgs, 1)
	assert.NotEmpty(t, msgs[0].Error)
	assert.Equal(t, model.Hard, gs.Session.Difficulty())

	gs.apply(model.ClientMessage{Restart: true})
	msgs = drain(gs)
	require.Len(t, msgs, 1)
	assert.NotNil(t, msgs[0].Setup)
}

func TestTickStopsSendingAfterWin(t *testing.T) {
	gs := offlineSession(t)
	b := gs.Session.Ball()
	b.X, b.Y = 3.8, 3.8
	gs.tick(gs.Session.Config().TickMs())
	assert.Equal(t, GS_WON, gs.State)
	msgs := drain(gs)
	require.Len(t, msgs, 1)
	assert.Equal(t, "WON", msgs[0].State.State)

	gs.tick(gs.Session.Config().TickMs())
	assert.Empty(t, drain(gs))
}

func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	gsrv := NewGameServer(testConfig())
	go gsrv.Loop(ctx)

	router := way.NewRouter()
	router.HandleFunc("GET", "/play", gsrv.HandleHttpCall())
	router.HandleFunc("GET", "/maze/:difficulty", gsrv.HandleMaze())
	hs := httptest.NewServer(router)
	t.Cleanup(func() {
		cancel()
		hs.Close()
	})
	return gsrv, hs
}

func TestMazeEndpoint(t *testing.T) {
	_, hs := newTestServer(t)

	res, err := http.Get(hs.URL + "/maze/medium")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var mr MazeResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&mr))
	assert.Equal(t, 15, mr.Width)
	assert.Len(t, mr.Rows, 15)
	require.NotEmpty(t, mr.Solution)
	assert.Equal(t, mr.Start, mr.Solution[0])
	assert.Equal(t, mr.Goal, mr.Solution[len(mr.Solution)-1])

	res2, err := http.Get(hs.URL + "/maze/bogus")
	require.NoError(t, err)
	res2.Body.Close()
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

// openDirection picks a direction whose first cell from start is open.
func openDirection(setup *model.Setup) (string, func(before, after model.Snapshot) bool) {
	s := setup.Start
	switch {
	case setup.Rows[s.Y][s.X+1] == '.':
		return "right", func(b, a model.Snapshot) bool { return a.X > b.X }
	default:
		return "down", func(b, a model.Snapshot) bool { return a.Y > b.Y }
	}
}

func TestPlayOverWebsocket(t *testing.T) {
	_, hs := newTestServer(t)
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/play?difficulty=easy"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first model.ServerMessage
	require.NoError(t, conn.ReadJSON(&first))
	require.NotNil(t, first.Setup)
	assert.Equal(t, 10, first.Setup.Width)
	assert.NotEmpty(t, first.Setup.SessionID)

	var initial model.ServerMessage
	for initial.State == nil {
		require.NoError(t, conn.ReadJSON(&initial))
	}

	dir, moved := openDirection(first.Setup)
	require.NoError(t, conn.WriteJSON(model.ClientMessage{Dir: dir}))

	for {
		var m model.ServerMessage
		require.NoError(t, conn.ReadJSON(&m))
		if m.State != nil && moved(*initial.State, *m.State) {
			break
		}
	}
}

func TestPlayRejectsUnknownDifficulty(t *testing.T) {
	_, hs := newTestServer(t)
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/play?difficulty=nightmare"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSessionRemovedAfterDisconnect(t *testing.T) {
	gsrv := NewGameServer(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := game.New(testConfig(), nil)
	require.NoError(t, err)
	gs := newGameSession(sess, testConfig(), gsrv.Finished)
	go gs.Loop(ctx)
	gs.abandon()

	select {
	case id := <-gsrv.Finished:
		assert.Equal(t, gs.Id, id)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
	assert.Equal(t, GS_ERR, gs.State)
}

func TestLateReplyIsAbandoned(t *testing.T) {
	gsrv := NewGameServer(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := game.New(testConfig(), nil)
	require.NoError(t, err)
	gs := newGameSession(sess, testConfig(), gsrv.Finished)
	go gs.Loop(ctx)

	gcas := make(chan GameContextAwaiting, 1)
	gcas <- GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
	abandonLate(gcas)

	select {
	case id := <-gsrv.Finished:
		assert.Equal(t, gs.Id, id)
	case <-time.After(2 * time.Second):
		t.Fatal("late session kept running")
	}

	// a failed request carries no session
	gcas <- GameContextAwaiting{ResponseCode: GAME_INVALIDE}
	abandonLate(gcas)
}
