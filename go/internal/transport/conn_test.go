package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanRCM/bingo/go/internal/transport"
)

// testServer is a loopback coordinator: it records client frames and can
// push frames or drop the connection.
type testServer struct {
	server *httptest.Server

	mu       sync.Mutex
	upgrades int
	conns    []*websocket.Conn
	received [][]byte
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	upgrader := websocket.Upgrader{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.upgrades++
		ts.conns = append(ts.conns, ws)
		ts.mu.Unlock()

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			ts.mu.Lock()
			ts.received = append(ts.received, data)
			ts.mu.Unlock()
		}
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.server.URL, "http")
}

func (ts *testServer) upgradeCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.upgrades
}

func (ts *testServer) receivedFrames() [][]byte {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([][]byte(nil), ts.received...)
}

func (ts *testServer) push(t *testing.T, frame string) {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.conns, "no client connected yet")
	ws := ts.conns[len(ts.conns)-1]
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// dropConnection closes the underlying socket without a close handshake,
// simulating an unexpected closure.
func (ts *testServer) dropConnection(t *testing.T) {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.conns, "no client connected yet")
	ts.conns[len(ts.conns)-1].UnderlyingConn().Close()
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []string
}

func (r *frameRecorder) record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, string(data))
}

func (r *frameRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

func TestConn_DialAndSend(t *testing.T) {
	ts := newTestServer(t)
	recorder := &frameRecorder{}
	conn := transport.NewConn(transport.DefaultConfig(ts.url()), clockwork.NewFakeClock(), recorder.record, nil)

	require.NoError(t, conn.Dial(context.Background()))
	defer conn.Close()
	assert.Equal(t, transport.StateOpen, conn.State())

	conn.Send(map[string]string{"type": "register", "user": "Ana"})

	require.Eventually(t, func() bool {
		return len(ts.receivedFrames()) == 1
	}, time.Second, 5*time.Millisecond)

	var msg struct {
		Type string `json:"type"`
		User string `json:"user"`
	}
	require.NoError(t, json.Unmarshal(ts.receivedFrames()[0], &msg))
	assert.Equal(t, "register", msg.Type)
	assert.Equal(t, "Ana", msg.User)
}

func TestConn_DialWhileOpenIsNoOp(t *testing.T) {
	ts := newTestServer(t)
	conn := transport.NewConn(transport.DefaultConfig(ts.url()), clockwork.NewFakeClock(), func([]byte) {}, nil)

	require.NoError(t, conn.Dial(context.Background()))
	defer conn.Close()
	require.NoError(t, conn.Dial(context.Background()))

	// Give a duplicate upgrade a chance to land before asserting.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, ts.upgradeCount())
}

func TestConn_SendWhileClosedIsDropped(t *testing.T) {
	ts := newTestServer(t)
	conn := transport.NewConn(transport.DefaultConfig(ts.url()), clockwork.NewFakeClock(), func([]byte) {}, nil)

	// Never dialed: the send must vanish without error or panic.
	conn.Send(map[string]string{"type": "play"})
	assert.Equal(t, transport.StateClosed, conn.State())
	assert.Empty(t, ts.receivedFrames())
}

func TestConn_DeliversFramesInOrder(t *testing.T) {
	ts := newTestServer(t)
	recorder := &frameRecorder{}
	conn := transport.NewConn(transport.DefaultConfig(ts.url()), clockwork.NewFakeClock(), recorder.record, nil)

	require.NoError(t, conn.Dial(context.Background()))
	defer conn.Close()

	frames := []string{
		`{"type":"player_count","count":1}`,
		`{"type":"game_started"}`,
		`{"type":"round_start","language":"spanish"}`,
	}
	for _, f := range frames {
		ts.push(t, f)
	}

	require.Eventually(t, func() bool {
		return len(recorder.all()) == len(frames)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, frames, recorder.all())
}

func TestConn_UnexpectedClosureSchedulesReload(t *testing.T) {
	ts := newTestServer(t)
	clock := clockwork.NewFakeClock()
	reloadCh := make(chan struct{}, 1)
	conn := transport.NewConn(transport.DefaultConfig(ts.url()), clock, func([]byte) {}, func() {
		reloadCh <- struct{}{}
	})

	require.NoError(t, conn.Dial(context.Background()))
	ts.dropConnection(t)

	// The reload waits out the fixed delay on the clock.
	clock.BlockUntil(1)
	select {
	case <-reloadCh:
		t.Fatal("reload fired before the delay elapsed")
	default:
	}

	clock.Advance(transport.DefaultConfig(ts.url()).ReloadDelay)
	select {
	case <-reloadCh:
	case <-time.After(time.Second):
		t.Fatal("reload was never scheduled")
	}
	assert.Equal(t, transport.StateClosed, conn.State())
}

func TestConn_ExplicitCloseDoesNotReload(t *testing.T) {
	ts := newTestServer(t)
	clock := clockwork.NewFakeClock()
	reloadCh := make(chan struct{}, 1)
	conn := transport.NewConn(transport.DefaultConfig(ts.url()), clock, func([]byte) {}, func() {
		reloadCh <- struct{}{}
	})

	require.NoError(t, conn.Dial(context.Background()))
	conn.Close()

	require.Eventually(t, func() bool {
		return conn.State() == transport.StateClosed
	}, time.Second, 5*time.Millisecond)

	// Nothing should be waiting on the clock; advancing far past the
	// reload delay must not trigger anything.
	clock.Advance(time.Minute)
	select {
	case <-reloadCh:
		t.Fatal("explicit close must not schedule a reload")
	case <-time.After(50 * time.Millisecond):
	}

	// Sends after teardown are silently dropped.
	conn.Send(map[string]string{"type": "play"})
}
