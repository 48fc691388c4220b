// Package transport owns the WebSocket channel to the game coordinator:
// dialing, the single-writer pump, and the reload-on-closure policy.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// State is the connection lifecycle state. Exactly one connection exists
// per session; it is recreated wholesale on reload rather than resumed.
type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

// Config holds configuration for the coordinator connection.
type Config struct {
	URL              string // full ws:// URL including the client id path segment
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	SendBufferSize   int
	ReloadDelay      time.Duration
}

// DefaultConfig returns default connection configuration. ReloadDelay is
// the fixed pause before the session is rebuilt after an unexpected
// closure; there is no reconnect-with-backoff.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		ReadTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		SendBufferSize:   256,
		ReloadDelay:      2 * time.Second,
	}
}

// Conn is the client side of the session channel. Frames read from the
// socket are handed to onFrame in arrival order; onReload fires once,
// ReloadDelay after an unexpected closure.
type Conn struct {
	config   Config
	clock    clockwork.Clock
	onFrame  func([]byte)
	onReload func()

	mu      sync.Mutex
	state   State
	ws      *websocket.Conn
	send    chan []byte
	closing bool
}

// NewConn creates an unopened connection.
func NewConn(config Config, clock clockwork.Clock, onFrame func([]byte), onReload func()) *Conn {
	return &Conn{
		config:   config,
		clock:    clock,
		onFrame:  onFrame,
		onReload: onReload,
		state:    StateClosed,
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dial opens the channel and starts the read/write pumps. Calling Dial
// while the channel is already open is a no-op, which guards against
// duplicate channels from repeated session mounts.
func (c *Conn) Dial(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateOpen {
		log.Debug().Str("url", c.config.URL).Msg("dial skipped, connection already open")
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.config.HandshakeTimeout}
	ws, resp, err := dialer.DialContext(ctx, c.config.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.config.URL, err)
	}

	c.ws = ws
	c.send = make(chan []byte, c.config.SendBufferSize)
	c.state = StateOpen
	c.closing = false

	go c.writePump(ws, c.send)
	go c.readLoop(ws)

	log.Info().Str("url", c.config.URL).Msg("connected to coordinator")
	return nil
}

// Send marshals the message and queues it on the write pump. When the
// channel is not open the send is silently dropped: there is no
// buffering across connections and no error surfaced to the caller.
func (c *Conn) Send(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal outbound message")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		log.Debug().Msg("connection not open, dropping outbound message")
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Warn().Msg("send buffer full, dropping outbound message")
	}
}

// Close tears the channel down explicitly. No reload is scheduled.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	c.closing = true
	c.state = StateClosed
	close(c.send)
	c.mu.Unlock()

	log.Info().Msg("connection closed")
}

// writePump is the only goroutine that writes to the socket, pings
// included. It exits when the send channel closes or a write fails;
// closing the socket makes the read loop observe the closure.
func (c *Conn) writePump(ws *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case payload, ok := <-send:
			ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Error().Err(err).Msg("failed to write message to coordinator")
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Msg("failed to send ping")
				return
			}
		}
	}
}

// readLoop delivers inbound frames in arrival order and owns the
// closure transition once reads fail.
func (c *Conn) readLoop(ws *websocket.Conn) {
	ws.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		return nil
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error().Err(err).Msg("unexpected close from coordinator")
			}
			break
		}
		c.onFrame(data)
	}

	c.handleClosure(ws)
}

// handleClosure routes error and remote closure to the single recovery
// strategy: mark the connection closed and schedule a full session
// reload after the fixed delay. Explicit Close suppresses the reload.
func (c *Conn) handleClosure(ws *websocket.Conn) {
	c.mu.Lock()
	if c.ws != ws {
		// A fresh dial already replaced this socket.
		c.mu.Unlock()
		return
	}
	explicit := c.closing
	if c.state == StateOpen {
		c.state = StateClosed
		close(c.send)
	}
	c.mu.Unlock()

	if explicit || c.onReload == nil {
		return
	}

	log.Warn().
		Dur("reload_delay", c.config.ReloadDelay).
		Msg("connection lost, scheduling session reload")

	go func() {
		timer := c.clock.NewTimer(c.config.ReloadDelay)
		<-timer.Chan()
		c.onReload()
	}()
}
