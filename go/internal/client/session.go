// Package client holds the session core: the card store, the
// transmission queue, the round/game state machine, and the dispatcher
// that applies server events to them.
package client

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DanRCM/bingo/go/internal/bingo"
	"github.com/DanRCM/bingo/go/internal/protocol"
)

// Connection is the session's view of the channel to the coordinator.
// Satisfied by transport.Conn.
type Connection interface {
	Dial(ctx context.Context) error
	Send(v interface{})
	Close()
}

// SessionMsg is a message consumed by the session loop.
type SessionMsg interface{ isSessionMsg() }

type frameMsg struct{ data []byte }

type registerMsg struct{ name string }

type addCardsMsg struct{ cards []*bingo.Card }

type playMsg struct{}

type viewMsg struct{ reply chan View }

func (frameMsg) isSessionMsg()    {}
func (registerMsg) isSessionMsg() {}
func (addCardsMsg) isSessionMsg() {}
func (playMsg) isSessionMsg()     {}
func (viewMsg) isSessionMsg()     {}

// Session owns all mutable state for one game session: one store, one
// round state, one connection. Everything is mutated on a single
// goroutine that consumes the inbox, so state transitions always run to
// completion before the next event is processed. A session is built
// fresh at process start and again after every reload; nothing survives
// it.
type Session struct {
	clientID string
	conn     Connection
	store    *Store
	round    *RoundState
	queue    *TxQueue

	playerCount int
	selected    int
	roundResult *protocol.RoundEndPayload
	gameResult  *protocol.GameEndPayload

	inbox  chan SessionMsg
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession constructs a session around the given connection and starts
// its loop. clientID is the per-session identifier the connection is
// addressed by; the pacing delay throttles card transmission, pass
// DefaultPaceDelay outside tests.
func NewSession(parent context.Context, clientID string, conn Connection, clock clockwork.Clock, pace time.Duration) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		clientID: clientID,
		conn:     conn,
		store:    NewStore(),
		round:    NewRoundState(),
		inbox:    make(chan SessionMsg, 64),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.queue = NewTxQueue(s.store, s.transmit, clock, pace)

	go s.loop()
	return s
}

// ClientID returns the per-session identifier used to address the
// coordinator channel.
func (s *Session) ClientID() string {
	return s.clientID
}

// HandleFrame feeds one inbound frame into the session. The transport
// read loop calls it in arrival order; the blocking send preserves that
// order into the loop.
func (s *Session) HandleFrame(data []byte) {
	s.post(frameMsg{data: data})
}

// Register opens the channel and announces the player name.
func (s *Session) Register(name string) {
	s.post(registerMsg{name: name})
}

// AddCards appends parsed cards to the store and starts transmission.
func (s *Session) AddCards(cards []*bingo.Card) {
	s.post(addCardsMsg{cards: cards})
}

// Play asks the coordinator to start the game.
func (s *Session) Play() {
	s.post(playMsg{})
}

// View returns a read-only snapshot for the presentation layer. Safe to
// call from any goroutine; returns the zero view once the session is
// shut down.
func (s *Session) View() View {
	reply := make(chan View, 1)
	select {
	case s.inbox <- viewMsg{reply: reply}:
	case <-s.ctx.Done():
		return View{}
	}
	select {
	case v := <-reply:
		return v
	case <-s.ctx.Done():
		return View{}
	}
}

// Close shuts the session down and tears the connection down explicitly.
func (s *Session) Close() {
	s.cancel()
	s.conn.Close()
}

func (s *Session) post(m SessionMsg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return

		case <-s.queue.TimerChan():
			s.queue.Tick()

		case m := <-s.inbox:
			switch msg := m.(type) {
			case frameMsg:
				s.handleFrame(msg.data)

			case registerMsg:
				if err := s.conn.Dial(s.ctx); err != nil {
					log.Error().Err(err).Msg("failed to open coordinator channel")
					break
				}
				s.conn.Send(protocol.NewRegisterMessage(msg.name))
				log.Info().Str("user", msg.name).Str("client_id", s.clientID).Msg("registered")

			case addCardsMsg:
				s.store.Add(msg.cards...)
				// Post-mutation hook: the addition itself starts the
				// drain, no deferral involved.
				s.queue.Kick()

			case playMsg:
				s.conn.Send(protocol.NewPlayMessage())

			case viewMsg:
				msg.reply <- s.buildView()
			}
		}
	}
}

// transmit hands one card to the connection. If the channel is not open
// the send is dropped and the card still counts as transmitted; a lost
// connection forces a full reload, which rebuilds the store and derives
// "untransmitted" from scratch.
func (s *Session) transmit(card *bingo.Card) {
	s.conn.Send(protocol.NewBingoCardMessage(card.ID, card.Words, card.Language))
}
