package client

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DanRCM/bingo/go/internal/bingo"
)

// DefaultPaceDelay is the fixed pause between consecutive card sends. It
// is a pacing throttle, not an acknowledgment wait; the protocol has no
// per-card ack.
const DefaultPaceDelay = 100 * time.Millisecond

// sendFunc hands one card to the connection. The queue does not learn
// whether the send reached the wire; a drop is still a completed step.
type sendFunc func(*bingo.Card)

// TxQueue drains the store's untransmitted cards in insertion order, one
// at a time, each card at most once. It is driven entirely from the
// session loop: Kick starts a drain after an addition, and the loop
// calls Tick when the pacing timer fires. Because each step re-scans the
// store instead of working off a snapshot, cards added mid-drain are
// picked up by the drain already in flight.
type TxQueue struct {
	store *Store
	send  sendFunc
	clock clockwork.Clock
	pace  time.Duration

	draining bool
	timer    clockwork.Timer
}

// NewTxQueue creates a queue over the given store.
func NewTxQueue(store *Store, send sendFunc, clock clockwork.Clock, pace time.Duration) *TxQueue {
	return &TxQueue{
		store: store,
		send:  send,
		clock: clock,
		pace:  pace,
	}
}

// Kick starts a drain unless one is already running. Called
// synchronously after every store addition.
func (q *TxQueue) Kick() {
	if q.draining {
		return
	}
	q.draining = true
	q.step()
}

// TimerChan exposes the pacing timer for the session loop's select. Nil
// while no drain is waiting, so the case never fires spuriously.
func (q *TxQueue) TimerChan() <-chan time.Time {
	if q.timer == nil {
		return nil
	}
	return q.timer.Chan()
}

// Tick advances the drain after the pacing delay elapsed.
func (q *TxQueue) Tick() {
	q.timer = nil
	q.step()
}

// Draining reports whether a drain is in flight.
func (q *TxQueue) Draining() bool {
	return q.draining
}

// step sends the first untransmitted card, marks it transmitted, and
// arms the pacing timer before looking again. When nothing is left the
// drain stops and a later addition restarts it via Kick.
func (q *TxQueue) step() {
	card := q.store.FirstUntransmitted()
	if card == nil {
		q.draining = false
		q.timer = nil
		return
	}

	q.send(card)
	q.store.MarkTransmitted(card)
	log.Debug().
		Str("card_id", card.ID).
		Str("language", card.Language).
		Msg("card transmitted")

	q.timer = q.clock.NewTimer(q.pace)
}
