package client

import (
	"github.com/DanRCM/bingo/go/internal/bingo"
)

// Store is the ordered collection of the player's cards and the single
// source of truth for their transmission and marking state. It is only
// touched from the session loop, so it needs no locking; every other
// component reads or mutates through it rather than holding copies.
type Store struct {
	cards []*bingo.Card
}

// NewStore creates an empty card store.
func NewStore() *Store {
	return &Store{}
}

// Add appends cards in the order given. Cards are never removed during a
// session. Duplicate ids are accepted and treated as independent cards.
func (s *Store) Add(cards ...*bingo.Card) {
	s.cards = append(s.cards, cards...)
}

// Cards returns the cards in insertion order.
func (s *Store) Cards() []*bingo.Card {
	return s.cards
}

// Len returns the number of cards held.
func (s *Store) Len() int {
	return len(s.cards)
}

// FirstUntransmitted returns the earliest card that has not been sent,
// or nil when every card has been.
func (s *Store) FirstUntransmitted() *bingo.Card {
	for _, c := range s.cards {
		if !c.Transmitted {
			return c
		}
	}
	return nil
}

// MarkTransmitted records that the card has been handed to the
// connection. The flag only ever flips once; there is no retry path, so
// a send dropped by a closed connection still counts as transmitted.
func (s *Store) MarkTransmitted(c *bingo.Card) {
	c.Transmitted = true
}

// MarkWord marks the called word on every card whose id is listed and
// whose word list contains it. Returns true when at least one card
// gained a new mark; re-delivering the same call changes nothing.
func (s *Store) MarkWord(word string, cardIDs []string) bool {
	ids := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		ids[id] = true
	}

	changed := false
	for _, c := range s.cards {
		if !ids[c.ID] {
			continue
		}
		if c.Mark(word) {
			changed = true
		}
	}
	return changed
}
