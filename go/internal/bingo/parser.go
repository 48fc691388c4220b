package bingo

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNoWords is returned by NewManualCard when the word list is empty
// after blank lines are filtered out.
var ErrNoWords = errors.New("card has no words")

// ParseCards turns line-oriented card text into cards. One card per
// non-blank line: the first whitespace-delimited token is the card id,
// the remaining tokens are its words. Lines with fewer than two tokens
// carry no playable card and are skipped rather than rejected; a file of
// only such lines yields an empty slice, which the caller surfaces as
// "no cards loaded". Duplicate ids are accepted and treated as
// independent cards.
func ParseCards(text string) []*Card {
	var cards []*Card
	for _, line := range strings.Split(text, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}
		cards = append(cards, NewCard(tokens[0], tokens[1:]))
	}
	return cards
}

// NewManualCard builds a single card from form-style input: an id field
// plus a newline-delimited word list. Blank word lines are dropped
// before the language is classified. A blank id gets a generated one so
// manually entered cards are still addressable by the server's
// word_selected calls.
func NewManualCard(id, wordsText string) (*Card, error) {
	var words []string
	for _, line := range strings.Split(wordsText, "\n") {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.New().String()
	}
	return NewCard(id, words), nil
}
