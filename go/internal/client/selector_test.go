package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DanRCM/bingo/go/internal/bingo"
	"github.com/DanRCM/bingo/go/internal/client"
)

// cardWithMarks builds a card with an explicit language and a number of
// marked words.
func cardWithMarks(id, language string, words []string, marked int) *bingo.Card {
	c := bingo.NewCard(id, words)
	c.Language = language
	for i := 0; i < marked; i++ {
		c.Mark(words[i])
	}
	return c
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name            string
		cards           []*bingo.Card
		currentLanguage string
		expected        int
	}{
		{
			name:     "no cards selects index zero",
			cards:    nil,
			expected: 0,
		},
		{
			name: "no marks anywhere selects index zero",
			cards: []*bingo.Card{
				cardWithMarks("a", "spanish", []string{"x", "y"}, 0),
				cardWithMarks("b", "english", []string{"x", "y"}, 0),
			},
			currentLanguage: "spanish",
			expected:        0,
		},
		{
			name: "language best beats higher-scoring foreign card",
			cards: []*bingo.Card{
				cardWithMarks("a", "spanish", []string{"v", "w", "x", "y", "z"}, 2),
				cardWithMarks("b", "spanish", []string{"v", "w", "x", "y", "z"}, 2),
				cardWithMarks("c", "english", []string{"v", "w", "x", "y", "z"}, 5),
			},
			currentLanguage: "spanish",
			expected:        0, // A: first among the tied spanish cards
		},
		{
			name: "ties go to the earliest card",
			cards: []*bingo.Card{
				cardWithMarks("a", "english", []string{"x", "y"}, 1),
				cardWithMarks("b", "english", []string{"x", "y"}, 1),
			},
			currentLanguage: "english",
			expected:        0,
		},
		{
			name: "falls back to global best when current language has no marks",
			cards: []*bingo.Card{
				cardWithMarks("a", "spanish", []string{"x", "y"}, 0),
				cardWithMarks("b", "english", []string{"x", "y", "z"}, 3),
			},
			currentLanguage: "spanish",
			expected:        1,
		},
		{
			name: "single marked language card wins over unmarked earlier cards",
			cards: []*bingo.Card{
				cardWithMarks("a", "english", []string{"x", "y"}, 0),
				cardWithMarks("b", "dutch", []string{"x", "y"}, 1),
			},
			currentLanguage: "dutch",
			expected:        1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.SelectBest(tt.cards, tt.currentLanguage))
		})
	}
}
