package client

import (
	"github.com/DanRCM/bingo/go/internal/bingo"
)

// SelectBest returns the index of the card to display after a marking
// mutation. It scans the store in order, tracking the globally best card
// by marked count and the best card restricted to the round's current
// language. Ties go to the first card encountered; later cards with
// equal counts never displace an earlier one. If any current-language
// card has at least one mark the language-restricted best wins,
// otherwise the global best does, which is index 0 when nothing is
// marked anywhere.
func SelectBest(cards []*bingo.Card, currentLanguage string) int {
	best := 0
	bestCount := -1
	langBest := -1
	langCount := 0

	for i, c := range cards {
		n := c.MarkedCount()
		if n > bestCount {
			best = i
			bestCount = n
		}
		if c.Language == currentLanguage && n > langCount {
			langBest = i
			langCount = n
		}
	}

	if langBest >= 0 {
		return langBest
	}
	return best
}
