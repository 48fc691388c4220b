package bingo

// LanguageProfile describes the grid shape a language plays on.
type LanguageProfile struct {
	Language string `json:"language"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
}

// Slots returns the total number of word cells on the grid.
func (p LanguageProfile) Slots() int {
	return p.Rows * p.Cols
}

// DefaultLanguage is returned by Classify when no profile matches the
// word count.
const DefaultLanguage = "spanish"

// Profiles lists the known language grids in declaration order. Slot
// counts are pairwise distinct, which is what makes word-count
// classification well-defined; if two profiles ever shared a count the
// earliest-declared one wins.
var Profiles = []LanguageProfile{
	{Language: "spanish", Rows: 4, Cols: 6},
	{Language: "english", Rows: 5, Cols: 5},
	{Language: "portuguese", Rows: 4, Cols: 5},
	{Language: "dutch", Rows: 5, Cols: 6},
}

// ProfileFor returns the profile registered under the given language key.
func ProfileFor(language string) (LanguageProfile, bool) {
	for _, p := range Profiles {
		if p.Language == language {
			return p, true
		}
	}
	return LanguageProfile{}, false
}

// Classify maps a word count to the language whose grid holds exactly
// that many words. Falls back to DefaultLanguage when nothing matches.
func Classify(wordCount int) string {
	for _, p := range Profiles {
		if p.Slots() == wordCount {
			return p.Language
		}
	}
	return DefaultLanguage
}

// Card is a player's bingo grid: an ordered word list plus marking and
// transmission state. Cards are owned by the client's card store; other
// components mutate them only through it.
type Card struct {
	ID          string
	Words       []string
	Language    string
	Transmitted bool

	marked map[string]bool
}

// NewCard builds an untransmitted, unmarked card and classifies its
// language from the word count.
func NewCard(id string, words []string) *Card {
	return &Card{
		ID:       id,
		Words:    words,
		Language: Classify(len(words)),
		marked:   make(map[string]bool),
	}
}

// Mark records a called word on the card. Returns true only when the
// word is on the card and was not already marked, so repeated delivery
// of the same call is a no-op.
func (c *Card) Mark(word string) bool {
	if c.marked[word] {
		return false
	}
	for _, w := range c.Words {
		if w == word {
			c.marked[word] = true
			return true
		}
	}
	return false
}

// IsMarked reports whether the word has been called on this card.
func (c *Card) IsMarked(word string) bool {
	return c.marked[word]
}

// MarkedCount returns how many of the card's words have been called.
func (c *Card) MarkedCount() int {
	return len(c.marked)
}

// MarkedWords returns the marked words in card order.
func (c *Card) MarkedWords() []string {
	out := make([]string, 0, len(c.marked))
	for _, w := range c.Words {
		if c.marked[w] {
			out = append(out, w)
		}
	}
	return out
}

// Complete reports whether every word on the card has been called.
func (c *Card) Complete() bool {
	return len(c.marked) == len(c.Words)
}
