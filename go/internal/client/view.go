package client

import (
	"github.com/DanRCM/bingo/go/internal/protocol"
)

// CardView is the read-only card representation exposed to the
// presentation layer.
type CardView struct {
	ID          string   `json:"id"`
	Words       []string `json:"words"`
	Language    string   `json:"language"`
	MarkedWords []string `json:"marked_words"`
	Transmitted bool     `json:"transmitted"`
	Complete    bool     `json:"complete"`
}

// View is a consistent snapshot of everything the presentation layer
// renders: round state, the card collection, the selected card, the
// player count, and the result records.
type View struct {
	Phase           Phase                     `json:"phase"`
	CurrentLanguage string                    `json:"current_language,omitempty"`
	CurrentWord     string                    `json:"current_word,omitempty"`
	Round           int                       `json:"round,omitempty"`
	TotalRounds     int                       `json:"total_rounds,omitempty"`
	PlayerCount     int                       `json:"player_count"`
	SelectedCard    int                       `json:"selected_card"`
	Cards           []CardView                `json:"cards"`
	RoundResult     *protocol.RoundEndPayload `json:"round_result,omitempty"`
	GameResult      *protocol.GameEndPayload  `json:"game_result,omitempty"`
}

// buildView snapshots the session state. Runs on the session loop, so it
// observes fully-committed state only.
func (s *Session) buildView() View {
	cards := make([]CardView, 0, s.store.Len())
	for _, c := range s.store.Cards() {
		cards = append(cards, CardView{
			ID:          c.ID,
			Words:       c.Words,
			Language:    c.Language,
			MarkedWords: c.MarkedWords(),
			Transmitted: c.Transmitted,
			Complete:    c.Complete(),
		})
	}

	return View{
		Phase:           s.round.Phase,
		CurrentLanguage: s.round.CurrentLanguage,
		CurrentWord:     s.round.CurrentWord,
		Round:           s.round.Round,
		TotalRounds:     s.round.TotalRounds,
		PlayerCount:     s.playerCount,
		SelectedCard:    s.selected,
		Cards:           cards,
		RoundResult:     s.roundResult,
		GameResult:      s.gameResult,
	}
}
