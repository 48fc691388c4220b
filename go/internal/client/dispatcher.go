package client

import (
	"github.com/rs/zerolog/log"

	"github.com/DanRCM/bingo/go/internal/protocol"
)

// handleFrame decodes an inbound frame and applies it to the session.
// Decode happens fully before any mutation, so a malformed frame is
// logged and dropped without leaving the round state partially updated.
// Unknown event types are a forward-compatible no-op.
func (s *Session) handleFrame(data []byte) {
	event, err := protocol.DecodeEvent(data)
	if err != nil {
		log.Warn().Err(err).Msg("dropping undecodable frame")
		return
	}

	payload, err := protocol.ParseEventPayload(event)
	if err != nil {
		log.Warn().Err(err).Str("event_type", string(event.Type)).Msg("dropping malformed event payload")
		return
	}
	if payload == nil {
		log.Debug().Str("event_type", string(event.Type)).Msg("ignoring unknown event type")
		return
	}

	switch p := payload.(type) {
	case protocol.PlayerCountPayload:
		s.playerCount = p.Count

	case protocol.GameStartedPayload:
		s.round.GameStarted()
		log.Info().Msg("game started")

	case protocol.RoundStartPayload:
		s.round.RoundStarted(p.Language, p.RoundNumber, p.TotalRounds)
		log.Info().
			Str("language", p.Language).
			Int("round", p.RoundNumber).
			Int("total_rounds", p.TotalRounds).
			Msg("round started")

	case protocol.WordSelectedPayload:
		s.round.WordSelected(p.Word)
		s.store.MarkWord(p.Word, p.CardIDs)
		// Marks are committed above, so the selector always observes the
		// fully-updated state.
		s.selected = SelectBest(s.store.Cards(), s.round.CurrentLanguage)

	case protocol.RoundEndPayload:
		s.round.RoundEnded()
		result := p
		s.roundResult = &result
		log.Info().
			Str("language", p.Language).
			Int("winners", len(p.Winners)).
			Msg("round ended")

	case protocol.GameEndPayload:
		s.round.GameEnded()
		result := p
		s.gameResult = &result
		// The final standings supersede any pending round result.
		s.roundResult = nil
		log.Info().Strs("winners", p.Winners).Msg("game ended")
	}
}
