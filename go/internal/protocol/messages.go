// Package protocol defines the JSON messages exchanged with the game
// coordinator over the session WebSocket.
package protocol

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates inbound server events.
type EventType string

const (
	EventTypePlayerCount  EventType = "player_count"
	EventTypeGameStarted  EventType = "game_started"
	EventTypeRoundStart   EventType = "round_start"
	EventTypeWordSelected EventType = "word_selected"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypeGameEnd      EventType = "game_end"
)

// GameEvent is the decoded envelope of an inbound frame. Data holds the
// full original frame so payload fields can be decoded per type.
type GameEvent struct {
	Type EventType
	Data json.RawMessage
}

// DecodeEvent parses a raw inbound frame into an event envelope. The
// payload is not decoded here; ParseEventPayload does that per type, so
// an unknown type can still be identified and skipped.
func DecodeEvent(data []byte) (*GameEvent, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("event has no type")
	}
	return &GameEvent{Type: head.Type, Data: data}, nil
}

// GameStartedPayload carries no fields; the event is the signal.
type GameStartedPayload struct{}

// PlayerCountPayload reports the number of registered players.
type PlayerCountPayload struct {
	Count int `json:"count"`
}

// RoundStartPayload announces a new language round.
type RoundStartPayload struct {
	Language    string `json:"language"`
	RoundNumber int    `json:"round_number"`
	TotalRounds int    `json:"total_rounds"`
}

// WordSelectedPayload announces the current called word and which of the
// client's cards the server matched it against.
type WordSelectedPayload struct {
	Word     string   `json:"word"`
	Language string   `json:"language"`
	CardIDs  []string `json:"card_ids"`
}

// WireCard is the card representation used on the wire, both for
// outbound card transmission and inside round results.
type WireCard struct {
	ID          string   `json:"id"`
	Words       []string `json:"words"`
	Language    string   `json:"language"`
	MarkedWords []string `json:"markedWords,omitempty"`
}

// RoundWinner names a player and the completed card that won the round.
type RoundWinner struct {
	Name string   `json:"name"`
	Card WireCard `json:"card"`
}

// RoundEndPayload closes a language round. Winners is empty when the
// round ran out of words with no completed card.
type RoundEndPayload struct {
	Language string        `json:"language"`
	Winners  []RoundWinner `json:"winners"`
}

// GameEndPayload closes the game. Winners holds zero, one or many names.
type GameEndPayload struct {
	Winners []string `json:"winners"`
}

// ParseEventPayload decodes the payload struct for a game event. Returns
// (nil, nil) for event types this client does not know, which callers
// treat as a forward-compatible no-op.
func ParseEventPayload(event *GameEvent) (interface{}, error) {
	switch event.Type {
	case EventTypePlayerCount:
		var payload PlayerCountPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameStarted:
		return GameStartedPayload{}, nil

	case EventTypeRoundStart:
		var payload RoundStartPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeWordSelected:
		var payload WordSelectedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeRoundEnd:
		var payload RoundEndPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameEnd:
		var payload GameEndPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil
	}
}

// Outbound client messages.

// RegisterMessage announces the player to the coordinator.
type RegisterMessage struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// NewRegisterMessage builds a register message for the given player name.
func NewRegisterMessage(user string) RegisterMessage {
	return RegisterMessage{Type: "register", User: user}
}

// BingoCardMessage transmits one locally authored card.
type BingoCardMessage struct {
	Type string   `json:"type"`
	Card WireCard `json:"card"`
}

// NewBingoCardMessage builds the transmission message for a card.
func NewBingoCardMessage(id string, words []string, language string) BingoCardMessage {
	return BingoCardMessage{
		Type: "bingo_card",
		Card: WireCard{ID: id, Words: words, Language: language},
	}
}

// PlayMessage asks the coordinator to start the game.
type PlayMessage struct {
	Type string `json:"type"`
}

// NewPlayMessage builds a play message.
func NewPlayMessage() PlayMessage {
	return PlayMessage{Type: "play"}
}
