package client

// Phase is the round/game lifecycle phase. Transitions only follow
// Lobby -> InProgress -> RoundEnded -> InProgress -> ... -> GameEnded.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseInProgress Phase = "in_progress"
	PhaseRoundEnded Phase = "round_ended"
	PhaseGameEnded  Phase = "game_ended"
)

// RoundState tracks the server-driven game progression. CurrentWord is
// only meaningful while the phase is InProgress and is cleared whenever
// a round or the game ends.
type RoundState struct {
	Phase           Phase
	CurrentLanguage string
	CurrentWord     string
	Round           int
	TotalRounds     int
}

// NewRoundState starts a session in the lobby.
func NewRoundState() *RoundState {
	return &RoundState{Phase: PhaseLobby}
}

// GameStarted moves the session out of the lobby.
func (r *RoundState) GameStarted() {
	if r.Phase == PhaseLobby {
		r.Phase = PhaseInProgress
	}
}

// RoundStarted begins a language round and resets the current word.
func (r *RoundState) RoundStarted(language string, round, totalRounds int) {
	r.CurrentLanguage = language
	r.CurrentWord = ""
	r.Round = round
	r.TotalRounds = totalRounds
	r.Phase = PhaseInProgress
}

// WordSelected records the word currently being called.
func (r *RoundState) WordSelected(word string) {
	r.CurrentWord = word
}

// RoundEnded closes the current round.
func (r *RoundState) RoundEnded() {
	r.CurrentWord = ""
	r.Phase = PhaseRoundEnded
}

// GameEnded closes the game. The current word is always empty afterward.
func (r *RoundState) GameEnded() {
	r.CurrentWord = ""
	r.Phase = PhaseGameEnded
}
