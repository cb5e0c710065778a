package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// Phase is the lifecycle stage of a match as seen by a viewer
type Phase string

const (
	PhaseWaiting  Phase = "waiting"  // No match for this viewer
	PhasePlaying  Phase = "playing"  // Shots are being exchanged
	PhaseFinished Phase = "finished" // Winner decided, reset pending
)

// Shot is one entry of a match's shot log
type Shot struct {
	X         int
	Y         int
	ShooterID ParticipantID
	Hit       bool
}

// Match is the single active two-player game
type Match struct {
	ID MatchID

	// Players is fixed at creation; Players[0] takes the first turn
	Players     [2]ParticipantID
	PlayerNames [2]string // Captured at start; a player may leave before the match is archived
	Boards      map[ParticipantID]*Board

	// Shots is the ordered log; order decides "my shots" vs "shots against me"
	Shots []Shot

	CurrentTurn ParticipantID // Empty unless Phase is playing
	Phase       Phase
	Winner      ParticipantID // Empty until finished (and on abandon)

	StartedAt  time.Time
	FinishedAt time.Time
}

// HasPlayer returns true if the participant is one of the two players
func (m *Match) HasPlayer(id ParticipantID) bool {
	return m.Players[0] == id || m.Players[1] == id
}

// PlayerIndex returns the position of the participant in Players, or -1
func (m *Match) PlayerIndex(id ParticipantID) int {
	for i, p := range m.Players {
		if p == id {
			return i
		}
	}
	return -1
}

// Opponent returns the other player of the match
func (m *Match) Opponent(id ParticipantID) (ParticipantID, bool) {
	switch id {
	case m.Players[0]:
		return m.Players[1], m.Players[1] != ""
	case m.Players[1]:
		return m.Players[0], m.Players[0] != ""
	default:
		return "", false
	}
}

// FinishReason records why a match ended
type FinishReason string

const (
	FinishSunk      FinishReason = "sunk"      // Whole fleet hit
	FinishForfeit   FinishReason = "forfeit"   // Opponent left mid-match
	FinishAbandoned FinishReason = "abandoned" // Both gone, no winner
)

// MatchSummary is the archived record of a finished match
type MatchSummary struct {
	ID          MatchID
	PlayerNames [2]string
	WinnerName  string
	Reason      FinishReason
	ShotCount   int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// LoserName returns the name of the player who did not win, if any
func (s *MatchSummary) LoserName() string {
	if s.WinnerName == "" {
		return ""
	}
	if s.PlayerNames[0] == s.WinnerName {
		return s.PlayerNames[1]
	}
	return s.PlayerNames[0]
}
