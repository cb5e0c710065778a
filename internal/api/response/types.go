package response

import (
	"time"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// Socket frame data. Keys are camelCase to match browser clients.

// Participant is the public identity of a logged-in connection
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ParticipantFromModel converts a model.PublicParticipant
func ParticipantFromModel(p model.PublicParticipant) Participant {
	return Participant{
		ID:   string(p.ID),
		Name: p.Name,
	}
}

// ParticipantsFromModel converts a participant list, never returning nil
func ParticipantsFromModel(ps []model.PublicParticipant) []Participant {
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = ParticipantFromModel(p)
	}
	return out
}

// LoginOK is the data of a login.ok frame
type LoginOK struct {
	You   Participant   `json:"you"`
	Users []Participant `json:"users"`
}

// UsersUpdate is the data of a users.update frame
type UsersUpdate struct {
	Users []Participant `json:"users"`
}

// Cell is a ship cell or shot outcome
type Cell struct {
	X   int  `json:"x"`
	Y   int  `json:"y"`
	Hit bool `json:"hit"`
}

// GameState is the data of a game.state frame
type GameState struct {
	Phase               string       `json:"phase"`
	GridSize            int          `json:"gridSize"`
	You                 Participant  `json:"you"`
	Opponent            *Participant `json:"opponent"`
	CurrentTurnPlayerID *string      `json:"currentTurnPlayerId"`
	MyShips             []Cell       `json:"myShips"`
	EnemyShotsOnMe      []Cell       `json:"enemyShotsOnMe"`
	MyShots             []Cell       `json:"myShots"`
	WinnerID            *string      `json:"winnerId"`
}

// GameStateFromModel converts a model.Projection
func GameStateFromModel(p *model.Projection) GameState {
	gs := GameState{
		Phase:               string(p.Phase),
		GridSize:            p.GridSize,
		You:                 ParticipantFromModel(p.You),
		CurrentTurnPlayerID: optionalID(p.CurrentTurn),
		MyShips:             make([]Cell, len(p.MyShips)),
		EnemyShotsOnMe:      shotsFromModel(p.EnemyShotsOnMe),
		MyShots:             shotsFromModel(p.MyShots),
		WinnerID:            optionalID(p.Winner),
	}
	if p.Opponent != nil {
		opp := ParticipantFromModel(*p.Opponent)
		gs.Opponent = &opp
	}
	for i, c := range p.MyShips {
		gs.MyShips[i] = Cell{X: c.X, Y: c.Y, Hit: c.Hit}
	}
	return gs
}

// IsMyTurn reports whether the viewer holds the turn
func (gs GameState) IsMyTurn() bool {
	return gs.CurrentTurnPlayerID != nil && *gs.CurrentTurnPlayerID == gs.You.ID
}

func shotsFromModel(shots []model.ShotView) []Cell {
	out := make([]Cell, len(shots))
	for i, s := range shots {
		out[i] = Cell{X: s.X, Y: s.Y, Hit: s.Hit}
	}
	return out
}

func optionalID(id model.ParticipantID) *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}

// ChatReceived is the data of a chat.received frame
type ChatReceived struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// ChatOK is the data of a chat.ok frame
type ChatOK struct {
	Received bool `json:"received"`
}

// HTTP API bodies

// Health is the response of the health endpoint
type Health struct {
	Status string `json:"status"`
}

// Status is the public overview of the server
type Status struct {
	Participants []Participant `json:"participants"`
	Phase        string        `json:"phase"`
	MatchID      string        `json:"match_id,omitempty"`
	Players      []Participant `json:"players"`
	CurrentTurn  *string       `json:"current_turn"`
	ShotCount    int           `json:"shot_count"`
	Winner       *string       `json:"winner"`
}

// StatusFromModel converts a model.Status
func StatusFromModel(s model.Status) Status {
	return Status{
		Participants: ParticipantsFromModel(s.Participants),
		Phase:        string(s.Phase),
		MatchID:      string(s.MatchID),
		Players:      ParticipantsFromModel(s.Players),
		CurrentTurn:  optionalID(s.CurrentTurn),
		ShotCount:    s.ShotCount,
		Winner:       optionalID(s.Winner),
	}
}

// MatchSummary represents an archived match
type MatchSummary struct {
	ID         string    `json:"id"`
	Players    []string  `json:"players"`
	Winner     *string   `json:"winner"`
	Reason     string    `json:"reason"`
	ShotCount  int       `json:"shot_count"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// MatchSummaryFromModel converts a model.MatchSummary
func MatchSummaryFromModel(s *model.MatchSummary) MatchSummary {
	ms := MatchSummary{
		ID:         string(s.ID),
		Players:    []string{s.PlayerNames[0], s.PlayerNames[1]},
		Reason:     string(s.Reason),
		ShotCount:  s.ShotCount,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
	if s.WinnerName != "" {
		winner := s.WinnerName
		ms.Winner = &winner
	}
	return ms
}

// MatchHistory is the response of the matches endpoint
type MatchHistory struct {
	Matches []MatchSummary `json:"matches"`
}

// MatchHistoryFromModel converts a list of summaries, newest first
func MatchHistoryFromModel(summaries []*model.MatchSummary) MatchHistory {
	out := MatchHistory{Matches: make([]MatchSummary, len(summaries))}
	for i, s := range summaries {
		out.Matches[i] = MatchSummaryFromModel(s)
	}
	return out
}

// PlayerRecord is a display name's win/loss record
type PlayerRecord struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// PlayerRecordFromModel converts a model.PlayerRecord
func PlayerRecordFromModel(r *model.PlayerRecord) PlayerRecord {
	return PlayerRecord{
		Name:   r.Name,
		Wins:   r.Wins,
		Losses: r.Losses,
	}
}
