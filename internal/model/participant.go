package model

import "time"

// ParticipantID identifies a connected participant. It is minted per connection
// by the transport, so it doubles as the connection identity.
type ParticipantID string

// Participant represents a logged-in connection with a display name
type Participant struct {
	ID       ParticipantID
	Name     string
	JoinedAt time.Time
}

// PublicParticipant is the part of a participant that other viewers may see
type PublicParticipant struct {
	ID   ParticipantID
	Name string
}

// Public strips the participant down to its public identity
func (p Participant) Public() PublicParticipant {
	return PublicParticipant{ID: p.ID, Name: p.Name}
}

// PlayerRecord tracks how a display name has fared across archived matches
type PlayerRecord struct {
	Name   string
	Wins   int
	Losses int
}
