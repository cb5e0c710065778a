package registry

import (
	"strings"
	"unicode/utf8"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/clock"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// Registry maps connections to their logged-in participants.
// It is not safe for concurrent use; its owner serializes access.
type Registry struct {
	clock         clock.Clock
	maxNameLength int
	participants  []*model.Participant // Registration order
}

// New creates an empty Registry
func New(clk clock.Clock, maxNameLength int) *Registry {
	return &Registry{
		clock:         clk,
		maxNameLength: maxNameLength,
	}
}

// Register adds a participant for the connection under the trimmed name
func (r *Registry) Register(id model.ParticipantID, name string) (*model.Participant, error) {
	if r.indexOf(id) >= 0 {
		return nil, model.ErrAlreadyLoggedIn
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > r.maxNameLength {
		return nil, model.ErrNameTooLong
	}
	for _, p := range r.participants {
		if strings.EqualFold(p.Name, name) {
			return nil, model.ErrNameTaken
		}
	}

	p := &model.Participant{
		ID:       id,
		Name:     name,
		JoinedAt: r.clock.Now(),
	}
	r.participants = append(r.participants, p)
	out := *p
	return &out, nil
}

// Unregister removes the connection's participant and reports whether one existed
func (r *Registry) Unregister(id model.ParticipantID) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.participants = append(r.participants[:i], r.participants[i+1:]...)
	return true
}

// Find returns a copy of the connection's participant
func (r *Registry) Find(id model.ParticipantID) (model.Participant, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return model.Participant{}, false
	}
	return *r.participants[i], true
}

// List returns copies of all participants in registration order
func (r *Registry) List() []model.Participant {
	out := make([]model.Participant, len(r.participants))
	for i, p := range r.participants {
		out[i] = *p
	}
	return out
}

// Public returns the public identities of all participants in registration order
func (r *Registry) Public() []model.PublicParticipant {
	out := make([]model.PublicParticipant, len(r.participants))
	for i, p := range r.participants {
		out[i] = p.Public()
	}
	return out
}

// Count returns the number of registered participants
func (r *Registry) Count() int {
	return len(r.participants)
}

func (r *Registry) indexOf(id model.ParticipantID) int {
	for i, p := range r.participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}
