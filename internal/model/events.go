package model

// EventType identifies an outbound notification
type EventType string

const (
	// Session events
	EventLoginOK     EventType = "login.ok"
	EventLoginError  EventType = "login.error"
	EventUsersUpdate EventType = "users.update"

	// Game events
	EventGameState EventType = "game.state"
	EventError     EventType = "error"

	// Chat events
	EventChatReceived EventType = "chat.received"
	EventChatOK       EventType = "chat.ok"
)

// Event is an outbound notification produced by the core
type Event struct {
	Type    EventType
	Payload any // Type-specific data
}

// LoginOKPayload is sent to a participant after a successful login
type LoginOKPayload struct {
	You   PublicParticipant
	Users []PublicParticipant
}

// UsersUpdatePayload carries the participant list after any registry change
type UsersUpdatePayload struct {
	Users []PublicParticipant
}

// ErrorPayload carries a rejected request's error
type ErrorPayload struct {
	Err error
}

// ChatPayload carries a chat message fanned out to every connection
type ChatPayload struct {
	From string
	Text string
}

// NewGameStateEvent wraps a projection
func NewGameStateEvent(p *Projection) Event {
	return Event{Type: EventGameState, Payload: p}
}

// NewErrorEvent wraps a rejected request's error
func NewErrorEvent(eventType EventType, err error) Event {
	return Event{Type: eventType, Payload: ErrorPayload{Err: err}}
}
