// Package protocol encodes and decodes the JSON text frames exchanged over
// the game socket. Every frame is an envelope {"event": "...", "data": {...}}.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/apierr"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// Inbound event names
const (
	EventLogin    = "login"
	EventLogout   = "logout"
	EventShoot    = "shoot"
	EventChatSend = "chat.send"
)

// ErrMalformedFrame is returned for frames that are not a valid envelope
var ErrMalformedFrame = errors.New("malformed frame")

// Envelope is the outer shape of every frame
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Decode parses an inbound frame
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("%w: missing event", ErrMalformedFrame)
	}
	return env, nil
}

// DecodeData unmarshals the envelope's data into v. Absent or null data leaves v untouched.
func (e Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformedFrame, e.Event, err)
	}
	return nil
}

// Encode renders an outbound event as a frame
func Encode(event model.Event) ([]byte, error) {
	data, err := payload(event)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(string(event.Type), data)
}

// EncodeFrame renders an arbitrary envelope, as clients do for inbound frames
func EncodeFrame(eventName string, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Event: eventName, Data: raw})
}

func payload(event model.Event) (any, error) {
	switch p := event.Payload.(type) {
	case model.LoginOKPayload:
		return response.LoginOK{
			You:   response.ParticipantFromModel(p.You),
			Users: response.ParticipantsFromModel(p.Users),
		}, nil
	case model.UsersUpdatePayload:
		return response.UsersUpdate{Users: response.ParticipantsFromModel(p.Users)}, nil
	case *model.Projection:
		return response.GameStateFromModel(p), nil
	case model.ErrorPayload:
		return apierr.FromError(p.Err), nil
	case model.ChatPayload:
		return response.ChatReceived{From: p.From, Text: p.Text}, nil
	case nil:
		if event.Type == model.EventChatOK {
			return response.ChatOK{Received: true}, nil
		}
		return struct{}{}, nil
	default:
		return nil, fmt.Errorf("no encoding for %s payload %T", event.Type, event.Payload)
	}
}
