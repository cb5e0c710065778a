package gateway

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/apierr"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/request"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/protocol"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/coordinator"
)

// Sessions is the part of the coordinator the gateway drives
type Sessions interface {
	Join(id model.ParticipantID, name string) error
	Leave(id model.ParticipantID) error
	Shoot(id model.ParticipantID, x, y int) error
	Chat(id model.ParticipantID, text string) error
}

// Gateway turns inbound socket frames into coordinator calls.
// Rejections are reported to the originating connection only.
type Gateway struct {
	sessions Sessions
	notifier coordinator.Notifier
	logger   *slog.Logger
}

// New creates a new Gateway
func New(sessions Sessions, notifier coordinator.Notifier, logger *slog.Logger) *Gateway {
	return &Gateway{
		sessions: sessions,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "gateway")),
	}
}

// HandleMessage dispatches one inbound frame from the connection
func (g *Gateway) HandleMessage(id model.ParticipantID, frame []byte) {
	env, err := protocol.Decode(frame)
	if err != nil {
		g.logger.Debug("malformed frame",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()),
		)
		g.reject(id, model.EventError, apierr.NewInvalidRequestError("Malformed frame"))
		return
	}

	switch env.Event {
	case protocol.EventLogin:
		var req request.LoginRequest
		if !g.decode(id, env, &req) {
			return
		}
		if err := g.sessions.Join(id, req.Name); err != nil {
			g.reject(id, model.EventLoginError, err)
		}

	case protocol.EventLogout:
		if err := g.sessions.Leave(id); err != nil {
			g.reject(id, model.EventError, err)
		}

	case protocol.EventShoot:
		var req request.ShootRequest
		if !g.decode(id, env, &req) {
			return
		}
		x, y := req.Coordinates()
		if err := g.sessions.Shoot(id, x, y); err != nil {
			g.reject(id, model.EventError, err)
		}

	case protocol.EventChatSend:
		var req request.ChatRequest
		if !g.decode(id, env, &req) {
			return
		}
		if err := g.sessions.Chat(id, req.Text); err != nil {
			g.reject(id, model.EventError, err)
		}

	default:
		g.reject(id, model.EventError, apierr.NewInvalidRequestError(fmt.Sprintf("Unknown event %q", env.Event)))
	}
}

// Disconnect treats a closed connection like a logout
func (g *Gateway) Disconnect(id model.ParticipantID) {
	err := g.sessions.Leave(id)
	if err != nil && !errors.Is(err, model.ErrNotLoggedIn) {
		g.logger.Error("failed to release connection",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
}

func (g *Gateway) decode(id model.ParticipantID, env protocol.Envelope, v any) bool {
	if err := env.DecodeData(v); err != nil {
		g.reject(id, model.EventError, apierr.NewInvalidRequestError(fmt.Sprintf("Invalid %s data", env.Event)))
		return false
	}
	return true
}

func (g *Gateway) reject(id model.ParticipantID, eventType model.EventType, err error) {
	if apierr.Status(err) >= 500 {
		g.logger.Error("request failed",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
	g.notifier.Notify(id, model.NewErrorEvent(eventType, err))
}
