package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// APIError represents an error as sent to clients, over HTTP or the socket
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Stable error codes shared by the HTTP API and the socket protocol
const (
	CodeNameEmpty         = "NAME_EMPTY"
	CodeNameTooLong       = "NAME_TOO_LONG"
	CodeNameTaken         = "NAME_TAKEN"
	CodeAlreadyLoggedIn   = "ALREADY_LOGGED_IN"
	CodeNotLoggedIn       = "NOT_LOGGED_IN"
	CodeNoActiveMatch     = "NO_ACTIVE_MATCH"
	CodeNotPlayingPhase   = "NOT_PLAYING_PHASE"
	CodeNotInMatch        = "NOT_IN_MATCH"
	CodeNotYourTurn       = "NOT_YOUR_TURN"
	CodeInvalidCoordinate = "INVALID_COORDINATE"
	CodeNoOpponent        = "NO_OPPONENT"
	CodeNoBoard           = "NO_BOARD"
	CodeAlreadyShot       = "ALREADY_SHOT"
	CodeChatEmpty         = "CHAT_EMPTY"
	CodeChatTooLong       = "CHAT_TOO_LONG"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// FromError returns the client-facing code and message for an error
func FromError(err error) APIError {
	return toHTTPError(err).apiError
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	// Login
	case errors.Is(err, model.ErrNameEmpty):
		return &httpError{http.StatusBadRequest, APIError{CodeNameEmpty, "Name must not be empty"}}
	case errors.Is(err, model.ErrNameTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeNameTooLong, "Name is too long"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Name is already taken"}}
	case errors.Is(err, model.ErrAlreadyLoggedIn):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyLoggedIn, "Already logged in"}}
	case errors.Is(err, model.ErrNotLoggedIn):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotLoggedIn, "Not logged in"}}

	// Shots
	case errors.Is(err, model.ErrNoActiveMatch):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveMatch, "No active match"}}
	case errors.Is(err, model.ErrNotPlayingPhase):
		return &httpError{http.StatusConflict, APIError{CodeNotPlayingPhase, "Match is not being played"}}
	case errors.Is(err, model.ErrNotInMatch):
		return &httpError{http.StatusForbidden, APIError{CodeNotInMatch, "You are not part of the match"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrInvalidCoordinate):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCoordinate, "Coordinate is off the board"}}
	case errors.Is(err, model.ErrNoOpponent):
		return &httpError{http.StatusConflict, APIError{CodeNoOpponent, "No opponent"}}
	case errors.Is(err, model.ErrNoBoard):
		return &httpError{http.StatusInternalServerError, APIError{CodeNoBoard, "Opponent board not found"}}
	case errors.Is(err, model.ErrAlreadyShot):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyShot, "Cell has already been shot"}}

	// Chat
	case errors.Is(err, model.ErrChatEmpty):
		return &httpError{http.StatusBadRequest, APIError{CodeChatEmpty, "Message must not be empty"}}
	case errors.Is(err, model.ErrChatTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeChatTooLong, "Message is too long"}}

	// Archive
	case errors.Is(err, model.ErrRecordNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Player record not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Match not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
