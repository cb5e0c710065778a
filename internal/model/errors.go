package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrNameEmpty       = errors.New("name must not be empty")
	ErrNameTooLong     = errors.New("name is too long")
	ErrNameTaken       = errors.New("name is already taken")
	ErrAlreadyLoggedIn = errors.New("connection is already logged in")
	ErrNotLoggedIn     = errors.New("connection is not logged in")

	// Shot errors, in validation order
	ErrNoActiveMatch     = errors.New("no active match")
	ErrNotPlayingPhase   = errors.New("match is not in the playing phase")
	ErrNotInMatch        = errors.New("participant is not part of the match")
	ErrNotYourTurn       = errors.New("not this participant's turn")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoOpponent        = errors.New("no opponent")
	ErrNoBoard           = errors.New("opponent board not found")
	ErrAlreadyShot       = errors.New("cell has already been shot")

	// Chat errors
	ErrChatEmpty   = errors.New("chat message must not be empty")
	ErrChatTooLong = errors.New("chat message is too long")

	// Board errors
	ErrFleetDoesNotFit = errors.New("fleet does not fit on the board")

	// Archive errors
	ErrRecordNotFound = errors.New("player record not found")
	ErrMatchNotFound  = errors.New("match not found")
)
