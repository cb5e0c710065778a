package board

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/random"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// MaxRegenerations bounds how many times Generate starts over from an empty board
const MaxRegenerations = 100

// ErrPlacementExhausted is returned when a ship could not be placed within the allowed attempts
var ErrPlacementExhausted = errors.New("ship placement attempts exhausted")

// Service generates randomly populated boards
type Service struct {
	config model.GameConfig
	random random.Random
	logger *slog.Logger
}

// New creates a new BoardService
func New(config model.GameConfig, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		config: config,
		random: rnd,
		logger: logger.With(slog.String("component", "board")),
	}
}

// Generate returns a fresh board with the configured fleet placed on it.
// A board whose placement gets stuck is thrown away and generated from
// scratch; ships are never retried on a partially filled board.
func (s *Service) Generate() (*model.Board, error) {
	for attempt := 1; attempt <= MaxRegenerations; attempt++ {
		b := model.NewBoard(s.config.GridSize)
		err := s.PlaceFleet(b, s.config.Fleet)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrPlacementExhausted) {
			return nil, err
		}
		s.logger.Debug("board placement stuck, regenerating",
			slog.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("gave up after %d boards: %w", MaxRegenerations, model.ErrFleetDoesNotFit)
}

// PlaceFleet places each ship of the fleet, in order, at a random origin and
// orientation. Ships may touch but never share a cell.
func (s *Service) PlaceFleet(b *model.Board, fleet []int) error {
	for _, length := range fleet {
		if length <= 0 || length > b.Size {
			return fmt.Errorf("ship length %d on a %dx%d board: %w", length, b.Size, b.Size, model.ErrFleetDoesNotFit)
		}
		if !s.placeShip(b, length) {
			return fmt.Errorf("ship of length %d: %w", length, ErrPlacementExhausted)
		}
	}
	return nil
}

// placeShip tries random spots until the ship fits or the attempts run out
func (s *Service) placeShip(b *model.Board, length int) bool {
	for try := 0; try < s.config.PlacementAttempts; try++ {
		horizontal := s.random.Intn(2) == 0
		origin := model.Position{
			X: s.random.Intn(b.Size),
			Y: s.random.Intn(b.Size),
		}
		if CanPlace(b, origin, length, horizontal) {
			for _, pos := range ShipPositions(origin, length, horizontal) {
				b.At(pos).HasShip = true
			}
			return true
		}
	}
	return false
}

// CanPlace reports whether a ship fits in bounds without overlapping another ship
func CanPlace(b *model.Board, origin model.Position, length int, horizontal bool) bool {
	for _, pos := range ShipPositions(origin, length, horizontal) {
		cell := b.At(pos)
		if cell == nil || cell.HasShip {
			return false
		}
	}
	return true
}

// ShipPositions lists the cells a ship covers from its origin
func ShipPositions(origin model.Position, length int, horizontal bool) []model.Position {
	positions := make([]model.Position, length)
	for i := 0; i < length; i++ {
		if horizontal {
			positions[i] = model.Position{X: origin.X + i, Y: origin.Y}
		} else {
			positions[i] = model.Position{X: origin.X, Y: origin.Y + i}
		}
	}
	return positions
}
