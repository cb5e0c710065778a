package storage

import (
	"context"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// DefaultHistoryLength is how many match summaries the archive keeps
const DefaultHistoryLength = 100

// Storage archives finished matches and the win/loss records derived from them.
// Live session and match state is never stored here.
type Storage interface {
	// Match archive operations
	SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error
	GetMatchSummary(ctx context.Context, id model.MatchID) (*model.MatchSummary, error)
	ListMatchSummaries(ctx context.Context, limit int) ([]*model.MatchSummary, error)

	// Player record operations, keyed case-insensitively by display name
	GetPlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error)

	Close() error
}
