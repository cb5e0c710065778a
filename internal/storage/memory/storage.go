package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	historyLength int
	summaries     map[model.MatchID]*model.MatchSummary
	history       []model.MatchID // Newest first
	records       map[string]*model.PlayerRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithHistoryLength(storage.DefaultHistoryLength)
}

// NewWithHistoryLength creates an in-memory storage that keeps at most n summaries
func NewWithHistoryLength(n int) *Storage {
	return &Storage{
		historyLength: n,
		summaries:     make(map[model.MatchID]*model.MatchSummary),
		records:       make(map[string]*model.PlayerRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match archive operations

func (s *Storage) SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *summary
	s.summaries[summary.ID] = &stored
	s.history = append([]model.MatchID{summary.ID}, s.history...)
	if len(s.history) > s.historyLength {
		for _, id := range s.history[s.historyLength:] {
			delete(s.summaries, id)
		}
		s.history = s.history[:s.historyLength]
	}

	if summary.WinnerName != "" {
		s.recordLocked(summary.WinnerName).Wins++
		s.recordLocked(summary.LoserName()).Losses++
	}
	return nil
}

func (s *Storage) GetMatchSummary(ctx context.Context, id model.MatchID) (*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	out := *summary
	return &out, nil
}

func (s *Storage) ListMatchSummaries(ctx context.Context, limit int) ([]*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.history
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]*model.MatchSummary, 0, len(ids))
	for _, id := range ids {
		summary := *s.summaries[id]
		out = append(out, &summary)
	}
	return out, nil
}

// Player record operations

func (s *Storage) GetPlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[recordKey(name)]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	out := *record
	return &out, nil
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) recordLocked(name string) *model.PlayerRecord {
	key := recordKey(name)
	record, ok := s.records[key]
	if !ok {
		record = &model.PlayerRecord{}
		s.records[key] = record
	}
	record.Name = name
	return record
}

func recordKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
