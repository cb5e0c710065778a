package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match archive operations

func (s *Storage) SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	// Use pipeline so the summary, history index and records land together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, matchSummaryKey(summary.ID), data, s.cfg.SummaryTTL)
	pipe.LPush(ctx, matchHistoryKey(), string(summary.ID))
	if s.cfg.HistoryLength > 0 {
		pipe.LTrim(ctx, matchHistoryKey(), 0, int64(s.cfg.HistoryLength-1))
	}
	if summary.WinnerName != "" {
		s.bumpRecord(ctx, pipe, summary.WinnerName, recordFieldWins)
		s.bumpRecord(ctx, pipe, summary.LoserName(), recordFieldLosses)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) bumpRecord(ctx context.Context, pipe redis.Pipeliner, name, field string) {
	key := playerRecordKey(name)
	pipe.HSet(ctx, key, recordFieldName, name)
	pipe.HIncrBy(ctx, key, field, 1)
}

func (s *Storage) GetMatchSummary(ctx context.Context, id model.MatchID) (*model.MatchSummary, error) {
	data, err := s.client.Get(ctx, matchSummaryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var summary model.MatchSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Storage) ListMatchSummaries(ctx context.Context, limit int) ([]*model.MatchSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.LRange(ctx, matchHistoryKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.MatchSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchSummaryKey(model.MatchID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.MatchSummary, 0, len(values))
	for _, v := range values {
		// Expired summaries leave a dangling ID in the history list
		str, ok := v.(string)
		if !ok {
			continue
		}
		var summary model.MatchSummary
		if err := json.Unmarshal([]byte(str), &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

// Player record operations

func (s *Storage) GetPlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error) {
	fields, err := s.client.HGetAll(ctx, playerRecordKey(name)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrRecordNotFound
	}

	record := &model.PlayerRecord{Name: fields[recordFieldName]}
	if record.Wins, err = parseCount(fields[recordFieldWins]); err != nil {
		return nil, err
	}
	if record.Losses, err = parseCount(fields[recordFieldLosses]); err != nil {
		return nil, err
	}
	return record, nil
}

func parseCount(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("corrupt record counter %q: %w", v, err)
	}
	return n, nil
}
