package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/clock"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/random"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/board"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/coordinator"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/gateway"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage/memory"
	redisstorage "github.com/Kemiem/schiffe-versenken-ms4/internal/storage/redis"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService *board.Service
	Coordinator  *coordinator.Coordinator
	Gateway      *gateway.Gateway
	Hub          *ws.Hub

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the archive backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GameConfig holds the match rules (optional)
	// If zero value, defaults to model.DefaultGameConfig()
	GameConfig model.GameConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	gameCfg := cfg.GameConfig
	if gameCfg.GridSize == 0 {
		gameCfg = model.DefaultGameConfig()
	}
	if err := gameCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	hub := ws.NewHub(logger)
	return newWithDependencies(gameCfg, store, clk, rnd, hub, hub, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing).
// notifier receives every coordinator event; in production it is the hub itself.
func newWithDependencies(
	gameCfg model.GameConfig,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	hub *ws.Hub,
	notifier coordinator.Notifier,
	logger *slog.Logger,
) *App {
	boardService := board.New(gameCfg, rnd, logger)
	coord := coordinator.New(gameCfg, boardService, notifier, store, clk, logger)
	gw := gateway.New(coord, notifier, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		BoardService: boardService,
		Coordinator:  coord,
		Gateway:      gw,
		Hub:          hub,
		logger:       logger,
	}
}

// Close stops the coordinator, drops every socket and closes storage, in that order
func (a *App) Close() error {
	a.Coordinator.Close()
	a.Hub.Close()
	if err := a.Storage.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.String("error", err.Error()))
		return err
	}
	return nil
}
