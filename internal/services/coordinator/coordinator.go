package coordinator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/clock"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/projection"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/registry"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
)

// archiveTimeout bounds a single archive write
const archiveTimeout = 5 * time.Second

// Notifier delivers outbound events to connections. Implementations must not block.
type Notifier interface {
	Notify(to model.ParticipantID, event model.Event)
	Broadcast(event model.Event)
	BroadcastExcept(except model.ParticipantID, event model.Event)
}

// BoardGenerator produces a freshly populated board for a new match
type BoardGenerator interface {
	Generate() (*model.Board, error)
}

// Coordinator owns the participant registry and the at-most-one match.
// Every exported operation runs under a single lock, so starts, shots,
// finishes and participant losses are totally ordered.
type Coordinator struct {
	mu sync.Mutex

	cfg         model.GameConfig
	registry    *registry.Registry
	projections *projection.Builder
	boards      BoardGenerator
	notifier    Notifier
	storage     storage.Storage
	clock       clock.Clock
	logger      *slog.Logger

	match      *model.Match
	resetTimer clock.Timer
	closed     bool
	archiving  sync.WaitGroup
}

// New creates a Coordinator. storage may be nil, in which case finished matches are not archived.
func New(
	cfg model.GameConfig,
	boards BoardGenerator,
	notifier Notifier,
	store storage.Storage,
	clk clock.Clock,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		cfg:         cfg,
		registry:    registry.New(clk, cfg.MaxNameLength),
		projections: projection.New(cfg.GridSize),
		boards:      boards,
		notifier:    notifier,
		storage:     store,
		clock:       clk,
		logger:      logger.With(slog.String("component", "coordinator")),
	}
}

// Session operations

// Join logs the connection in under the given name. On success the joiner
// receives its identity, everyone else the new participant list, and a match
// is started if possible.
func (c *Coordinator) Join(id model.ParticipantID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.registry.Register(id, name)
	if err != nil {
		c.logger.Debug("login rejected",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}
	c.logger.Info("participant joined",
		slog.String("participant_id", string(p.ID)),
		slog.String("name", p.Name),
	)

	users := c.registry.Public()
	c.notifier.Notify(id, model.Event{
		Type:    model.EventLoginOK,
		Payload: model.LoginOKPayload{You: p.Public(), Users: users},
	})
	c.notifier.BroadcastExcept(id, usersUpdate(users))

	if c.tryStartLocked() {
		c.broadcastStateLocked()
		return nil
	}
	if proj, ok := c.projections.For(c.match, c.registry, id); ok {
		c.notifier.Notify(id, model.NewGameStateEvent(proj))
	}
	return nil
}

// Leave removes the connection's participant, handling logout and disconnect alike
func (c *Coordinator) Leave(id model.ParticipantID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.Unregister(id) {
		return model.ErrNotLoggedIn
	}
	c.logger.Info("participant left", slog.String("participant_id", string(id)))

	c.notifier.Broadcast(usersUpdate(c.registry.Public()))
	if !c.handleLossLocked(id) {
		c.broadcastStateLocked()
	}
	return nil
}

// Shoot fires at the opponent's board on behalf of a logged-in connection
func (c *Coordinator) Shoot(id model.ParticipantID, x, y int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.Find(id); !ok {
		return model.ErrNotLoggedIn
	}
	return c.applyShotLocked(id, x, y)
}

// Chat fans a message out to every connection and acknowledges it to the sender
func (c *Coordinator) Chat(id model.ParticipantID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.registry.Find(id)
	if !ok {
		return model.ErrNotLoggedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ErrChatEmpty
	}
	if c.cfg.MaxChatLength > 0 && utf8.RuneCountInString(text) > c.cfg.MaxChatLength {
		return model.ErrChatTooLong
	}

	c.notifier.Broadcast(model.Event{
		Type:    model.EventChatReceived,
		Payload: model.ChatPayload{From: p.Name, Text: text},
	})
	c.notifier.Notify(id, model.Event{Type: model.EventChatOK})
	return nil
}

// Core match operations

// TryStartMatch starts a match between the two earliest participants if none exists
func (c *Coordinator) TryStartMatch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tryStartLocked() {
		c.broadcastStateLocked()
	}
}

// ApplyShot validates and applies a shot. A rejected shot changes nothing.
func (c *Coordinator) ApplyShot(shooter model.ParticipantID, x, y int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.applyShotLocked(shooter, x, y)
}

// FinishMatch ends the active match with the given winner and schedules the reset
func (c *Coordinator) FinishMatch(winner model.ParticipantID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.finishLocked(winner, model.FinishSunk)
}

// HandleParticipantLoss resolves the active match after a player went away.
// Every connection receives a fresh projection afterwards.
func (c *Coordinator) HandleParticipantLoss(id model.ParticipantID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.handleLossLocked(id) {
		c.broadcastStateLocked()
	}
}

// Read side

// ProjectFor returns the viewer's projection, or false if the viewer is not logged in
func (c *Coordinator) ProjectFor(viewer model.ParticipantID) (*model.Projection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.projections.For(c.match, c.registry, viewer)
}

// Participants returns the logged-in participants in registration order
func (c *Coordinator) Participants() []model.PublicParticipant {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.registry.Public()
}

// Status returns a board-free overview of the lobby and match
func (c *Coordinator) Status() model.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := model.Status{
		Participants: c.registry.Public(),
		Phase:        model.PhaseWaiting,
	}
	if m := c.match; m != nil {
		st.Phase = m.Phase
		st.MatchID = m.ID
		st.CurrentTurn = m.CurrentTurn
		st.ShotCount = len(m.Shots)
		st.Winner = m.Winner
		for i, id := range m.Players {
			st.Players = append(st.Players, model.PublicParticipant{ID: id, Name: m.PlayerNames[i]})
		}
	}
	return st
}

// Close cancels a pending reset and waits for in-flight archive writes
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.mu.Unlock()

	c.archiving.Wait()
}

// Locked helpers; callers hold c.mu

func (c *Coordinator) tryStartLocked() bool {
	if c.match != nil || c.registry.Count() < 2 {
		return false
	}
	participants := c.registry.List()
	first, second := participants[0], participants[1]

	boards := make(map[model.ParticipantID]*model.Board, 2)
	for _, p := range []model.Participant{first, second} {
		b, err := c.boards.Generate()
		if err != nil {
			c.logger.Error("failed to generate board",
				slog.String("participant_id", string(p.ID)),
				slog.String("error", err.Error()),
			)
			return false
		}
		boards[p.ID] = b
	}

	c.match = &model.Match{
		ID:          model.MatchID(uuid.NewString()),
		Players:     [2]model.ParticipantID{first.ID, second.ID},
		PlayerNames: [2]string{first.Name, second.Name},
		Boards:      boards,
		Shots:       []model.Shot{},
		CurrentTurn: first.ID,
		Phase:       model.PhasePlaying,
		StartedAt:   c.clock.Now(),
	}
	c.logger.Info("match started",
		slog.String("match_id", string(c.match.ID)),
		slog.String("first", first.Name),
		slog.String("second", second.Name),
	)
	return true
}

func (c *Coordinator) applyShotLocked(shooter model.ParticipantID, x, y int) error {
	err := c.validateShotLocked(shooter, x, y)
	if err != nil {
		c.logger.Debug("shot rejected",
			slog.String("participant_id", string(shooter)),
			slog.Int("x", x),
			slog.Int("y", y),
			slog.String("error", err.Error()),
		)
		return err
	}

	m := c.match
	opponent, _ := m.Opponent(shooter)
	board := m.Boards[opponent]
	cell := board.At(model.Position{X: x, Y: y})
	cell.Hit = true
	m.Shots = append(m.Shots, model.Shot{X: x, Y: y, ShooterID: shooter, Hit: cell.HasShip})

	if board.RemainingShipCells() == 0 {
		c.finishLocked(shooter, model.FinishSunk)
		return nil
	}
	m.CurrentTurn = opponent
	c.broadcastStateLocked()
	return nil
}

// validateShotLocked checks a shot in a fixed order; the first failure wins
func (c *Coordinator) validateShotLocked(shooter model.ParticipantID, x, y int) error {
	m := c.match
	if m == nil {
		return model.ErrNoActiveMatch
	}
	if m.Phase != model.PhasePlaying {
		return model.ErrNotPlayingPhase
	}
	if !m.HasPlayer(shooter) {
		return model.ErrNotInMatch
	}
	if m.CurrentTurn != shooter {
		return model.ErrNotYourTurn
	}
	if x < 0 || y < 0 || x >= c.cfg.GridSize || y >= c.cfg.GridSize {
		return model.ErrInvalidCoordinate
	}
	opponent, ok := m.Opponent(shooter)
	if !ok {
		return model.ErrNoOpponent
	}
	board := m.Boards[opponent]
	if board == nil {
		return model.ErrNoBoard
	}
	cell := board.At(model.Position{X: x, Y: y})
	if cell == nil {
		return model.ErrInvalidCoordinate
	}
	if cell.Hit {
		return model.ErrAlreadyShot
	}
	return nil
}

func (c *Coordinator) finishLocked(winner model.ParticipantID, reason model.FinishReason) {
	m := c.match
	if m == nil || m.Phase == model.PhaseFinished {
		return
	}
	m.Phase = model.PhaseFinished
	m.Winner = winner
	m.CurrentTurn = ""
	m.FinishedAt = c.clock.Now()

	c.logger.Info("match finished",
		slog.String("match_id", string(m.ID)),
		slog.String("winner", string(winner)),
		slog.String("reason", string(reason)),
		slog.Int("shots", len(m.Shots)),
	)

	c.broadcastStateLocked()
	c.archiveLocked(m, reason)
	c.scheduleResetLocked(m)
}

// handleLossLocked reports whether it already broadcast the new state
func (c *Coordinator) handleLossLocked(id model.ParticipantID) bool {
	m := c.match
	if m == nil || m.Phase != model.PhasePlaying || !m.HasPlayer(id) {
		return false
	}

	other, _ := m.Opponent(id)
	if _, ok := c.registry.Find(other); ok {
		c.finishLocked(other, model.FinishForfeit)
		return true
	}

	c.logger.Info("match abandoned", slog.String("match_id", string(m.ID)))
	m.FinishedAt = c.clock.Now()
	c.archiveLocked(m, model.FinishAbandoned)
	c.match = nil
	c.tryStartLocked()
	return false
}

func (c *Coordinator) scheduleResetLocked(finished *model.Match) {
	if c.closed {
		return
	}
	if c.resetTimer != nil {
		c.resetTimer.Stop()
	}
	c.resetTimer = c.clock.AfterFunc(c.cfg.FinishDelay, func() {
		c.reset(finished)
	})
}

// reset clears the finished match and immediately tries to start the next one.
// A timer that fires after Close, or for a match that is already gone, does nothing.
func (c *Coordinator) reset(finished *model.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.match != finished {
		return
	}
	c.match = nil
	c.resetTimer = nil
	c.logger.Info("match reset", slog.String("match_id", string(finished.ID)))

	c.tryStartLocked()
	c.broadcastStateLocked()
}

func (c *Coordinator) archiveLocked(m *model.Match, reason model.FinishReason) {
	if c.storage == nil || c.closed {
		return
	}
	summary := &model.MatchSummary{
		ID:          m.ID,
		PlayerNames: m.PlayerNames,
		Reason:      reason,
		ShotCount:   len(m.Shots),
		StartedAt:   m.StartedAt,
		FinishedAt:  m.FinishedAt,
	}
	if i := m.PlayerIndex(m.Winner); i >= 0 && m.Winner != "" {
		summary.WinnerName = m.PlayerNames[i]
	}

	c.archiving.Add(1)
	go func() {
		defer c.archiving.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := c.storage.SaveMatchSummary(ctx, summary); err != nil {
			c.logger.Error("failed to archive match",
				slog.String("match_id", string(summary.ID)),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (c *Coordinator) broadcastStateLocked() {
	for _, ap := range c.projections.All(c.match, c.registry) {
		c.notifier.Notify(ap.To, model.NewGameStateEvent(ap.Projection))
	}
}

func usersUpdate(users []model.PublicParticipant) model.Event {
	return model.Event{
		Type:    model.EventUsersUpdate,
		Payload: model.UsersUpdatePayload{Users: users},
	}
}
