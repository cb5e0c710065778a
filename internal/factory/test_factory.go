package factory

import (
	"sync"
	"time"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/mocks"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/coordinator"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage/memory"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/testutil"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/web/ws"
)

// TestGameConfig is a 4x4 board with one two-cell ship and one one-cell ship
func TestGameConfig() model.GameConfig {
	cfg := model.DefaultGameConfig()
	cfg.GridSize = 4
	cfg.Fleet = []int{2, 1}
	cfg.PlacementAttempts = 10
	return cfg
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Events records everything the coordinator sends, then forwards it to the hub
	Events *EventRecorder
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := testutil.NopLogger()

	hub := ws.NewHub(logger)
	events := &EventRecorder{next: hub}
	app := newWithDependencies(TestGameConfig(), store, mockClock, mockRandom, hub, events, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Events:     events,
	}
}

// QueueBoard queues the random draws that place the test fleet: the two-cell
// ship horizontally at (x2, y2) and the one-cell ship at (x1, y1).
func (t *TestApp) QueueBoard(x2, y2, x1, y1 int) {
	t.MockRandom.QueueIntn(0, x2, y2, 0, x1, y1)
}

// RecordedEvent is one delivery made by the coordinator
type RecordedEvent struct {
	To        model.ParticipantID
	Broadcast bool
	Except    model.ParticipantID
	Event     model.Event
}

// EventRecorder is a coordinator.Notifier that keeps a copy of every event
type EventRecorder struct {
	mu     sync.Mutex
	events []RecordedEvent
	next   coordinator.Notifier
}

var _ coordinator.Notifier = (*EventRecorder)(nil)

// Notify records and forwards a direct event
func (r *EventRecorder) Notify(to model.ParticipantID, event model.Event) {
	r.record(RecordedEvent{To: to, Event: event})
	r.next.Notify(to, event)
}

// Broadcast records and forwards a broadcast
func (r *EventRecorder) Broadcast(event model.Event) {
	r.record(RecordedEvent{Broadcast: true, Event: event})
	r.next.Broadcast(event)
}

// BroadcastExcept records and forwards a broadcast that skips one connection
func (r *EventRecorder) BroadcastExcept(except model.ParticipantID, event model.Event) {
	r.record(RecordedEvent{Broadcast: true, Except: except, Event: event})
	r.next.BroadcastExcept(except, event)
}

// All returns every recorded event in order
func (r *EventRecorder) All() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}

// Clear forgets recorded events
func (r *EventRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LastStateFor returns the most recent game.state addressed to a participant
func (r *EventRecorder) LastStateFor(id model.ParticipantID) (*model.Projection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if e.Event.Type != model.EventGameState {
			continue
		}
		p, ok := e.Event.Payload.(*model.Projection)
		if !ok {
			continue
		}
		if e.To == id || (e.Broadcast && p.You.ID == id) {
			return p, true
		}
	}
	return nil, false
}

func (r *EventRecorder) record(e RecordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
