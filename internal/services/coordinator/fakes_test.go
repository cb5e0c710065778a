package coordinator

import (
	"errors"
	"sync"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// sentEvent is one call made on the recordingNotifier
type sentEvent struct {
	To        model.ParticipantID // Empty for broadcasts
	Broadcast bool
	Except    model.ParticipantID
	Event     model.Event
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(to model.ParticipantID, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{To: to, Event: event})
}

func (n *recordingNotifier) Broadcast(event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{Broadcast: true, Event: event})
}

func (n *recordingNotifier) BroadcastExcept(except model.ParticipantID, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{Broadcast: true, Except: except, Event: event})
}

func (n *recordingNotifier) all() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.events...)
}

func (n *recordingNotifier) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// lastState returns the most recent projection delivered to the participant
func (n *recordingNotifier) lastState(to model.ParticipantID) *model.Projection {
	events := n.all()
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.To == to && e.Event.Type == model.EventGameState {
			return e.Event.Payload.(*model.Projection)
		}
	}
	return nil
}

// fixedBoards hands out identical boards with ships on the given cells
type fixedBoards struct {
	mu    sync.Mutex
	size  int
	ships []model.Position
	err   error
	calls int
}

func (g *fixedBoards) Generate() (*model.Board, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	b := model.NewBoard(g.size)
	for _, pos := range g.ships {
		b.At(pos).HasShip = true
	}
	return b, nil
}

var errBoardFailure = errors.New("board generation failed")
