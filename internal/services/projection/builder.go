package projection

import "github.com/Kemiem/schiffe-versenken-ms4/internal/model"

// Directory resolves participants for a projection
type Directory interface {
	Find(id model.ParticipantID) (model.Participant, bool)
	List() []model.Participant
}

// Builder derives per-viewer snapshots of the shared state.
// A projection holds the viewer's own ships and the outcome of shots, never
// the opponent's unhit ship cells.
type Builder struct {
	gridSize int
}

// New creates a Builder for boards of the given size
func New(gridSize int) *Builder {
	return &Builder{gridSize: gridSize}
}

// For builds the viewer's projection. It returns false if the viewer is not registered.
func (b *Builder) For(match *model.Match, dir Directory, viewer model.ParticipantID) (*model.Projection, bool) {
	self, ok := dir.Find(viewer)
	if !ok {
		return nil, false
	}
	return b.build(match, dir, self), true
}

// All builds one projection per registered participant, in registration order
func (b *Builder) All(match *model.Match, dir Directory) []model.AddressedProjection {
	participants := dir.List()
	out := make([]model.AddressedProjection, 0, len(participants))
	for _, p := range participants {
		out = append(out, model.AddressedProjection{
			To:         p.ID,
			Projection: b.build(match, dir, p),
		})
	}
	return out
}

func (b *Builder) build(match *model.Match, dir Directory, self model.Participant) *model.Projection {
	p := &model.Projection{
		Phase:          model.PhaseWaiting,
		GridSize:       b.gridSize,
		You:            self.Public(),
		MyShips:        []model.ShipCell{},
		MyShots:        []model.ShotView{},
		EnemyShotsOnMe: []model.ShotView{},
	}
	if match == nil || !match.HasPlayer(self.ID) {
		return p
	}

	p.Phase = match.Phase
	if match.Phase == model.PhasePlaying {
		p.CurrentTurn = match.CurrentTurn
	}
	if match.Phase == model.PhaseFinished {
		p.Winner = match.Winner
	}

	if oppID, ok := match.Opponent(self.ID); ok {
		if opp, ok := dir.Find(oppID); ok {
			pub := opp.Public()
			p.Opponent = &pub
		}
	}

	if board := match.Boards[self.ID]; board != nil {
		if ships := board.ShipCells(); ships != nil {
			p.MyShips = ships
		}
	}

	for _, shot := range match.Shots {
		view := model.ShotView{X: shot.X, Y: shot.Y, Hit: shot.Hit}
		if shot.ShooterID == self.ID {
			p.MyShots = append(p.MyShots, view)
		} else {
			p.EnemyShotsOnMe = append(p.EnemyShotsOnMe, view)
		}
	}
	return p
}
