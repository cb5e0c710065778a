package model

// ShipCell is one of the viewer's own ship cells
type ShipCell struct {
	X   int
	Y   int
	Hit bool
}

// ShotView is a shot as exposed to a viewer, without the shooter
type ShotView struct {
	X   int
	Y   int
	Hit bool
}

// Projection is the viewer-specific snapshot of the game state.
// It only ever contains the viewer's own ships and the outcome of shots.
type Projection struct {
	Phase          Phase
	GridSize       int
	You            PublicParticipant
	Opponent       *PublicParticipant
	CurrentTurn    ParticipantID
	MyShips        []ShipCell
	MyShots        []ShotView
	EnemyShotsOnMe []ShotView
	Winner         ParticipantID
}

// AddressedProjection pairs a projection with the participant it belongs to
type AddressedProjection struct {
	To         ParticipantID
	Projection *Projection
}

// Status is the public overview of the server, free of board contents
type Status struct {
	Participants []PublicParticipant
	Phase        Phase
	MatchID      MatchID
	Players      []PublicParticipant
	CurrentTurn  ParticipantID
	ShotCount    int
	Winner       ParticipantID
}
