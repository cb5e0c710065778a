package request

import "math"

// LoginRequest is the data of a login frame
type LoginRequest struct {
	Name string `json:"name"`
}

// ShootRequest is the data of a shoot frame.
// Coordinates are decoded loosely so that a bad value is reported as an
// invalid coordinate rather than a malformed frame.
type ShootRequest struct {
	X any `json:"x"`
	Y any `json:"y"`
}

// Coordinates returns the target cell; missing or non-integer values become -1
func (r ShootRequest) Coordinates() (x, y int) {
	return toCoordinate(r.X), toCoordinate(r.Y)
}

func toCoordinate(v any) int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}

// ChatRequest is the data of a chat.send frame
type ChatRequest struct {
	Text string `json:"text"`
}
