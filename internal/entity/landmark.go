package entity

// Hand landmark indices following the MediaPipe hand model convention.
// Only the joints the palm heuristic reads are named.
const (
	ThumbMCP     = 2
	ThumbTip     = 4
	IndexPIP     = 6
	IndexTip     = 8
	MiddlePIP    = 10
	MiddleTip    = 12
	RingPIP      = 14
	RingTip      = 16
	PinkyPIP     = 18
	PinkyTip     = 20
	NumLandmarks = 21
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: 21 normalized landmark points.
type HandLandmarks struct {
	Points [NumLandmarks]Point `json:"points"`
}
