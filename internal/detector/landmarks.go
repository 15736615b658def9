// Package detector provides hand detection interfaces and types for the viewer.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
//
// The classifier reads landmarks by these names; if the upstream detector ever
// changes its index order, this table is the single place that must change.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a detected landmark in normalized image coordinates.
// X and Y are in [0,1] with the origin at the top-left and Y increasing
// downward; Z is relative depth and may be zero if the detector omits it.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: the 21 MediaPipe landmarks in index
// order plus the detector's handedness call. Landmarks are reported for a
// mirrored (selfie) view, so a right hand's thumb extends toward smaller X.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Mirror returns a copy of the hand reflected about the vertical center line,
// with the handedness label swapped. Useful for deriving left-hand fixtures
// from right-hand ones.
func (h HandLandmarks) Mirror() HandLandmarks {
	m := HandLandmarks{
		Points: make([]Point3D, len(h.Points)),
		Score:  h.Score,
	}

	switch h.Handedness {
	case "Left":
		m.Handedness = "Right"
	case "Right":
		m.Handedness = "Left"
	default:
		m.Handedness = h.Handedness
	}

	for i, p := range h.Points {
		m.Points[i] = Point3D{X: 1.0 - p.X, Y: p.Y, Z: p.Z}
	}

	return m
}
