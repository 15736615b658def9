package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	err    error
	config Config
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{config: DefaultConfig()}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// SetConfig records the configuration for inspection in tests.
func (m *MockDetector) SetConfig(config Config) {
	m.config = config
}

// Config returns the last configuration passed to SetConfig.
func (m *MockDetector) Config() Config {
	return m.config
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// The preset builders below produce right-hand landmark sets as MediaPipe
// reports them for a mirrored (selfie) camera: the thumb of a right hand
// points toward smaller X, fingertips point up (smaller Y).

// OpenPalmLandmarks returns a preset hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	lm := newHand()

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.85}

	// Thumb extended out to the side
	lm.Points[ThumbCMC] = Point3D{X: 0.42, Y: 0.78}
	lm.Points[ThumbMCP] = Point3D{X: 0.36, Y: 0.72}
	lm.Points[ThumbIP] = Point3D{X: 0.31, Y: 0.66}
	lm.Points[ThumbTip] = Point3D{X: 0.27, Y: 0.61}

	// Index finger straight up
	lm.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.62}
	lm.Points[IndexPIP] = Point3D{X: 0.43, Y: 0.50}
	lm.Points[IndexDIP] = Point3D{X: 0.42, Y: 0.42}
	lm.Points[IndexTip] = Point3D{X: 0.41, Y: 0.34}

	// Middle finger straight up
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.47}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.38}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.29}

	// Ring finger straight up
	lm.Points[RingMCP] = Point3D{X: 0.56, Y: 0.62}
	lm.Points[RingPIP] = Point3D{X: 0.57, Y: 0.50}
	lm.Points[RingDIP] = Point3D{X: 0.58, Y: 0.42}
	lm.Points[RingTip] = Point3D{X: 0.58, Y: 0.34}

	// Pinky straight up
	lm.Points[PinkyMCP] = Point3D{X: 0.62, Y: 0.66}
	lm.Points[PinkyPIP] = Point3D{X: 0.64, Y: 0.56}
	lm.Points[PinkyDIP] = Point3D{X: 0.65, Y: 0.49}
	lm.Points[PinkyTip] = Point3D{X: 0.66, Y: 0.43}

	return lm
}

// FistLandmarks returns a preset hand with all fingers curled and the thumb
// tucked across the palm.
func FistLandmarks() HandLandmarks {
	lm := newHand()

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.85}

	// Thumb folded over the curled fingers
	lm.Points[ThumbCMC] = Point3D{X: 0.43, Y: 0.78}
	lm.Points[ThumbMCP] = Point3D{X: 0.39, Y: 0.72}
	lm.Points[ThumbIP] = Point3D{X: 0.38, Y: 0.68}
	lm.Points[ThumbTip] = Point3D{X: 0.40, Y: 0.72}

	// Index curled, tip back down toward the palm
	lm.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.62}
	lm.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.56}
	lm.Points[IndexDIP] = Point3D{X: 0.45, Y: 0.60}
	lm.Points[IndexTip] = Point3D{X: 0.46, Y: 0.64}

	// Middle curled
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.54}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.58}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.63}

	// Ring curled
	lm.Points[RingMCP] = Point3D{X: 0.56, Y: 0.62}
	lm.Points[RingPIP] = Point3D{X: 0.56, Y: 0.56}
	lm.Points[RingDIP] = Point3D{X: 0.55, Y: 0.60}
	lm.Points[RingTip] = Point3D{X: 0.55, Y: 0.64}

	// Pinky curled
	lm.Points[PinkyMCP] = Point3D{X: 0.61, Y: 0.65}
	lm.Points[PinkyPIP] = Point3D{X: 0.62, Y: 0.60}
	lm.Points[PinkyDIP] = Point3D{X: 0.61, Y: 0.63}
	lm.Points[PinkyTip] = Point3D{X: 0.60, Y: 0.66}

	return lm
}

// PeaceLandmarks returns a preset hand with index and middle fingers
// extended and everything else curled.
func PeaceLandmarks() HandLandmarks {
	lm := FistLandmarks()

	// Thumb resting against the curled ring finger
	lm.Points[ThumbCMC] = Point3D{X: 0.43, Y: 0.78}
	lm.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.73}
	lm.Points[ThumbIP] = Point3D{X: 0.39, Y: 0.69}
	lm.Points[ThumbTip] = Point3D{X: 0.43, Y: 0.67}

	// Index extended
	lm.Points[IndexPIP] = Point3D{X: 0.43, Y: 0.50}
	lm.Points[IndexDIP] = Point3D{X: 0.42, Y: 0.41}
	lm.Points[IndexTip] = Point3D{X: 0.41, Y: 0.33}

	// Middle extended, spread slightly away from the index
	lm.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.47}
	lm.Points[MiddleDIP] = Point3D{X: 0.52, Y: 0.38}
	lm.Points[MiddleTip] = Point3D{X: 0.53, Y: 0.30}

	return lm
}

// ThumbsUpLandmarks returns a preset hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	lm := newHand()

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb extended away from the fist
	lm.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.74}
	lm.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.68}
	lm.Points[ThumbIP] = Point3D{X: 0.37, Y: 0.62}
	lm.Points[ThumbTip] = Point3D{X: 0.34, Y: 0.56}

	// Remaining fingers curled
	lm.Points[IndexMCP] = Point3D{X: 0.47, Y: 0.64}
	lm.Points[IndexPIP] = Point3D{X: 0.47, Y: 0.58}
	lm.Points[IndexDIP] = Point3D{X: 0.48, Y: 0.62}
	lm.Points[IndexTip] = Point3D{X: 0.49, Y: 0.66}

	lm.Points[MiddleMCP] = Point3D{X: 0.52, Y: 0.63}
	lm.Points[MiddlePIP] = Point3D{X: 0.52, Y: 0.57}
	lm.Points[MiddleDIP] = Point3D{X: 0.52, Y: 0.61}
	lm.Points[MiddleTip] = Point3D{X: 0.52, Y: 0.65}

	lm.Points[RingMCP] = Point3D{X: 0.57, Y: 0.65}
	lm.Points[RingPIP] = Point3D{X: 0.57, Y: 0.59}
	lm.Points[RingDIP] = Point3D{X: 0.56, Y: 0.63}
	lm.Points[RingTip] = Point3D{X: 0.56, Y: 0.67}

	lm.Points[PinkyMCP] = Point3D{X: 0.61, Y: 0.68}
	lm.Points[PinkyPIP] = Point3D{X: 0.62, Y: 0.63}
	lm.Points[PinkyDIP] = Point3D{X: 0.61, Y: 0.66}
	lm.Points[PinkyTip] = Point3D{X: 0.60, Y: 0.69}

	return lm
}

// OKLandmarks returns a preset hand with index fingertip and thumb tip
// pinched together and the remaining fingers curled.
func OKLandmarks() HandLandmarks {
	lm := FistLandmarks()

	// Thumb curls up to meet the index fingertip
	lm.Points[ThumbCMC] = Point3D{X: 0.43, Y: 0.77}
	lm.Points[ThumbMCP] = Point3D{X: 0.39, Y: 0.70}
	lm.Points[ThumbIP] = Point3D{X: 0.42, Y: 0.62}
	lm.Points[ThumbTip] = Point3D{X: 0.47, Y: 0.56}

	// Index arches down to the thumb; tip sits just below its PIP
	lm.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.62}
	lm.Points[IndexPIP] = Point3D{X: 0.43, Y: 0.52}
	lm.Points[IndexDIP] = Point3D{X: 0.45, Y: 0.50}
	lm.Points[IndexTip] = Point3D{X: 0.48, Y: 0.54}

	return lm
}

func newHand() HandLandmarks {
	return HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
}
