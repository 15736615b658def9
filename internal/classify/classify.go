// Package classify turns one hand's landmarks into a discrete gesture label.
//
// The classifier is a pure function over the 21 MediaPipe landmarks: it derives
// per-finger extension states from simple coordinate comparisons and runs them
// through a fixed, ordered rule list. The heuristics assume a roughly upright,
// camera-facing hand in a mirrored (selfie) view; they have no robustness to
// hand rotation or tilt. That is a known limitation of the approach, not a bug.
package classify

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// Label is a gesture produced by the classifier. The set is closed.
type Label string

const (
	LabelOK       Label = "OK"
	LabelOpenPalm Label = "Open Palm"
	LabelFist     Label = "Fist"
	LabelPeace    Label = "Peace"
	LabelThumbsUp Label = "Thumbs Up"
	LabelUnknown  Label = "Unknown"
)

// Labels lists every label the classifier can produce, in rule order.
var Labels = []Label{
	LabelOK, LabelOpenPalm, LabelFist, LabelPeace, LabelThumbsUp, LabelUnknown,
}

// Valid reports whether l is a member of the closed label set.
func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// Handedness identifies which of the person's hands was detected.
type Handedness int

const (
	Left Handedness = iota
	Right
)

// String returns the detector-convention name for the handedness.
func (h Handedness) String() string {
	if h == Right {
		return "Right"
	}
	return "Left"
}

// ErrLandmarkCount is returned when a hand does not have exactly 21 landmarks.
var ErrLandmarkCount = errors.New("hand must have exactly 21 landmarks")

// ErrHandedness is returned for handedness values outside the two-valued enum.
var ErrHandedness = errors.New("invalid handedness")

// ParseHandedness converts a detector handedness string to the enum.
// Only "left" and "right" (case-insensitive) are accepted; anything else is an
// error rather than a silent default, since guessing wrong inverts the thumb
// test and corrupts the Thumbs Up / OK distinction.
func ParseHandedness(s string) (Handedness, error) {
	switch {
	case strings.EqualFold(s, "left"):
		return Left, nil
	case strings.EqualFold(s, "right"):
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrHandedness, s)
}

// FingerState records which fingers pass their extension test.
type FingerState struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
}

// Count returns the number of extended fingers, thumb included.
func (f FingerState) Count() int {
	n := 0
	for _, up := range []bool{f.Thumb, f.Index, f.Middle, f.Ring, f.Pinky} {
		if up {
			n++
		}
	}
	return n
}

// DefaultPinchThreshold is the index-tip-to-thumb-tip distance, in normalized
// coordinate units, below which the hand counts as pinched. Tuned for a hand
// at typical webcam distance; camera distance and frame scale change what
// distance reads as a visual pinch, hence configurable.
const DefaultPinchThreshold = 0.08

// Classifier maps hand landmarks to gesture labels.
// The zero value is not usable; call New.
type Classifier struct {
	mu sync.RWMutex
	// pinchThreshold is the maximum pinch distance for the OK gesture.
	// Guarded by mu: settings updates retune it while Classify runs on
	// other goroutines.
	pinchThreshold float64
}

// New returns a Classifier with the default pinch threshold.
func New() *Classifier {
	return &Classifier{pinchThreshold: DefaultPinchThreshold}
}

// SetPinchThreshold retunes the maximum pinch distance for the OK gesture.
// Safe to call while Classify runs on other goroutines.
func (c *Classifier) SetPinchThreshold(threshold float64) {
	c.mu.Lock()
	c.pinchThreshold = threshold
	c.mu.Unlock()
}

// PinchThreshold returns the current pinch threshold.
func (c *Classifier) PinchThreshold() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pinchThreshold
}

// signals are the derived quantities the rules are written against.
type signals struct {
	fingers FingerState
	upCount int
	pinch   float64
}

// rules is the classification contract: evaluated top to bottom, first match
// wins. The conditions are not guaranteed mutually exclusive, so the order
// itself carries meaning; do not reorder without revisiting every predicate.
var rules = []struct {
	label Label
	match func(s signals, pinchThreshold float64) bool
}{
	{LabelOK, func(s signals, th float64) bool {
		return s.pinch < th && !s.fingers.Middle && !s.fingers.Ring && !s.fingers.Pinky
	}},
	{LabelOpenPalm, func(s signals, _ float64) bool {
		return s.upCount == 5
	}},
	{LabelFist, func(s signals, _ float64) bool {
		return s.upCount == 0
	}},
	{LabelPeace, func(s signals, _ float64) bool {
		return s.fingers.Index && s.fingers.Middle &&
			!s.fingers.Ring && !s.fingers.Pinky && !s.fingers.Thumb
	}},
	{LabelThumbsUp, func(s signals, _ float64) bool {
		return s.fingers.Thumb &&
			!s.fingers.Index && !s.fingers.Middle && !s.fingers.Ring && !s.fingers.Pinky
	}},
}

// Classify returns the gesture label for one hand's landmarks.
//
// points must be the 21 MediaPipe landmarks in index order; any other count is
// an input-validation error, as is a handedness outside the enum. The call is
// deterministic: identical inputs under the same threshold always produce
// identical labels, and the classifier is safe for concurrent use.
func (c *Classifier) Classify(points []detector.Point3D, handedness Handedness) (Label, error) {
	if len(points) != detector.NumLandmarks {
		return LabelUnknown, fmt.Errorf("%w: got %d", ErrLandmarkCount, len(points))
	}
	if handedness != Left && handedness != Right {
		return LabelUnknown, fmt.Errorf("%w: %d", ErrHandedness, int(handedness))
	}

	s := signals{fingers: Fingers(points, handedness)}
	s.upCount = s.fingers.Count()
	s.pinch = pinchDistance(points)

	threshold := c.PinchThreshold()
	for _, r := range rules {
		if r.match(s, threshold) {
			return r.label, nil
		}
	}

	return LabelUnknown, nil
}

// Fingers derives the per-finger extension states for a hand.
//
// Index through pinky are extended iff the fingertip is higher on screen
// (smaller Y) than the finger's PIP joint. The thumb is compared on X and the
// direction flips with handedness: in the mirrored selfie view a right hand's
// extended thumb reaches toward smaller X, a left hand's toward larger X.
func Fingers(points []detector.Point3D, handedness Handedness) FingerState {
	f := FingerState{
		Index:  points[detector.IndexTip].Y < points[detector.IndexPIP].Y,
		Middle: points[detector.MiddleTip].Y < points[detector.MiddlePIP].Y,
		Ring:   points[detector.RingTip].Y < points[detector.RingPIP].Y,
		Pinky:  points[detector.PinkyTip].Y < points[detector.PinkyPIP].Y,
	}

	if handedness == Right {
		f.Thumb = points[detector.ThumbTip].X < points[detector.ThumbIP].X
	} else {
		f.Thumb = points[detector.ThumbTip].X > points[detector.ThumbIP].X
	}

	return f
}

// pinchDistance is the euclidean distance between the index fingertip and the
// thumb tip in the normalized image plane. Z is relative depth on a different
// scale and never enters classification.
func pinchDistance(points []detector.Point3D) float64 {
	dx := points[detector.IndexTip].X - points[detector.ThumbTip].X
	dy := points[detector.IndexTip].Y - points[detector.ThumbTip].Y
	return math.Sqrt(dx*dx + dy*dy)
}
