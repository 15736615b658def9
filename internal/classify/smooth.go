package classify

// Smoother suppresses frame-to-frame label flicker by majority vote over a
// rolling window of recent labels. It is a stateful wrapper kept separate from
// the classifier so the classifier itself stays pure; a window of 1 passes
// labels through unchanged.
//
// Smoother is not safe for concurrent use. The pipeline owns one per hand slot.
type Smoother struct {
	window []Label
	size   int
}

// NewSmoother creates a Smoother voting over the last size labels.
// Sizes below 1 are treated as 1.
func NewSmoother(size int) *Smoother {
	if size < 1 {
		size = 1
	}
	return &Smoother{
		window: make([]Label, 0, size),
		size:   size,
	}
}

// Observe records a label and returns the majority label of the window.
// Ties are broken in favor of the most recently observed contender, so the
// output still tracks the input once a new gesture takes over.
func (s *Smoother) Observe(label Label) Label {
	if len(s.window) >= s.size {
		copy(s.window, s.window[1:])
		s.window = s.window[:s.size-1]
	}
	s.window = append(s.window, label)

	counts := make(map[Label]int, len(s.window))
	for _, l := range s.window {
		counts[l]++
	}

	best := s.window[len(s.window)-1]
	// Walk newest to oldest so earlier (older) labels only win with a
	// strictly higher count.
	for i := len(s.window) - 1; i >= 0; i-- {
		if counts[s.window[i]] > counts[best] {
			best = s.window[i]
		}
	}

	return best
}

// Reset clears the window. Call when the tracked hand disappears so stale
// labels don't vote on the next hand.
func (s *Smoother) Reset() {
	s.window = s.window[:0]
}

// Size returns the configured window size.
func (s *Smoother) Size() int {
	return s.size
}
