package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main detection loop that processes frames from the
// camera. It manages the state transitions between idle and active modes
// based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS=5)
// 2. On motion detected, switch to active mode (ActiveFPS=15)
// 3. Run hand detection
// 4. Classify each hand and smooth the labels per hand slot
// 5. On a smoothed label change, record the event and fire the bound action
// 6. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > IdleTimeout {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					a.resetSmoothing()
					log.Println("Switched to idle mode")
				}
			}

			// Skip further processing if not in active mode or no detector
			if !activeMode || a.Detector() == nil {
				frame.Close()
				continue
			}

			// Step 2: Hand detection
			hands, err := a.Detector().Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.ProcessHands(hands)
		}
	}
}

// resetSmoothing clears per-hand smoothing state so a hand re-entering the
// frame starts from a clean window.
func (a *App) resetSmoothing() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range a.smoothers {
		s.Reset()
	}
	a.lastLabels = make(map[int]classify.Label)
}

// ProcessHands classifies each detected hand, smooths the labels per hand
// slot, and reacts to label changes.
func (a *App) ProcessHands(hands []detector.HandLandmarks) {
	for i := range hands {
		hand := &hands[i]

		handedness, err := classify.ParseHandedness(hand.Handedness)
		if err != nil {
			log.Printf("Dropping hand %d: %v", i, err)
			continue
		}

		label, err := a.classifier.Classify(hand.Points, handedness)
		if err != nil {
			log.Printf("Dropping hand %d: %v", i, err)
			continue
		}

		smoothed, changed := a.smooth(i, label)
		if !changed || smoothed == classify.LabelUnknown {
			continue
		}

		log.Printf("Gesture: %s (%s hand, score %.2f)", smoothed, handedness, hand.Score)
		a.recordEvent(smoothed, handedness, hand.Score)

		if a.config.OnGesture != nil {
			a.config.OnGesture(string(smoothed), handedness.String())
		}

		a.executeBinding(smoothed, handedness)
	}
}

// smooth feeds one observation into hand slot i's smoother and reports
// whether the smoothed label changed. ApplySettings swaps the smoothing state
// from the settings handler's goroutine, so all access goes through mu; event
// recording and plugin execution stay outside the lock.
func (a *App) smooth(i int, label classify.Label) (classify.Label, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	smoother, ok := a.smoothers[i]
	if !ok {
		smoother = classify.NewSmoother(a.smoothWindow)
		a.smoothers[i] = smoother
	}

	smoothed := smoother.Observe(label)
	if smoothed == a.lastLabels[i] {
		return smoothed, false
	}
	a.lastLabels[i] = smoothed
	return smoothed, true
}

// recordEvent appends a recognized gesture to the event log.
func (a *App) recordEvent(label classify.Label, handedness classify.Handedness, score float64) {
	if a.config.Store == nil {
		return
	}

	err := a.config.Store.Events().Insert(&store.Event{
		ID:         uuid.New().String(),
		Label:      string(label),
		Handedness: handedness.String(),
		Score:      score,
	})
	if err != nil {
		log.Printf("Failed to record gesture event: %v", err)
	}
}

// executeBinding looks up the binding for a gesture label and runs the bound
// plugin action, if any.
func (a *App) executeBinding(label classify.Label, handedness classify.Handedness) {
	if a.config.Store == nil {
		return
	}

	binding, err := a.config.Store.Bindings().GetByLabel(string(label))
	if err != nil {
		log.Printf("Failed to look up binding for %s: %v", label, err)
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}

	p, err := a.pluginMgr.Get(binding.PluginName)
	if err != nil {
		log.Printf("Binding for %s references unknown plugin %q", label, binding.PluginName)
		return
	}

	req := &plugin.Request{
		Action:     binding.ActionName,
		Gesture:    string(label),
		Handedness: handedness.String(),
		Config:     binding.Config,
	}

	resp, err := a.pluginExec.Execute(p, req)
	if err != nil {
		log.Printf("Plugin %s action %s failed: %v", binding.PluginName, binding.ActionName, err)
		return
	}
	if !resp.Success {
		log.Printf("Plugin %s action %s returned error: %s", binding.PluginName, binding.ActionName, resp.Error)
		return
	}

	log.Printf("Executed %s/%s for gesture %s", binding.PluginName, binding.ActionName, label)
}
