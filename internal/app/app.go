// Package app provides the main application logic for the Mudra gesture viewer.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeout is how long after the last motion the pipeline waits
	// before dropping back to idle mode.
	IdleTimeout = 2 * time.Second
	// MaxEvents caps the gesture event log; older rows are pruned on start.
	MaxEvents = 1000
)

// Config holds configuration options for the application.
type Config struct {
	Store     *store.Store
	PluginDir string
	Settings  store.Settings

	// MotionThresh is the motion detector sensitivity as percent of
	// changed pixels. Zero selects the default.
	MotionThresh float64

	// OnGesture, if set, is called whenever a smoothed gesture label
	// changes to something other than Unknown. Used for tray notifications.
	OnGesture func(label, handedness string)
}

// App orchestrates the capture, detection, classification, and action
// execution pipeline.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *classify.Classifier
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}

	// Per-hand smoothing state, guarded by mu: ApplySettings replaces it
	// from the settings handler while the pipeline goroutine feeds it.
	smoothWindow int
	smoothers    map[int]*classify.Smoother
	lastLabels   map[int]classify.Label
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	settings := config.Settings
	if settings == (store.Settings{}) {
		settings = store.DefaultSettings()
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	classifier := classify.New()
	classifier.SetPinchThreshold(settings.PinchThreshold)

	a := &App{
		config:       config,
		camera:       capture.NewCamera(settings.CameraID),
		motion:       capture.NewMotionDetector(motionThreshold),
		classifier:   classifier,
		pluginMgr:    plugin.NewManager(config.PluginDir),
		pluginExec:   plugin.NewExecutor(plugin.DefaultTimeout),
		enabled:      false,
		stopCh:       nil,
		smoothWindow: settings.SmoothWindow,
		smoothers:    make(map[int]*classify.Smoother),
		lastLabels:   make(map[int]classify.Label),
	}

	detectorConfig := detector.Config{
		MaxHands:        settings.MaxHands,
		MinConfidence:   settings.MinConfidence,
		MinTrackingConf: settings.MinConfidence,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detectorConfig); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// ApplySettings applies new settings to the running pipeline: switches the
// camera device, reconfigures the detector, and retunes the classifier and
// smoothing without a restart.
func (a *App) ApplySettings(settings store.Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.camera.DeviceID() != settings.CameraID {
		if err := a.camera.SwitchDevice(settings.CameraID); err != nil {
			log.Printf("Failed to switch camera to device %d: %v", settings.CameraID, err)
		} else {
			a.motion.Reset()
		}
	}

	if a.detector != nil {
		a.detector.SetConfig(detector.Config{
			MaxHands:        settings.MaxHands,
			MinConfidence:   settings.MinConfidence,
			MinTrackingConf: settings.MinConfidence,
		})
	}

	a.classifier.SetPinchThreshold(settings.PinchThreshold)

	if a.smoothWindow != settings.SmoothWindow {
		a.smoothWindow = settings.SmoothWindow
		a.smoothers = make(map[int]*classify.Smoother)
		a.lastLabels = make(map[int]classify.Label)
	}

	log.Printf("Applied settings: camera=%d max_hands=%d pinch=%.3f window=%d",
		settings.CameraID, settings.MaxHands, settings.PinchThreshold, settings.SmoothWindow)
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Keep the event log bounded
	if a.config.Store != nil {
		if err := a.config.Store.Events().Prune(MaxEvents); err != nil {
			log.Printf("Failed to prune event log: %v", err)
		}
	}

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Classifier returns the gesture classifier.
func (a *App) Classifier() *classify.Classifier {
	return a.classifier
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
