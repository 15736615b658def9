package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/detector"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LandmarksHandler broadcasts real-time hand landmarks with classified
// gesture labels via WebSocket.
type LandmarksHandler struct {
	detector   detector.Detector
	camera     capture.Camera
	classifier *classify.Classifier
	clients    map[*websocket.Conn]bool
	mu         sync.RWMutex
}

// NewLandmarksHandler creates a new LandmarksHandler. classifier may be nil,
// in which case hands are broadcast without gesture labels.
func NewLandmarksHandler(d detector.Detector, c capture.Camera, classifier *classify.Classifier) *LandmarksHandler {
	h := &LandmarksHandler{
		detector:   d,
		camera:     c,
		classifier: classifier,
		clients:    make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

type wsHand struct {
	Points     []detector.Point3D `json:"points"`
	Handedness string             `json:"handedness"`
	Score      float64            `json:"score"`
	Gesture    string             `json:"gesture"`
}

// label classifies a detected hand, returning Unknown when the detector
// reported landmarks or handedness the classifier rejects.
func (h *LandmarksHandler) label(hand detector.HandLandmarks) classify.Label {
	if h.classifier == nil {
		return classify.LabelUnknown
	}

	handedness, err := classify.ParseHandedness(hand.Handedness)
	if err != nil {
		log.Printf("landmarks: dropping hand with bad handedness: %v", err)
		return classify.LabelUnknown
	}

	label, err := h.classifier.Classify(hand.Points, handedness)
	if err != nil {
		log.Printf("landmarks: classification failed: %v", err)
		return classify.LabelUnknown
	}
	return label
}

// broadcast sends landmark and gesture data to all connected clients.
func (h *LandmarksHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		frame, err := h.camera.ReadFrame()
		if err != nil {
			continue
		}

		hands, err := h.detector.Detect(frame)
		frame.Close()
		if err != nil {
			continue
		}

		wsHands := make([]wsHand, 0, len(hands))
		for _, hand := range hands {
			wsHands = append(wsHands, wsHand{
				Points:     hand.Points,
				Handedness: hand.Handedness,
				Score:      hand.Score,
				Gesture:    string(h.label(hand)),
			})
		}

		msg, _ := json.Marshal(map[string]any{
			"hands":     wsHands,
			"timestamp": time.Now().UnixMilli(),
		})

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
