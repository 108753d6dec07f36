package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// session is a live view bound to one open event stream
type session struct {
	id     string
	view   *renderer.LiveView
	logger core.Logger
}

// SessionInfo is the first event of a live stream
type SessionInfo struct {
	ID     string `json:"id"`
	Scene  string `json:"scene"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// FrameUpdate is a refined frame sent via SSE
type FrameUpdate struct {
	Iteration int        `json:"iteration"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	ImageData string     `json:"imageData"` // Base64 encoded PNG
	ElapsedMs int64      `json:"elapsedMs"`
	Position  [3]float64 `json:"position"`
}

// CameraState is returned by the control endpoints
type CameraState struct {
	Position   [3]float64 `json:"position"`
	Iterations int        `json:"iterations"`
}

// handleLive streams progressively refined frames of one live view until
// the client disconnects or the requested number of frames was sent
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseLiveRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	maxFrames, err := parseIntParam(r.URL.Query(), "frames", 0, 0, 1000000)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Failed to create scene: %v", err))
		return
	}

	liveConfig := renderer.DefaultLiveConfig()
	liveConfig.Width = req.Width
	liveConfig.Height = req.Height
	liveConfig.MaxBounces = req.MaxBounces
	liveConfig.Seed = req.Seed

	view, err := renderer.NewLiveView(sceneObj, liveConfig)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	id := s.newSessionID()
	consoleChan, webLogger := s.setupConsoleLogging(id)
	sess := s.addSession(id, view, webLogger)
	defer s.removeSession(sess.id)

	info := SessionInfo{ID: sess.id, Scene: req.Scene, Width: req.Width, Height: req.Height}
	if err := s.sendSSEJSON(w, "session", info); err != nil {
		return
	}
	webLogger.Printf("Live view %s: %s at %dx%d, %d bounces, %d primitives\n",
		sess.id, req.Scene, req.Width, req.Height, req.MaxBounces, sceneObj.GetPrimitiveCount())

	ctx := r.Context()
	frames := make(chan renderer.Frame, 1)
	go view.Run(ctx, time.Duration(req.IntervalMs)*time.Millisecond, func(frame renderer.Frame) {
		// Keep only the newest frame
		select {
		case <-frames:
		default:
		}
		frames <- frame
	})

	startTime := time.Now()
	sent := 0
	for {
		select {
		case frame := <-frames:
			if err := s.sendFrame(w, frame, view, startTime); err != nil {
				log.Printf("Live view %s: %v", sess.id, err)
				return
			}
			sent++
			if maxFrames > 0 && sent >= maxFrames {
				s.sendSSEEvent(w, "complete", "Live view completed")
				return
			}

		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			if err := s.sendSSEEvent(w, "console", string(data)); err != nil {
				return
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

func (s *Server) sendFrame(w http.ResponseWriter, frame renderer.Frame, view *renderer.LiveView, startTime time.Time) error {
	imageData, err := imageToBase64PNG(frame.Image())
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	update := FrameUpdate{
		Iteration: frame.Iterations,
		Width:     frame.Width,
		Height:    frame.Height,
		ImageData: imageData,
		ElapsedMs: time.Since(startTime).Milliseconds(),
		Position:  vecArray(view.CameraPosition()),
	}
	return s.sendSSEJSON(w, "frame", update)
}

// handleMove moves the camera of a live view in its own frame
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var steps [3]float64
	for i, key := range []string{"right", "forward", "up"} {
		value, err := parseFloatParam(r.URL.Query(), key, 0, -100, 100)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		steps[i] = value
	}

	sess.view.MoveCamera(steps[0], steps[1], steps[2])
	position := sess.view.CameraPosition()
	sess.logger.Printf("Camera moved to (%.2f, %.2f, %.2f)\n", position.X, position.Y, position.Z)

	writeJSON(w, http.StatusOK, s.cameraState(sess))
}

// handleReset discards the accumulated samples of a live view
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	sess.view.Reset()
	sess.logger.Printf("Accumulation reset\n")

	writeJSON(w, http.StatusOK, s.cameraState(sess))
}

// handleResize rebuilds a live view at a new size
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	width, err := parseIntParam(r.URL.Query(), "width", 0, minSize, maxSize)
	if err == nil && width == 0 {
		err = fmt.Errorf("width is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := parseIntParam(r.URL.Query(), "height", 0, minSize, maxSize)
	if err == nil && height == 0 {
		err = fmt.Errorf("height is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := sess.view.Resize(width, height); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.logger.Printf("Resized to %dx%d\n", width, height)

	writeJSON(w, http.StatusOK, s.cameraState(sess))
}

func (s *Server) cameraState(sess *session) CameraState {
	return CameraState{
		Position:   vecArray(sess.view.CameraPosition()),
		Iterations: sess.view.Iterations(),
	}
}

func (s *Server) newSessionID() string {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	s.nextID++
	return fmt.Sprintf("live-%d", s.nextID)
}

func (s *Server) addSession(id string, view *renderer.LiveView, logger core.Logger) *session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	sess := &session{id: id, view: view, logger: logger}
	s.sessions[id] = sess
	return sess
}

func (s *Server) removeSession(id string) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	delete(s.sessions, id)
}

// lookupSession finds the session named in the path or writes a 404
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := r.PathValue("id")

	s.sessionsMu.Lock()
	sess, ok := s.sessions[id]
	s.sessionsMu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Unknown live view: "+id)
	}
	return sess, ok
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a stream
func (s *Server) setupConsoleLogging(id string) (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(id, consoleChan)
	return consoleChan, webLogger
}

// sendSSEJSON sends v as the JSON data of an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
