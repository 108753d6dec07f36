package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config holds the server settings and the defaults for new live views
type Config struct {
	Port       int
	StaticDir  string // Directory served at "/"
	ScenesDir  string // Directory scanned for JSON scenes
	Scene      string // Default scene id
	Width      int    // Default frame width
	Height     int    // Default frame height
	MaxBounces int    // Default bounce limit
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Port:       8080,
		StaticDir:  "web/static",
		ScenesDir:  "scenes",
		Scene:      "default",
		Width:      400,
		Height:     400,
		MaxBounces: 8,
	}
}

// Server handles web requests for the live path tracer
type Server struct {
	config Config

	sessionsMu sync.Mutex
	sessions   map[string]*session
	nextID     int
}

// NewServer creates a new web server
func NewServer(config Config) *Server {
	return &Server{
		config:   config,
		sessions: make(map[string]*session),
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))

	// API endpoints
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	mux.HandleFunc("GET /api/live", s.handleLive)
	mux.HandleFunc("POST /api/live/{id}/move", s.handleMove)
	mux.HandleFunc("POST /api/live/{id}/reset", s.handleReset)
	mux.HandleFunc("POST /api/live/{id}/resize", s.handleResize)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the camera and size of a scene with the limits
// accepted by the live endpoint
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.config.Scene
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cam := sceneObj.CameraConfig
	response := map[string]interface{}{
		"scene":          sceneName,
		"primitiveCount": sceneObj.GetPrimitiveCount(),
		"camera": map[string]interface{}{
			"position": vecArray(cam.Position),
			"lookAt":   vecArray(cam.LookAt),
			"vfov":     cam.VFov,
			"aperture": cam.Aperture,
		},
		"defaults": map[string]interface{}{
			"width":      s.config.Width,
			"height":     s.config.Height,
			"maxBounces": s.config.MaxBounces,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minSize, "max": maxSize},
			"height":     map[string]int{"min": minSize, "max": maxSize},
			"maxBounces": map[string]int{"min": 1, "max": maxBounces},
			"intervalMs": map[string]int{"min": 0, "max": maxIntervalMs},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene resolves a built-in scene id or "json:<name>" from the
// scenes directory
func (s *Server) createScene(sceneName string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(sceneName, "json:"); ok {
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("invalid scene name: %s", sceneName)
		}
		return loaders.LoadScene(filepath.Join(s.config.ScenesDir, name+".json"), cameraOverrides...)
	}
	return scene.NewBuiltinScene(sceneName, cameraOverrides...)
}

const (
	minSize       = 16
	maxSize       = 2000
	maxBounces    = 1000
	maxIntervalMs = 10000
)

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// liveRequest holds the parsed parameters of a live view stream
type liveRequest struct {
	Scene      string
	Width      int
	Height     int
	MaxBounces int
	IntervalMs int
	Seed       int64
}

func (s *Server) parseLiveRequest(r *http.Request) (*liveRequest, error) {
	query := r.URL.Query()
	req := &liveRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = s.config.Scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.config.Width, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", s.config.Height, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.MaxBounces, err = parseIntParam(query, "bounces", s.config.MaxBounces, 1, maxBounces); err != nil {
		return nil, err
	}
	if req.IntervalMs, err = parseIntParam(query, "interval", 100, 0, maxIntervalMs); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	// Performance warning
	if req.Width*req.Height > 800*600 && req.MaxBounces > 50 {
		log.Printf("Live view warning: large frame with many bounces may refine slowly")
	}

	return req, nil
}
