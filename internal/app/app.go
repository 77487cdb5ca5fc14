// Package app wires the camera pipeline, the learning games and the plugins
// together for the desktop build.
package app

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/ayusman/handplay/internal/capture"
	"github.com/ayusman/handplay/internal/clock"
	"github.com/ayusman/handplay/internal/detector"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/plugin"
	"github.com/ayusman/handplay/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	PluginDir      string
	CameraID       int
	MirrorCamera   bool
	MotionThresh   float64
	DetectorScript string
	// Clock drives game timers. Nil means the wall clock.
	Clock clock.Clock
}

// Status is what the tray and the API show about the running game.
type Status struct {
	Enabled   bool   `json:"enabled"`
	Running   bool   `json:"running"`
	SessionID string `json:"sessionId,omitempty"`
	Module    string `json:"module,omitempty"`
	Target    string `json:"target,omitempty"`
	Done      bool   `json:"done"`
	LastLabel string `json:"lastLabel,omitempty"`
}

// App runs one module at a time against the local camera.
type App struct {
	config     Config
	clock      clock.Clock
	camera     capture.Camera
	gate       *capture.ActivityGate
	preview    *capture.Preview
	detector   detector.Detector
	pluginMgr  *plugin.Manager
	dispatcher *plugin.Dispatcher

	// controlMu serializes StartModule and StopModule.
	controlMu sync.Mutex

	mu        sync.RWMutex
	enabled   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	sinks     game.Sinks
	session   *Session
	sessionID string
	lastLabel string
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	c := config.Clock
	if c == nil {
		c = clock.Real{}
	}

	a := &App{
		config:    config,
		clock:     c,
		camera:    capture.NewWebcam(config.CameraID, config.MirrorCamera),
		gate:      capture.NewActivityGate(config.MotionThresh),
		preview:   capture.NewPreview(),
		pluginMgr: plugin.NewManager(config.PluginDir),
	}
	a.dispatcher = plugin.NewDispatcher(a.pluginMgr, plugin.NewExecutor(plugin.DefaultTimeout))

	detCfg := detector.DefaultConfig()
	detCfg.ScriptPath = config.DetectorScript
	if sc, err := detector.NewSidecarDetector(detCfg); err == nil {
		a.detector = sc
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using stub detector", err)
		a.detector = detector.NewStubDetector()
	}

	return a
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
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

// SetCamera replaces the frame source. Call it before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// AddSink registers s to receive every game event of every module run.
func (a *App) AddSink(s game.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	if err := a.pluginMgr.Discover(); err != nil {
		return err
	}
	log.Printf("Loaded %d plugins", len(a.pluginMgr.List()))
	return nil
}

// StartModule ends any running module and starts module in a new session.
// With a store configured the session and its progress are persisted. An
// unknown module leaves the running one alone.
func (a *App) StartModule(ctx context.Context, module string) (*Session, error) {
	if !slices.Contains(FrameModules, module) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}

	a.controlMu.Lock()
	defer a.controlMu.Unlock()
	a.stopModule(ctx)

	opts := game.Options{Clock: a.clock, Sink: game.SinkFunc(a.emit)}

	var sessionID string
	if a.config.Store != nil {
		rec, err := a.config.Store.Sessions().Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		sessionID = rec.ID
		opts.Progress = a.config.Store.Progress().Logger(sessionID)

		if err := a.config.Store.Settings().Set(ctx, store.SettingLastModule, module); err != nil {
			log.Printf("Failed to save last module: %v", err)
		}
	}

	s, err := NewSession(module, opts)
	if err != nil {
		if sessionID != "" {
			a.endStoreSession(ctx, sessionID)
		}
		return nil, err
	}

	a.mu.Lock()
	prev, prevID := a.session, a.sessionID
	a.session = s
	a.sessionID = sessionID
	a.lastLabel = ""
	a.mu.Unlock()

	if prev != nil {
		prev.Close()
		if prevID != "" {
			a.endStoreSession(ctx, prevID)
		}
	}

	log.Printf("Started module %s", module)
	s.Start()
	return s, nil
}

// StopModule closes the running module, if any, and ends its stored session.
func (a *App) StopModule(ctx context.Context) {
	a.controlMu.Lock()
	defer a.controlMu.Unlock()
	a.stopModule(ctx)
}

func (a *App) stopModule(ctx context.Context) {
	a.mu.Lock()
	s, id := a.session, a.sessionID
	a.session, a.sessionID = nil, ""
	a.mu.Unlock()

	if s == nil {
		return
	}
	s.Close()
	if id != "" {
		a.endStoreSession(ctx, id)
	}
	log.Printf("Stopped module %s", s.Module())
}

func (a *App) endStoreSession(ctx context.Context, id string) {
	if _, err := a.config.Store.Sessions().End(ctx, id); err != nil {
		log.Printf("Failed to end session %s: %v", id, err)
	}
}

// HandleFrame feeds an already-detected frame to the running module. It
// reports what was recognized, or "" when no module is running.
func (a *App) HandleFrame(frame detector.Frame) string {
	a.mu.RLock()
	s := a.session
	a.mu.RUnlock()

	if s == nil {
		return ""
	}
	return s.HandleFrame(frame)
}

// Status returns the current module state for display.
func (a *App) Status() Status {
	a.mu.RLock()
	st := Status{
		Enabled:   a.enabled,
		Running:   a.stopCh != nil,
		SessionID: a.sessionID,
		LastLabel: a.lastLabel,
	}
	s := a.session
	a.mu.RUnlock()

	if s != nil {
		ss := s.State()
		st.Module = ss.Module
		st.Target = ss.Target
		st.Done = ss.Done
	}
	return st
}

// emit fans a game event out to the plugins and the registered sinks.
func (a *App) emit(ev game.Event) {
	a.mu.Lock()
	if ev.Kind == game.EventGestureDetected {
		a.lastLabel = ev.Label
	}
	sinks := append(game.Sinks{a.dispatcher}, a.sinks...)
	a.mu.Unlock()

	sinks.Emit(ev)
}

// Start begins the camera pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Camera pipeline started")
	return nil
}

// Stop halts the camera pipeline and releases the camera.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.gate.Reset()

	log.Println("Camera pipeline stopped")
}

// Close stops everything and releases the detector and plugins.
func (a *App) Close() {
	a.Stop()
	a.StopModule(context.Background())

	a.dispatcher.Close()
	a.gate.Close()

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Gate returns the activity gate.
func (a *App) Gate() *capture.ActivityGate {
	return a.gate
}

// Preview returns the latest-frame preview fed by the pipeline.
func (a *App) Preview() *capture.Preview {
	return a.preview
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

// Session returns the running module session, or nil.
func (a *App) Session() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// now is the app clock's time.
func (a *App) now() time.Time {
	return a.clock.Now()
}
