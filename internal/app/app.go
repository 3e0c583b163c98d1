// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/tejashwikalptaru/aurora/internal/adapter/audio/file"
	"github.com/tejashwikalptaru/aurora/internal/adapter/audio/synth"
	"github.com/tejashwikalptaru/aurora/internal/adapter/canvas/soft"
	"github.com/tejashwikalptaru/aurora/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/aurora/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/aurora/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/engine"
	"github.com/tejashwikalptaru/aurora/internal/logger"
	"github.com/tejashwikalptaru/aurora/internal/ports"
	"github.com/tejashwikalptaru/aurora/internal/service"
)

// Audio source names carried by PlaybackChangedEvent.
const (
	sourceFile  = "file"
	sourceSynth = "synth"
)

// Spring settings for the audio level smoother: quick but without overshoot.
const (
	levelFrequency = 12.0
	levelDamping   = 1.0
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Acting as the audio controller behind the play and open actions
type Application struct {
	config Config

	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus ports.EventBus
	canvas   *soft.Canvas

	// Repositories
	settingsRepo ports.SettingsRepository

	// Services
	background *service.BackgroundService

	// Rendering
	engine  *engine.Engine
	loop    *engine.Loop
	monitor *engine.Monitor
	frame   *image.RGBA

	// UI (nil when headless)
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	// Audio
	audioMu     sync.Mutex
	audio       ports.PlaybackControl
	audioKind   string
	audioTitle  string
	watchStop   chan struct{}
	watchers    sync.WaitGroup
	metricsSub  uint64
	virtualMu   sync.Mutex
	virtualNow  time.Time
	useVirtual  bool
	cancelLoop  context.CancelFunc
	shutdownErr error

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// Width and Height are the initial window and canvas size in pixels
	Width  int
	Height int

	// FPS is the frame loop rate
	FPS int

	// Seed feeds every random source, so equal seeds render equal frames
	Seed int64

	// AudioPath is an audio file to play on start (empty for none)
	AudioPath string

	// UseSynthAudio starts the generated spectrum when no file is given
	UseSynthAudio bool

	// Mode overrides the saved background mode when non-empty
	Mode domain.Mode

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// Headless skips the window; frames are only rendered through RenderFrames
	Headless bool

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:     "com.aurora.app",
		AppName:   "Aurora",
		Width:     int(fyneui.WIDTH),
		Height:    int(fyneui.HEIGHT),
		FPS:       engine.DefaultFPS,
		LogLevel:  loggerCfg.Level,
		LogFormat: loggerCfg.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = int(fyneui.WIDTH), int(fyneui.HEIGHT)
	}
	if config.FPS <= 0 {
		config.FPS = engine.DefaultFPS
	}

	app := &Application{config: config, watchStop: make(chan struct{})}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 1.5: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().FullString()),
		slog.Bool("headless", config.Headless))

	// Step 2: Create an event bus
	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	// Step 3: Create repositories and services
	app.settingsRepo = memory.NewSettingsRepository(app.fyneApp.Preferences())
	app.background = service.NewBackgroundService(
		app.logger.With(slog.String("service", "background")),
		app.settingsRepo,
		app.eventBus,
	)
	if config.Mode != "" {
		if err := app.background.SetMode(config.Mode); err != nil {
			return nil, fmt.Errorf("failed to apply mode: %w", err)
		}
	}

	// Step 4: Create the drawing surface
	cv, err := soft.New(config.Width, config.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	app.canvas = cv

	// Step 5: Create the engine
	app.engine = engine.NewEngine(app.background, nil, app.canvas, engine.Options{
		Seed:     config.Seed,
		Device:   engine.DetectDeviceHints(),
		Smoother: engine.NewSmoother(config.FPS, levelFrequency, levelDamping),
		Logger:   app.logger,
	})

	// Step 6: Create the performance monitor and the frame loop
	app.monitor = engine.NewMonitor()
	app.metricsSub = app.monitor.Subscribe(app.onMetrics)

	app.loop = engine.NewLoop(config.FPS, app.engine.Tick)
	app.loop.SetLogger(app.logger.With(slog.String("component", "loop")))
	app.loop.OnFrame(app.monitor.RecordFrame)

	// Step 7: Create UI
	if !config.Headless {
		app.mainWindow = fyneui.NewMainWindow(app.fyneApp,
			float32(config.Width), float32(config.Height), app.engine.Resize)
		app.mainWindow.SetVersion(GetVersionInfo().Short())
		app.loop.OnFrame(app.presentFrame)

		// Step 8: Create Presenter and wire with UI
		app.presenter = fyneui.NewPresenter(
			app.logger.With(slog.String("component", "presenter")),
			app.background,
			app,
			app.eventBus,
			app.mainWindow,
		)
		app.mainWindow.SetPresenter(app.presenter)
		app.mainWindow.SetOnClosed(func() {
			app.loop.Stop()
		})
	}

	return app, nil
}

// onMetrics runs on the loop goroutine once per monitor window.
func (a *Application) onMetrics(m domain.PerformanceMetrics) {
	a.eventBus.Publish(domain.NewPerformanceMetricsEvent(m))

	if !a.monitor.IsPerformancePoor() {
		return
	}
	if a.background.Config().PerformanceMode != domain.PerformanceAuto {
		return
	}
	if _, err := a.background.ApplyPerformanceDowngrade(m.AverageFPS); err != nil {
		a.logger.Warn("failed to apply performance downgrade", slog.Any("error", err))
	}
}

// presentFrame copies the canvas into the spare buffer and hands it to the window.
func (a *Application) presentFrame(time.Time) {
	a.frame = a.canvas.Snapshot(a.frame)
	a.frame = a.mainWindow.Background().Present(a.frame)
}

// now is the clock of generated audio; RenderFrames switches it to frame time.
func (a *Application) now() time.Time {
	a.virtualMu.Lock()
	defer a.virtualMu.Unlock()
	if a.useVirtual {
		return a.virtualNow
	}
	return time.Now()
}

func (a *Application) setVirtualNow(t time.Time) {
	a.virtualMu.Lock()
	a.useVirtual = true
	a.virtualNow = t
	a.virtualMu.Unlock()
}

// startAudio opens the configured source, if any.
func (a *Application) startAudio() error {
	switch {
	case a.config.AudioPath != "":
		return a.OpenFile(a.config.AudioPath)
	case a.config.UseSynthAudio:
		return a.TogglePlayback()
	}
	return nil
}

// TogglePlayback pauses or resumes the current source. Without one it starts
// the generated spectrum.
func (a *Application) TogglePlayback() error {
	a.audioMu.Lock()

	if a.audio == nil {
		src := synth.New(synth.Options{Seed: a.config.Seed, Now: a.now})
		a.audio = src
		a.audioKind = sourceSynth
		a.audioTitle = ""
		a.engine.SetAudioSource(src)
	}

	_, playing := a.audio.FrequencyData()
	var err error
	if playing {
		err = a.audio.Pause()
	} else {
		err = a.audio.Play()
	}
	kind, title := a.audioKind, a.audioTitle
	a.audioMu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to toggle playback: %w", err)
	}

	a.eventBus.Publish(domain.NewPlaybackChangedEvent(!playing, kind, title))
	return nil
}

// OpenFile replaces the current source with the audio file at path and plays it.
func (a *Application) OpenFile(path string) error {
	player, err := file.Open(path, a.logger.With(slog.String("component", "player")))
	if err != nil {
		return err
	}

	info := player.Info()

	a.audioMu.Lock()
	old := a.audio
	a.audio = player
	a.audioKind = sourceFile
	a.audioTitle = info.Title
	a.engine.SetAudioSource(player)
	a.audioMu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			a.logger.Warn("failed to close previous audio source", slog.Any("error", err))
		}
	}

	if err := player.Play(); err != nil {
		return fmt.Errorf("failed to play %s: %w", filepath.Base(path), err)
	}

	a.logger.Info("playing audio file",
		slog.String("path", path),
		slog.String("title", info.Title),
		slog.Int("sample_rate", info.SampleRate))
	a.eventBus.Publish(domain.NewPlaybackChangedEvent(true, sourceFile, info.Title))

	a.watchers.Add(1)
	go a.watchTrackEnd(player)

	return nil
}

// watchTrackEnd reports the end of a file once it has played out.
func (a *Application) watchTrackEnd(player *file.Player) {
	defer a.watchers.Done()

	select {
	case <-player.Done():
	case <-a.watchStop:
		return
	}

	a.audioMu.Lock()
	current := a.audio == ports.PlaybackControl(player)
	a.audioMu.Unlock()

	if current {
		a.eventBus.Publish(domain.NewPlaybackChangedEvent(false, sourceFile, player.Info().Title))
	}
}

// Run starts the application.
// It blocks until the window is closed.
func (a *Application) Run() error {
	if a.mainWindow == nil {
		return fmt.Errorf("run: %w", domain.ErrNotInitialized)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoop = cancel
	defer cancel()

	if err := a.loop.Start(ctx); err != nil {
		return fmt.Errorf("failed to start frame loop: %w", err)
	}

	if err := a.startAudio(); err != nil {
		a.logger.Warn("failed to start audio", slog.Any("error", err))
		a.mainWindow.ShowNotification("Audio", err.Error())
	}

	a.logger.Info("Aurora started", slog.Int("fps", a.config.FPS))

	a.mainWindow.ShowAndRun()

	a.loop.Stop()
	return nil
}

// RenderFrames draws n frames on a virtual clock and writes them as PNG
// files named frame_0000.png, frame_0001.png and so on into dir. Audio
// configured on the application plays along on the same clock, so two runs
// with equal seeds produce equal files.
//
// The window is not used; RenderFrames must not run while Run is active.
func (a *Application) RenderFrames(ctx context.Context, n int, dir string) error {
	if n <= 0 {
		return domain.NewValidationError("frames", n, "must be positive")
	}
	if a.loop.Running() {
		return fmt.Errorf("render: %w", domain.ErrAlreadyRunning)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Unix(0, 0)
	step := a.loop.Interval()
	a.setVirtualNow(start)

	if err := a.startAudio(); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := start.Add(time.Duration(i) * step)
		a.setVirtualNow(now)
		a.loop.Step(now)

		if err := a.writeFrame(filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))); err != nil {
			return err
		}
	}

	stats := a.engine.Stats()
	a.logger.Info("frames rendered",
		slog.Int("count", n),
		slog.String("dir", dir),
		slog.String("last_mode", stats.ActiveKind.String()),
		slog.Uint64("skipped", stats.Skipped))
	return nil
}

func (a *Application) writeFrame(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := a.canvas.WritePNG(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Background returns the settings service.
func (a *Application) Background() *service.BackgroundService {
	return a.background
}

// Engine returns the background engine.
func (a *Application) Engine() *engine.Engine {
	return a.engine
}

// Monitor returns the performance monitor.
func (a *Application) Monitor() *engine.Monitor {
	return a.monitor
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// Shutdown gracefully shuts down the application.
// It is safe to call more than once; later calls return the first result.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.cancelLoop != nil {
			a.cancelLoop()
		}
		a.loop.Stop()
		a.monitor.Unsubscribe(a.metricsSub)

		close(a.watchStop)
		a.watchers.Wait()

		var errs []error

		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		a.audioMu.Lock()
		if a.audio != nil {
			if err := a.audio.Close(); err != nil && !errors.Is(err, domain.ErrClosed) {
				errs = append(errs, fmt.Errorf("close audio: %w", err))
			}
			a.audio = nil
		}
		a.audioMu.Unlock()

		if err := a.background.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown background service: %w", err))
		}

		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}

		a.shutdownErr = errors.Join(errs...)
		a.logger.Info("application shutdown complete")
	})
	return a.shutdownErr
}

var _ fyneui.AudioController = (*Application)(nil)
