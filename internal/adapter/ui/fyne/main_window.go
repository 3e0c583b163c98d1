package fyne

import (
	"fmt"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/aurora/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/engine"
)

// Window defaults.
const (
	APPNAME = "Aurora"
	WIDTH   = 1280
	HEIGHT  = 720
)

// MainWindow is the main UI window implementing the UIView interface.
// The rendered background fills the window; a control panel floats on top.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	background *widgets.Background
	panel      *fyneapp.Container

	// UI components
	modeSelect      *widget.Select
	sectionSelect   *widget.Select
	accentSelect    *widget.Select
	intensitySelect *widget.Select
	perfSelect      *widget.Select
	darkCheck       *widget.Check
	audioCheck      *widget.Check
	adaptCheck      *widget.Check
	opacitySlider   *widget.Slider
	speedSlider     *widget.Slider
	playButton      *widget.Button
	resetButton     *widget.Button
	trackInfo       *widget.Label
	status          *widget.Label

	// syncing is set while the view applies presenter updates, so the
	// resulting OnChanged callbacks are not sent back as user input
	syncing bool

	// version is shown in the About dialog
	version string

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window. onResize receives the background's
// pixel size whenever it changes.
func NewMainWindow(app fyneapp.App, width, height float32, onResize func(w, h int)) *MainWindow {
	if width <= 0 || height <= 0 {
		width, height = WIDTH, HEIGHT
	}

	w := &MainWindow{
		app:        app,
		background: widgets.NewBackground(onResize),
	}

	w.window = app.NewWindow(APPNAME)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(width, height))

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// SetVersion sets the version string shown in the About dialog.
func (w *MainWindow) SetVersion(version string) {
	w.version = version
}

// Background returns the widget frames are presented to.
func (w *MainWindow) Background() *widgets.Background {
	return w.background
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	modes := make([]string, 0, len(domain.Modes()))
	for _, m := range domain.Modes() {
		modes = append(modes, string(m))
	}

	w.modeSelect = widget.NewSelect(modes, nil)
	w.sectionSelect = widget.NewSelect(engine.Sections(), nil)
	w.accentSelect = widget.NewSelect(engine.Accents(), nil)
	w.intensitySelect = widget.NewSelect([]string{
		string(domain.IntensityLow), string(domain.IntensityMedium), string(domain.IntensityHigh),
	}, nil)
	w.perfSelect = widget.NewSelect([]string{
		string(domain.PerformanceAuto), string(domain.PerformanceHigh), string(domain.PerformanceLow),
	}, nil)

	w.darkCheck = widget.NewCheck("Dark page", nil)
	w.audioCheck = widget.NewCheck("React to audio", nil)
	w.adaptCheck = widget.NewCheck("Follow section", nil)

	w.opacitySlider = widget.NewSlider(0, 100)
	w.speedSlider = widget.NewSlider(0.1, 3)
	w.speedSlider.Step = 0.1

	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.resetButton = widget.NewButtonWithIcon("Defaults", theme.ViewRefreshIcon(), nil)

	w.trackInfo = widget.NewLabel("No audio")
	w.trackInfo.Truncation = fyneapp.TextTruncateEllipsis
	w.status = widget.NewLabel("")
	w.status.TextStyle = fyneapp.TextStyle{Monospace: true}

	form := widget.NewForm(
		widget.NewFormItem("Mode", w.modeSelect),
		widget.NewFormItem("Section", w.sectionSelect),
		widget.NewFormItem("Accent", w.accentSelect),
		widget.NewFormItem("Intensity", w.intensitySelect),
		widget.NewFormItem("Performance", w.perfSelect),
		widget.NewFormItem("Opacity", w.opacitySlider),
		widget.NewFormItem("Speed", w.speedSlider),
	)
	checks := container.NewHBox(w.darkCheck, w.audioCheck, w.adaptCheck)
	transport := container.NewBorder(nil, nil, w.playButton, w.resetButton, w.trackInfo)

	w.panel = container.NewVBox(form, checks, transport)
	card := widget.NewCard("", "", w.panel)

	overlay := container.NewBorder(
		container.NewHBox(card),
		container.NewHBox(w.status),
		nil, nil,
	)
	w.window.SetContent(container.NewStack(w.background, container.NewPadded(overlay)))

	// Menu
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}
	p := w.presenter

	w.modeSelect.OnChanged = w.userString(p.OnModeSelected)
	w.sectionSelect.OnChanged = w.userString(p.OnSectionSelected)
	w.accentSelect.OnChanged = w.userString(p.OnAccentSelected)
	w.intensitySelect.OnChanged = w.userString(p.OnIntensitySelected)
	w.perfSelect.OnChanged = w.userString(p.OnPerformanceModeSelected)

	w.darkCheck.OnChanged = w.userBool(p.OnDarkToggled)
	w.audioCheck.OnChanged = w.userBool(p.OnAudioVisualizationToggled)
	w.adaptCheck.OnChanged = w.userBool(p.OnAdaptToSectionToggled)

	w.opacitySlider.OnChangeEnded = w.userFloat(p.OnOpacityChanged)
	w.speedSlider.OnChangeEnded = w.userFloat(p.OnSpeedChanged)

	w.playButton.OnTapped = p.OnPlayClicked
	w.resetButton.OnTapped = p.OnResetClicked

	w.background.SetOnTapped(
		func(*fyneapp.PointEvent) { p.OnBackgroundTapped() },
		func(*fyneapp.PointEvent) { w.togglePanel() },
	)
}

func (w *MainWindow) userString(fn func(string)) func(string) {
	return func(v string) {
		if !w.syncing {
			fn(v)
		}
	}
}

func (w *MainWindow) userBool(fn func(bool)) func(bool) {
	return func(v bool) {
		if !w.syncing {
			fn(v)
		}
	}
}

func (w *MainWindow) userFloat(fn func(float64)) func(float64) {
	return func(v float64) {
		if !w.syncing {
			fn(v)
		}
	}
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	separator := fyneapp.NewMenuItemSeparator()

	openFile := fyneapp.NewMenuItem("Open Audio…", func() {
		w.handleOpenFile()
	})
	playPause := fyneapp.NewMenuItem("Play / Pause", func() {
		if w.presenter != nil {
			w.presenter.OnPlayClicked()
		}
	})
	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})

	toggleControls := fyneapp.NewMenuItem("Toggle Controls", func() {
		w.togglePanel()
	})
	nextSection := fyneapp.NewMenuItem("Next Section", func() {
		if w.presenter != nil {
			w.presenter.OnNextSection()
		}
	})

	about := fyneapp.NewMenuItem("About", func() {
		ShowAboutDialog(w.window, w.version)
	})

	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", openFile, playPause, separator, exitMenu),
		fyneapp.NewMenu("View", toggleControls, nextSection),
		fyneapp.NewMenu("Help", about),
	}
}

func (w *MainWindow) togglePanel() {
	if w.panel.Visible() {
		w.panel.Hide()
	} else {
		w.panel.Show()
	}
}

// handleOpenFile handles the "Open Audio" menu action.
func (w *MainWindow) handleOpenFile() {
	if w.presenter == nil {
		return
	}

	dialog := NewFileDialog(w.window, func(filePath string) {
		if err := w.presenter.OnFileOpened(filePath); err != nil {
			w.ShowNotification("Error", fmt.Sprintf("Failed to open file: %v", err))
		}
	}, w.presenter.logger)
	dialog.Show()
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyUp,
		Modifier: desktop.AltModifier,
	}, func(fyneapp.Shortcut) {
		w.nudgeOpacity(5)
	})

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyDown,
		Modifier: desktop.AltModifier,
	}, func(fyneapp.Shortcut) {
		w.nudgeOpacity(-5)
	})

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyRight,
		Modifier: desktop.AltModifier,
	}, func(fyneapp.Shortcut) {
		w.presenter.OnNextSection()
	})
}

func (w *MainWindow) nudgeOpacity(delta float64) {
	v := w.opacitySlider.Value + delta
	if v > 100 {
		v = 100
	}
	if v < 0 {
		v = 0
	}
	w.opacitySlider.SetValue(v)
	w.presenter.OnOpacityChanged(v)
}

// SetOnClosed registers fn to run when the window closes.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window. It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		fyneapp.Do(w.window.Close)
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// UIView interface implementation

// SetConfig updates every settings control.
func (w *MainWindow) SetConfig(cfg domain.BackgroundConfig) {
	fyneapp.Do(func() {
		w.syncing = true
		defer func() { w.syncing = false }()

		w.modeSelect.SetSelected(string(cfg.Mode))
		w.intensitySelect.SetSelected(string(cfg.Intensity))
		w.perfSelect.SetSelected(string(cfg.PerformanceMode))
		w.audioCheck.SetChecked(cfg.EnableAudioVisualization)
		w.adaptCheck.SetChecked(cfg.AdaptToSection)
		w.opacitySlider.SetValue(cfg.Opacity * 100)
		w.speedSlider.SetValue(cfg.AnimationSpeed)
	})
}

// SetTheme updates the accent and brightness controls.
func (w *MainWindow) SetTheme(t domain.Theme) {
	fyneapp.Do(func() {
		w.syncing = true
		defer func() { w.syncing = false }()

		w.accentSelect.SetSelected(t.Accent)
		w.darkCheck.SetChecked(t.IsDark)
	})
}

// SetSection updates the section selector.
func (w *MainWindow) SetSection(section string) {
	fyneapp.Do(func() {
		w.syncing = true
		defer func() { w.syncing = false }()

		if section == "" {
			w.sectionSelect.ClearSelected()
			return
		}
		w.sectionSelect.SetSelected(section)
	})
}

// SetPlaybackState updates the play button and track label.
func (w *MainWindow) SetPlaybackState(playing bool, title string) {
	fyneapp.Do(func() {
		if playing {
			w.playButton.SetIcon(theme.MediaPauseIcon())
		} else {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		}
		if title == "" {
			title = "No audio"
		}
		w.trackInfo.SetText(title)
	})
}

// SetMetrics updates the status line.
func (w *MainWindow) SetMetrics(m domain.PerformanceMetrics) {
	text := fmt.Sprintf("%5.1f fps  %5.2f ms  avg %5.1f", m.FPS, float64(m.FrameTime.Microseconds())/1000, m.AverageFPS)
	if m.MemoryUsage > 0 {
		text += fmt.Sprintf("  heap %4.1f%%", m.MemoryUsage)
	}
	fyneapp.Do(func() {
		w.status.SetText(text)
	})
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// Verify UIView implementation
var _ UIView = (*MainWindow)(nil)
