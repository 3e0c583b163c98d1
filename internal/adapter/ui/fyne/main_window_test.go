package fyne

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/aurora/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/logger"
	"github.com/tejashwikalptaru/aurora/internal/service"
)

func newTestWindow(t *testing.T) (*MainWindow, *service.BackgroundService) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	svc := service.NewBackgroundService(log, &memRepo{}, bus)

	w := NewMainWindow(app, 640, 360, nil)
	p := NewPresenter(log, svc, &mockAudio{}, bus, w)
	w.SetPresenter(p)
	t.Cleanup(func() {
		p.Shutdown()
		_ = bus.Close()
	})
	return w, svc
}

func TestMainWindow_ShowsInitialSettings(t *testing.T) {
	w, _ := newTestWindow(t)

	assert.Equal(t, "adaptive", w.modeSelect.Selected)
	assert.Equal(t, "medium", w.intensitySelect.Selected)
	assert.Equal(t, "purple", w.accentSelect.Selected)
	assert.True(t, w.darkCheck.Checked)
	assert.InDelta(t, 60, w.opacitySlider.Value, 1e-9)
}

func TestMainWindow_UserSelectionUpdatesService(t *testing.T) {
	w, svc := newTestWindow(t)

	w.modeSelect.SetSelected("hologram")
	assert.Equal(t, domain.ModeHologram, svc.Config().Mode)

	w.accentSelect.SetSelected("blue")
	assert.Equal(t, "blue", svc.Theme().Accent)

	w.sectionSelect.SetSelected("contact")
	assert.Equal(t, "contact", svc.Section())
}

func TestMainWindow_ServiceChangeUpdatesControls(t *testing.T) {
	w, svc := newTestWindow(t)

	require.NoError(t, svc.SetMode(domain.ModeMinimal))
	require.NoError(t, svc.SetOpacity(0.25))

	assert.Equal(t, "minimal", w.modeSelect.Selected)
	assert.InDelta(t, 25, w.opacitySlider.Value, 1e-9)
}

func TestMainWindow_SyncDoesNotEchoToService(t *testing.T) {
	w, svc := newTestWindow(t)

	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeNeural
	w.SetConfig(cfg)

	assert.Equal(t, "neural", w.modeSelect.Selected)
	assert.Equal(t, domain.ModeAdaptive, svc.Config().Mode)
}

func TestMainWindow_TogglePanel(t *testing.T) {
	w, _ := newTestWindow(t)

	require.True(t, w.panel.Visible())
	w.togglePanel()
	assert.False(t, w.panel.Visible())
	w.togglePanel()
	assert.True(t, w.panel.Visible())
}

func TestMainWindow_PlaybackAndMetrics(t *testing.T) {
	w, _ := newTestWindow(t)

	w.SetPlaybackState(true, "")
	assert.Equal(t, "No audio", w.trackInfo.Text)

	w.SetPlaybackState(true, "Demo")
	assert.Equal(t, "Demo", w.trackInfo.Text)

	w.SetMetrics(domain.PerformanceMetrics{FPS: 60, AverageFPS: 59.5})
	assert.Contains(t, w.status.Text, "60.0 fps")
}
