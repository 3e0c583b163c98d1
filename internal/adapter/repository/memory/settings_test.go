package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// Helper to create a test settings repository
func newTestSettingsRepository() *SettingsRepository {
	app := test.NewApp()
	return NewSettingsRepository(app.Preferences())
}

func TestSettingsRepository_LoadDefaults(t *testing.T) {
	repo := newTestSettingsRepository()

	cfg, err := repo.LoadBackgroundConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBackgroundConfig(), cfg)

	theme, err := repo.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTheme(), theme)
}

func TestSettingsRepository_SaveAndLoadConfig(t *testing.T) {
	repo := newTestSettingsRepository()

	cfg := domain.BackgroundConfig{
		Mode:                     domain.ModeHologram,
		Intensity:                domain.IntensityHigh,
		PerformanceMode:          domain.PerformanceLow,
		ParticleCount:            75,
		AnimationSpeed:           1.25,
		Opacity:                  0.35,
		EnableAudioVisualization: false,
		EnableInteractivity:      true,
		EnableParallax:           false,
		AdaptToSection:           false,
	}
	require.NoError(t, repo.SaveBackgroundConfig(cfg))

	loaded, err := repo.LoadBackgroundConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSettingsRepository_RejectsInvalidConfig(t *testing.T) {
	repo := newTestSettingsRepository()

	cfg := domain.DefaultBackgroundConfig()
	cfg.Opacity = 1.5

	err := repo.SaveBackgroundConfig(cfg)
	require.Error(t, err)

	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.ErrorIs(t, err, domain.ErrInvalidOpacity)

	loaded, err := repo.LoadBackgroundConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.6, loaded.Opacity, "nothing was written")
}

func TestSettingsRepository_LoadSanitizesStoredValues(t *testing.T) {
	app := test.NewApp()
	prefs := app.Preferences()
	repo := NewSettingsRepository(prefs)

	prefs.SetString(keyMode, "vaporwave")
	prefs.SetFloat(keyOpacity, 3)
	prefs.SetInt(keyParticleCount, -4)

	cfg, err := repo.LoadBackgroundConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeParticles, cfg.Mode)
	assert.Equal(t, 1.0, cfg.Opacity)
	assert.Zero(t, cfg.ParticleCount)
}

func TestSettingsRepository_SaveAndLoadTheme(t *testing.T) {
	repo := newTestSettingsRepository()

	theme := domain.Theme{Accent: "green", IsDark: false}
	require.NoError(t, repo.SaveTheme(theme))

	loaded, err := repo.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, theme, loaded)

	assert.Error(t, repo.SaveTheme(domain.Theme{}))
}

func TestSettingsRepository_Clear(t *testing.T) {
	repo := newTestSettingsRepository()

	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeMatrix
	require.NoError(t, repo.SaveBackgroundConfig(cfg))
	require.NoError(t, repo.SaveTheme(domain.Theme{Accent: "amber", IsDark: true}))

	require.NoError(t, repo.Clear())

	loaded, err := repo.LoadBackgroundConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBackgroundConfig(), loaded)

	theme, err := repo.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTheme(), theme)
}
