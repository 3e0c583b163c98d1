// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// SettingsRepository handles the persistence of background settings and theme.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type SettingsRepository interface {
	// SaveBackgroundConfig persists the full background configuration.
	//
	// Returns an error if saving fails.
	SaveBackgroundConfig(cfg domain.BackgroundConfig) error

	// LoadBackgroundConfig retrieves the saved configuration.
	// Fields that were never saved come back with their defaults.
	//
	// Returns the configuration or an error if loading fails.
	LoadBackgroundConfig() (domain.BackgroundConfig, error)

	// SaveTheme persists the theme preference.
	SaveTheme(theme domain.Theme) error

	// LoadTheme retrieves the saved theme. If none was saved, returns domain.DefaultTheme().
	LoadTheme() (domain.Theme, error)

	// Clear removes all saved settings.
	Clear() error
}

// BackgroundSettings supplies the settings side of one frame.
// The engine calls Snapshot once per tick and treats the result as immutable.
type BackgroundSettings interface {
	Snapshot() domain.BackgroundSnapshot
}
