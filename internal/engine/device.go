package engine

import (
	"runtime"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

const minFullEffectCores = 4

// DetectDeviceHints reports what the runtime knows about this machine.
// Hosts that know the display scale should overwrite PixelRatio.
func DetectDeviceHints() domain.DeviceHints {
	return domain.DeviceHints{
		IsMobile:            runtime.GOOS == "android" || runtime.GOOS == "ios",
		HardwareConcurrency: runtime.NumCPU(),
		PixelRatio:          1,
	}
}

// UseFullEffects decides between the animated modes and the minimal gradient.
// Weak mobile devices and dense displays on few cores get the gradient. The low
// performance mode keeps the chosen mode and lowers its cost instead.
func UseFullEffects(h domain.DeviceHints) bool {
	fewCores := h.HardwareConcurrency > 0 && h.HardwareConcurrency < minFullEffectCores
	if h.IsMobile && fewCores {
		return false
	}
	if h.PixelRatio > 2 && fewCores {
		return false
	}
	return true
}
