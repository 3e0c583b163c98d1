package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/logger"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

var desktop = domain.DeviceHints{HardwareConcurrency: 8, PixelRatio: 1}

func newTestEngine(settings ports.BackgroundSettings, audio ports.AudioSource, c ports.Canvas) *Engine {
	return NewEngine(settings, audio, c, Options{Seed: 1, Device: desktop, Logger: logger.NewTestLogger()})
}

// ticker returns successive 60 fps timestamps.
func ticker() func() time.Time {
	now := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		now = now.Add(time.Second / 60)
		return now
	}
}

func TestEngineSkipsZeroSizedCanvas(t *testing.T) {
	c := newRecordingCanvas(0, 600)
	e := newTestEngine(newStaticSettings(domain.DefaultBackgroundConfig()), nil, c)

	assert.False(t, e.Tick(time.Now()))
	assert.Empty(t, c.ops)

	c.w = 800
	assert.True(t, e.Tick(time.Now()), "the next frame retries")

	stats := e.Stats()
	assert.Equal(t, uint64(1), stats.Skipped)
	assert.Equal(t, uint64(1), stats.Frames)
}

func TestEngineFrameStructure(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeHologram
	cfg.Opacity = 0.45

	c := newRecordingCanvas(400, 300)
	e := newTestEngine(newStaticSettings(cfg), nil, c)
	require.True(t, e.Tick(time.Now()))

	require.GreaterOrEqual(t, len(c.ops), 4)
	assert.Equal(t, "clear", c.ops[0].name)
	assert.Equal(t, "save", c.ops[1].name)
	assert.Equal(t, "alpha", c.ops[2].name)
	assert.Equal(t, 0.45, c.ops[2].r)
	assert.Equal(t, "restore", c.ops[len(c.ops)-1].name)
	assert.Zero(t, c.depth)
}

func TestEngineSilentParticleScenario(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeParticles
	cfg.Intensity = domain.IntensityLow

	const w, h = 1024.0, 768.0
	c := newRecordingCanvas(w, h)
	e := newTestEngine(newStaticSettings(cfg), nil, c)
	next := ticker()

	require.True(t, e.Tick(next()))
	field := e.Subsystem(KindParticles).(*ParticleField)
	require.Equal(t, 50, field.Len())

	for i := 0; i < 500; i++ {
		c.reset()
		require.True(t, e.Tick(next()))
	}

	assert.Equal(t, 50, field.Len())
	for _, p := range field.Particles() {
		assert.True(t, p.Life > 0 && p.Life <= p.MaxLife)
		assert.True(t, p.X >= 0 && p.X < w, "x %v", p.X)
		assert.True(t, p.Y >= 0 && p.Y < h, "y %v", p.Y)
	}
	assert.Equal(t, 1, e.ReinitCount(KindParticles))
}

func TestEngineAdaptiveSectionSwitching(t *testing.T) {
	settings := newStaticSettings(domain.DefaultBackgroundConfig())
	c := newRecordingCanvas(800, 600)
	e := newTestEngine(settings, nil, c)
	next := ticker()

	steps := []struct {
		section string
		kind    Kind
	}{
		{"home", KindParticles},
		{"skills", KindNeural},
		{"projects", KindHologram},
	}

	for _, step := range steps {
		settings.update(func(s *domain.BackgroundSnapshot) { s.Section = step.section })
		require.True(t, e.Tick(next()))
		require.True(t, e.Tick(next()))
		assert.Equal(t, step.kind, e.ActiveKind(), step.section)
	}

	stats := e.Stats()
	assert.Equal(t, 1, stats.Reinits[KindParticles])
	assert.Equal(t, 1, stats.Reinits[KindNeural])
	assert.Zero(t, stats.Reinits[KindHologram])

	// returning to a pooled mode rebuilds it
	settings.update(func(s *domain.BackgroundSnapshot) { s.Section = "home" })
	require.True(t, e.Tick(next()))
	assert.Equal(t, 2, e.ReinitCount(KindParticles))
}

func TestEngineReinitTriggers(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeNeural
	settings := newStaticSettings(cfg)
	c := newRecordingCanvas(800, 600)
	e := newTestEngine(settings, nil, c)
	next := ticker()

	e.Tick(next())
	e.Tick(next())
	require.Equal(t, 1, e.ReinitCount(KindNeural))
	assert.Equal(t, 30, e.Stats().PoolSize)

	e.Resize(1024, 768)
	e.Tick(next())
	assert.Equal(t, 2, e.ReinitCount(KindNeural), "resize")
	assert.Equal(t, 1, c.resizes)
	assert.Equal(t, 1024.0, e.Stats().Width)

	settings.update(func(s *domain.BackgroundSnapshot) { s.Config.Intensity = domain.IntensityHigh })
	e.Tick(next())
	assert.Equal(t, 3, e.ReinitCount(KindNeural), "intensity")
	assert.Equal(t, 50, e.Stats().PoolSize)

	// unrelated settings leave the pool alone
	settings.update(func(s *domain.BackgroundSnapshot) {
		s.Config.Opacity = 0.9
		s.Theme.Accent = "green"
	})
	e.Tick(next())
	assert.Equal(t, 3, e.ReinitCount(KindNeural))
}

func TestEngineParticleCountChangeReinitializes(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeParticles
	settings := newStaticSettings(cfg)
	e := newTestEngine(settings, nil, newRecordingCanvas(500, 500))
	next := ticker()

	e.Tick(next())
	assert.Equal(t, 100, e.Stats().PoolSize)

	settings.update(func(s *domain.BackgroundSnapshot) { s.Config.ParticleCount = 40 })
	e.Tick(next())
	assert.Equal(t, 40, e.Stats().PoolSize)
	assert.Equal(t, 2, e.ReinitCount(KindParticles))
}

func TestEngineDeviceGateForcesMinimal(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeNeural

	weak := domain.DeviceHints{IsMobile: true, HardwareConcurrency: 2, PixelRatio: 3}
	e := NewEngine(newStaticSettings(cfg), nil, newRecordingCanvas(400, 400), Options{Device: weak, Logger: logger.NewTestLogger()})

	require.True(t, e.Tick(time.Now()))
	assert.Equal(t, KindMinimal, e.ActiveKind())
	assert.False(t, e.Stats().FullEffects)
	assert.Zero(t, e.ReinitCount(KindNeural))
}

func TestEngineDowngradeKeepsModeAndLowersCost(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeParticles
	cfg.Intensity = domain.IntensityHigh
	cfg.ParticleCount = 0
	settings := newStaticSettings(cfg)
	c := newRecordingCanvas(400, 400)
	e := newTestEngine(settings, nil, c)
	next := ticker()

	require.True(t, e.Tick(next()))
	require.Equal(t, 150, e.Stats().PoolSize)

	settings.update(func(s *domain.BackgroundSnapshot) { s.Config = OptimizeConfigForPerformance(s.Config) })
	require.True(t, e.Tick(next()))
	assert.Equal(t, KindParticles, e.ActiveKind())
	assert.True(t, e.Stats().FullEffects)
	assert.Equal(t, 50, e.Stats().PoolSize)

	// the grid keeps drawing, on coarse segments
	settings.update(func(s *domain.BackgroundSnapshot) { s.Config.Mode = domain.ModeHologram })
	c.reset()
	require.True(t, e.Tick(next()))
	assert.Equal(t, KindHologram, e.ActiveKind())
	paths := c.filter("path")
	require.NotEmpty(t, paths)
	assert.Len(t, paths[0].points, 41, "400px at 10px segments")
}

func TestEngineModeChangeReinitializesSameKind(t *testing.T) {
	settings := newStaticSettings(domain.DefaultBackgroundConfig())
	e := newTestEngine(settings, nil, newRecordingCanvas(800, 600))
	next := ticker()

	steps := []struct {
		section string
		mode    domain.Mode
		kind    Kind
	}{
		{"home", domain.ModeParticles, KindParticles},
		{"skills", domain.ModeNeural, KindNeural},
	}

	for _, step := range steps {
		settings.update(func(s *domain.BackgroundSnapshot) {
			s.Config.Mode = domain.ModeAdaptive
			s.Section = step.section
		})
		require.True(t, e.Tick(next()))
		require.Equal(t, step.kind, e.ActiveKind())
		before := e.ReinitCount(step.kind)

		settings.update(func(s *domain.BackgroundSnapshot) { s.Config.Mode = step.mode })
		require.True(t, e.Tick(next()))
		assert.Equal(t, step.kind, e.ActiveKind())
		assert.Equal(t, before+1, e.ReinitCount(step.kind), "adaptive -> %s", step.mode)

		// a steady mode leaves the pool alone
		require.True(t, e.Tick(next()))
		assert.Equal(t, before+1, e.ReinitCount(step.kind))
	}
}

func TestEngineAudioGatedByConfig(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeMinimal
	settings := newStaticSettings(cfg)
	audio := &fixedAudio{data: spectrum(1024, 255, 255), playing: true}
	e := newTestEngine(settings, audio, newRecordingCanvas(400, 400))

	e.Tick(time.Now())
	assert.InDelta(t, 1.0, e.Stats().LastAnalysis.BassLevel, 1e-9)

	settings.update(func(s *domain.BackgroundSnapshot) { s.Config.EnableAudioVisualization = false })
	e.Tick(time.Now())
	assert.True(t, e.Stats().LastAnalysis.Silent())

	settings.update(func(s *domain.BackgroundSnapshot) { s.Config.EnableAudioVisualization = true })
	audio.playing = false
	e.Tick(time.Now())
	assert.True(t, e.Stats().LastAnalysis.Silent())
}

func TestEngineMatrixKeepsTrailBetweenFrames(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeMatrix
	c := newRecordingCanvas(280, 200)
	e := newTestEngine(newStaticSettings(cfg), nil, c)
	next := ticker()

	e.Tick(next())
	assert.Equal(t, 1, c.count("clear"), "first matrix frame starts clean")

	c.reset()
	e.Tick(next())
	assert.Zero(t, c.count("clear"))
	assert.Equal(t, 1, c.count("rect"), "the fade overlay replaces the clear")
}

type panickingSubsystem struct{ calls int }

func (p *panickingSubsystem) Kind() Kind { return KindParticles }
func (p *panickingSubsystem) Update(*FrameContext) {
	p.calls++
	panic("broken frame")
}
func (p *panickingSubsystem) Render(ports.Canvas, *FrameContext) {}

func TestEngineRecoversFromRenderPanic(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeParticles
	settings := newStaticSettings(cfg)
	c := newRecordingCanvas(300, 300)
	e := newTestEngine(settings, nil, c)

	bad := &panickingSubsystem{}
	e.subsystems[KindParticles] = bad
	next := ticker()

	for i := 0; i < 5; i++ {
		assert.NotPanics(t, func() { assert.False(t, e.Tick(next())) })
		assert.Zero(t, c.depth, "canvas state restored after a panic")
	}
	assert.Equal(t, 5, bad.calls)
	assert.Equal(t, uint64(5), e.Stats().Panics)

	// other modes keep working
	settings.update(func(s *domain.BackgroundSnapshot) { s.Config.Mode = domain.ModeMinimal })
	assert.True(t, e.Tick(next()))
}

func TestEngineDeterministic(t *testing.T) {
	run := func() []drawOp {
		settings := newStaticSettings(domain.DefaultBackgroundConfig())
		audio := &fixedAudio{data: spectrum(512, 200, 90), playing: true}
		c := newRecordingCanvas(640, 480)
		e := newTestEngine(settings, audio, c)
		next := ticker()

		for _, section := range []string{"home", "skills", "projects", "contact", "about"} {
			settings.update(func(s *domain.BackgroundSnapshot) { s.Section = section })
			for i := 0; i < 30; i++ {
				e.Tick(next())
			}
		}
		return c.ops
	}

	first := run()
	second := run()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestEngineAnimationTimeIsClamped(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeMinimal
	cfg.AnimationSpeed = 2
	e := newTestEngine(newStaticSettings(cfg), nil, newRecordingCanvas(100, 100))

	start := time.Now()
	e.Tick(start)
	e.Tick(start.Add(50 * time.Millisecond))
	assert.InDelta(t, 0.1, e.animTime, 1e-9)

	// a long stall only advances one capped step
	e.Tick(start.Add(10 * time.Second))
	assert.InDelta(t, 0.3, e.animTime, 1e-9)
}

func TestEngineSmoother(t *testing.T) {
	cfg := domain.DefaultBackgroundConfig()
	cfg.Mode = domain.ModeMinimal
	audio := &fixedAudio{data: spectrum(1000, 255, 255), playing: true}
	e := NewEngine(newStaticSettings(cfg), audio, newRecordingCanvas(100, 100), Options{
		Seed:     3,
		Device:   desktop,
		Smoother: NewSmoother(60, 6, 1),
		Logger:   logger.NewTestLogger(),
	})

	e.Tick(time.Now())
	first := e.Stats().LastAnalysis.AverageLevel
	assert.Less(t, first, 1.0)

	for i := 0; i < 200; i++ {
		e.Tick(time.Now())
	}
	assert.InDelta(t, 1.0, e.Stats().LastAnalysis.AverageLevel, 0.01)
}
