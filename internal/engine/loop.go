package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// DefaultFPS is the frame rate a Loop uses when none is given.
const DefaultFPS = 60

// TickFunc renders one frame at now and reports whether it drew anything.
type TickFunc func(now time.Time) bool

// FrameFunc is called once per drawn frame with the tick timestamp.
type FrameFunc func(now time.Time)

// ObserverID identifies a frame observer.
type ObserverID uint64

type frameObserver struct {
	id ObserverID
	fn FrameFunc
}

// Loop is the frame scheduler. It calls the tick function at a fixed rate on
// its own goroutine. When the tick drew a frame the frame observers are
// notified, in registration order.
//
// Stop cancels the schedule and waits, so no tick runs after Stop returns.
type Loop struct {
	interval time.Duration
	tick     TickFunc
	logger   *slog.Logger

	mu        sync.Mutex
	observers []frameObserver
	nextID    ObserverID
	running   bool
	stop      chan struct{}
	wg        sync.WaitGroup
}

// NewLoop creates a stopped loop calling tick fps times per second.
func NewLoop(fps int, tick TickFunc) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		tick:     tick,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger for this loop.
func (l *Loop) SetLogger(logger *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger
}

// Interval returns the time between ticks.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Start begins ticking until ctx is done or Stop is called.
// Returns domain.ErrAlreadyRunning if the loop is running.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return domain.ErrAlreadyRunning
	}
	l.running = true
	l.stop = make(chan struct{})

	stop := l.stop
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(ctx, stop)
	}()

	return nil
}

func (l *Loop) run(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.markStopped(stop)
			return
		case <-stop:
			return
		case now := <-ticker.C:
			// a stop that raced with the ticker wins
			select {
			case <-stop:
				return
			default:
			}
			l.Step(now)
		}
	}
}

// markStopped clears the running flag when the context ended the loop,
// unless Stop or a later Start already replaced it.
func (l *Loop) markStopped(stop chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop == stop {
		l.running = false
		close(l.stop)
		l.stop = nil
	}
}

// Stop halts the loop and waits for the in-flight tick to finish.
// Calling Stop on a stopped loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.running && l.stop != nil {
		close(l.stop)
		l.stop = nil
	}
	l.running = false
	l.mu.Unlock()

	// Release lock before waiting for goroutine to exit (Step takes it)
	l.wg.Wait()
}

// Running reports whether the loop is scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Step runs one tick synchronously and, when it drew, notifies the observers.
// It reports whether a frame was drawn. Panics from the tick or an observer
// are logged and swallowed; a panicked tick counts as not drawn.
func (l *Loop) Step(now time.Time) bool {
	if !l.safeTick(now) {
		return false
	}

	l.mu.Lock()
	observers := append([]frameObserver(nil), l.observers...)
	l.mu.Unlock()

	for _, o := range observers {
		l.safeCall(fmt.Sprintf("observer-%d", o.id), o.fn, now)
	}
	return true
}

func (l *Loop) safeTick(now time.Time) (drawn bool) {
	if l.tick == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			drawn = false
			l.logPanic("tick", r)
		}
	}()
	return l.tick(now)
}

func (l *Loop) safeCall(name string, fn FrameFunc, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			l.logPanic(name, r)
		}
	}()
	fn(now)
}

func (l *Loop) logPanic(name string, r any) {
	l.mu.Lock()
	logger := l.logger
	l.mu.Unlock()
	logger.Error("frame callback panicked",
		slog.String("callback", name),
		slog.Any("panic", r))
}

// OnFrame registers fn to run after every drawn frame.
func (l *Loop) OnFrame(fn FrameFunc) ObserverID {
	if fn == nil {
		panic("frame observer cannot be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	l.observers = append(l.observers, frameObserver{id: l.nextID, fn: fn})
	return l.nextID
}

// RemoveFrameObserver unregisters an observer. Unknown IDs are ignored.
func (l *Loop) RemoveFrameObserver(id ObserverID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, o := range l.observers {
		if o.id == id {
			l.observers = append(l.observers[:i:i], l.observers[i+1:]...)
			return
		}
	}
}
