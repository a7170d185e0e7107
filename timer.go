package flow

import (
	"sync"
	"time"
)

// Timer notifies listeners at moments decided by the concrete timer.
type Timer interface {
	// Listen adds a listener to call on every tick.
	Listen(func())
	// Stopped reports whether the timer was asked to stop.
	Stopped() bool
	// Stop asks the timer to return from Run as soon as possible.
	Stop()
	// Run executes the timer until stopped. Run it on its own goroutine.
	Run()
}

// MonotonousTimer notifies its listeners repeatedly at a set interval.
type MonotonousTimer struct {
	mu        sync.Mutex
	listeners []func()

	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

var _ Timer = (*MonotonousTimer)(nil)

// NewMonotonousTimer returns a timer that ticks every interval.
func NewMonotonousTimer(interval time.Duration) *MonotonousTimer {
	return &MonotonousTimer{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Listen implements Timer.
func (t *MonotonousTimer) Listen(listener func()) {
	t.mu.Lock()
	t.listeners = append(t.listeners, listener)
	t.mu.Unlock()
}

// Stop implements Timer. Consequent calls do nothing.
func (t *MonotonousTimer) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

// Stopped implements Timer.
func (t *MonotonousTimer) Stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

// Run calls all listeners, waits for the interval and repeats until
// stopped. The wait is interrupted by Stop.
func (t *MonotonousTimer) Run() {
	for {
		if t.Stopped() {
			return
		}
		t.mu.Lock()
		listeners := make([]func(), len(t.listeners))
		copy(listeners, t.listeners)
		t.mu.Unlock()
		for _, listener := range listeners {
			listener()
		}
		select {
		case <-time.After(t.interval):
		case <-t.stop:
			return
		}
	}
}
