package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultCountdownTicks is how many ticks run before buzzing opens
	DefaultCountdownTicks = 4

	// CountdownInterval is the spacing between ticks
	CountdownInterval = time.Second
)

// Countdown is a handle to one running countdown
type Countdown interface {
	Cancel()
}

// Scheduler starts countdowns. onTick receives the seconds remaining, ending
// with 0; onComplete runs after the final tick unless the countdown was
// cancelled first.
type Scheduler interface {
	Start(ticks int, onTick func(remaining int), onComplete func()) Countdown
}

// ClockScheduler runs countdowns on a clockwork clock
type ClockScheduler struct {
	clock    clockwork.Clock
	interval time.Duration
}

// NewClockScheduler creates a scheduler ticking every interval on clock
func NewClockScheduler(clock clockwork.Clock, interval time.Duration) *ClockScheduler {
	return &ClockScheduler{
		clock:    clock,
		interval: interval,
	}
}

type clockCountdown struct {
	done chan struct{}
	once sync.Once
}

// Cancel stops the countdown. It is safe to call more than once.
func (c *clockCountdown) Cancel() {
	c.once.Do(func() { close(c.done) })
}

// Start launches a countdown goroutine
func (s *ClockScheduler) Start(ticks int, onTick func(remaining int), onComplete func()) Countdown {
	cd := &clockCountdown{done: make(chan struct{})}
	ticker := s.clock.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()

		for remaining := ticks - 1; remaining >= 0; remaining-- {
			select {
			case <-cd.done:
				return
			case <-ticker.Chan():
			}

			select {
			case <-cd.done:
				return
			default:
			}
			onTick(remaining)
		}
		onComplete()
	}()

	return cd
}
