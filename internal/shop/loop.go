package shop

import (
	"log/slog"
	"time"
)

// Loop drives the simulated calendar forward, advancing the shop one day per
// interval. Speed 0 pauses the loop without stopping it.
type Loop struct {
	shop     *Shop
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // real time per simulated day
	running  bool
}

// NewLoop creates a day loop with a default one-minute day.
func NewLoop(s *Shop) *Loop {
	return &Loop{
		shop:     s,
		Speed:    1.0,
		Interval: time.Minute,
	}
}

// Run starts the day loop. Blocks until Stop is called.
func (l *Loop) Run() {
	l.running = true
	slog.Info("day loop started", "interval", l.Interval, "speed", l.Speed)

	for l.running {
		if l.Speed <= 0 {
			// Paused. Sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		if err := l.shop.AdvanceDay(); err != nil {
			slog.Error("day advance checkpoint failed", "error", err)
		}

		// Sleep for the remainder of the day interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(l.Interval) / l.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("day loop stopped")
}

// Stop halts the day loop after the current iteration.
func (l *Loop) Stop() {
	l.running = false
}
