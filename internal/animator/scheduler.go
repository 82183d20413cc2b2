package animator

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by a Scheduler that has no more frames to deliver.
var ErrStopped = errors.New("scheduler stopped")

// Scheduler delivers frame timestamps, standing in for the host's
// animation-callback facility.
type Scheduler interface {
	// Next blocks until the next frame is due and returns its timestamp in
	// milliseconds. It returns ctx.Err() once ctx is done.
	Next(ctx context.Context) (float64, error)
}

// TickerScheduler produces frames from a wall-clock ticker.
type TickerScheduler struct {
	ticker *time.Ticker
	start  time.Time
}

// NewTickerScheduler ticks at hz frames per second.
func NewTickerScheduler(hz float64) *TickerScheduler {
	if hz <= 0 {
		hz = 60
	}
	return &TickerScheduler{
		ticker: time.NewTicker(time.Duration(float64(time.Second) / hz)),
		start:  time.Now(),
	}
}

func (s *TickerScheduler) Next(ctx context.Context) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-s.ticker.C:
		return float64(t.Sub(s.start)) / float64(time.Millisecond), nil
	}
}

// Stop releases the ticker.
func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// StepScheduler yields timestamps spaced Step milliseconds apart without
// waiting. It is used for offline rendering and tests.
type StepScheduler struct {
	Step float64
	// Limit stops the sequence after this many frames when positive.
	Limit int

	n int
}

func (s *StepScheduler) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.Limit > 0 && s.n >= s.Limit {
		return 0, ErrStopped
	}
	ts := float64(s.n) * s.Step
	s.n++
	return ts, nil
}
