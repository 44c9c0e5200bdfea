package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/quillhaven/quill/internal/session/store"
)

// HousekeepingService periodically clears session records whose stored
// refresh token has passed its expiry. Verification checks expiry on its own,
// so this is tidiness, not correctness.
type HousekeepingService struct {
	Sessions store.SessionRecords
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService builds the service. A non-positive interval
// defaults to one hour.
func NewHousekeepingService(sessions store.SessionRecords, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background sweep. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down and waits for any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	if err := s.Sessions.ClearExpired(context.Background(), time.Now().UTC()); err != nil {
		s.Logger.Error("failed to clear expired session records", "error", err)
	}
}
