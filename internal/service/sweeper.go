package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpirySweeper periodically persists EXPIRED for active cards past their
// expiration date. Eligibility checks never depend on it having run.
type ExpirySweeper struct {
	cards ExpiryStore
	log   *logrus.Logger
	now   func() time.Time
	cron  *cron.Cron
}

// NewExpirySweeper initializes a new sweeper
func NewExpirySweeper(cards ExpiryStore, log *logrus.Logger) *ExpirySweeper {
	return &ExpirySweeper{cards: cards, log: log, now: time.Now}
}

// Sweep runs one pass and returns the number of cards expired
func (s *ExpirySweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.cards.ExpireActive(ctx, s.now())
	if err != nil {
		s.log.WithError(err).Error("Expiry sweep failed")
		return 0, err
	}
	if n > 0 {
		s.log.WithField("expired", n).Info("Expired overdue cards")
	}
	return n, nil
}

// Start schedules Sweep on the cron spec until ctx is done or Stop is called
func (s *ExpirySweeper) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid expiry sweep schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	s.log.WithField("schedule", spec).Info("Expiry sweeper started")
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish
func (s *ExpirySweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Expiry sweeper stopped")
}
