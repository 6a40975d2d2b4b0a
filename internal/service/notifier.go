package service

import (
	"context"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/sirupsen/logrus"
)

// Notifiers fans a notification out to every member in order
type Notifiers []Notifier

func (n Notifiers) TransferCompleted(ctx context.Context, transfer models.Transfer) {
	for _, notifier := range n {
		notifier.TransferCompleted(ctx, transfer)
	}
}

func (n Notifiers) CardBlocked(ctx context.Context, card models.Card) {
	for _, notifier := range n {
		notifier.CardBlocked(ctx, card)
	}
}

type notice struct {
	ctx     context.Context
	deliver func(ctx context.Context)
}

// AsyncNotifier queues notifications and delivers them from Run, so a slow
// broker or mail server never holds up the request that caused them.
// A notification that finds the queue full is dropped with a warning.
type AsyncNotifier struct {
	next    Notifier
	queue   chan notice
	timeout time.Duration
	log     *logrus.Logger
}

// NewAsyncNotifier wraps next with a queue of the given size. Each delivery
// gets at most timeout; zero means no limit.
func NewAsyncNotifier(next Notifier, log *logrus.Logger, size int, timeout time.Duration) *AsyncNotifier {
	return &AsyncNotifier{
		next:    next,
		queue:   make(chan notice, size),
		timeout: timeout,
		log:     log,
	}
}

func (a *AsyncNotifier) TransferCompleted(ctx context.Context, transfer models.Transfer) {
	a.enqueue(ctx, logrus.Fields{"event": "transfer_completed", "transfer_id": transfer.ID}, func(ctx context.Context) {
		a.next.TransferCompleted(ctx, transfer)
	})
}

func (a *AsyncNotifier) CardBlocked(ctx context.Context, card models.Card) {
	a.enqueue(ctx, logrus.Fields{"event": "card_blocked", "card_id": card.ID}, func(ctx context.Context) {
		a.next.CardBlocked(ctx, card)
	})
}

func (a *AsyncNotifier) enqueue(ctx context.Context, fields logrus.Fields, deliver func(ctx context.Context)) {
	select {
	case a.queue <- notice{ctx: context.WithoutCancel(ctx), deliver: deliver}:
	default:
		a.log.WithFields(fields).Warn("Notification queue full, dropping notification")
	}
}

// Run delivers queued notifications until ctx is done, then flushes what is
// still queued and returns.
func (a *AsyncNotifier) Run(ctx context.Context) error {
	for {
		select {
		case n := <-a.queue:
			a.deliver(n)
		case <-ctx.Done():
			a.flush()
			return nil
		}
	}
}

func (a *AsyncNotifier) flush() {
	for {
		select {
		case n := <-a.queue:
			a.deliver(n)
		default:
			return
		}
	}
}

func (a *AsyncNotifier) deliver(n notice) {
	ctx := n.ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	n.deliver(ctx)
}
