package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EngineConfig tunes conflict handling of the transfer engine
type EngineConfig struct {
	// MaxRetries is the number of attempts made when a card changes underneath a transaction
	MaxRetries int
	// TxTimeout bounds a single operation including its retries; zero means no bound
	TxTimeout time.Duration
}

// TransferEngine moves money between two cards of one owner and blocks cards.
// Every operation reads current persisted state; nothing is cached between calls.
type TransferEngine struct {
	cards    CardStore
	ledger   TransferLedger
	uow      UnitOfWork
	notifier Notifier
	log      *logrus.Logger
	cfg      EngineConfig
}

// NewTransferEngine initializes a new transfer engine
func NewTransferEngine(cards CardStore, ledger TransferLedger, uow UnitOfWork, notifier Notifier, log *logrus.Logger, cfg EngineConfig) *TransferEngine {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &TransferEngine{
		cards:    cards,
		ledger:   ledger,
		uow:      uow,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
	}
}

// Execute debits cardFromID and credits cardToID by amount and records the transfer.
// Either every effect is committed or none is.
func (e *TransferEngine) Execute(ctx context.Context, ownerID, cardFromID, cardToID int64, amount decimal.Decimal, today time.Time) (models.Transfer, error) {
	amount, err := models.NormalizeAmount(amount)
	if err != nil {
		return models.Transfer{}, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	logger := e.log.WithFields(logrus.Fields{
		"owner_id":     ownerID,
		"card_from_id": cardFromID,
		"card_to_id":   cardToID,
		"amount":       amount.StringFixed(models.MoneyScale),
	})

	var transfer models.Transfer
	err = e.retry(ctx, logger, func(ctx context.Context) error {
		return e.uow.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			transfer, err = e.transfer(ctx, ownerID, cardFromID, cardToID, amount, today)
			return err
		})
	})
	if err != nil {
		err = classify(err)
		if models.IsBusiness(err) {
			logger.WithError(err).Info("Transfer rejected")
		} else {
			logger.WithError(err).Error("Transfer failed")
		}
		return models.Transfer{}, err
	}

	logger.WithField("transfer_id", transfer.ID).Info("Transfer completed")
	e.notifier.TransferCompleted(context.WithoutCancel(ctx), transfer)
	return transfer, nil
}

func (e *TransferEngine) transfer(ctx context.Context, ownerID, cardFromID, cardToID int64, amount decimal.Decimal, today time.Time) (models.Transfer, error) {
	// Cards of other owners are indistinguishable from missing ones
	owned, err := e.cards.FindOwnedBy(ctx, ownerID)
	if err != nil {
		return models.Transfer{}, err
	}
	if !containsCard(owned, cardFromID) || !containsCard(owned, cardToID) {
		return models.Transfer{}, models.ErrCardNotFound
	}
	if cardFromID == cardToID {
		return models.Transfer{}, models.ErrSameCard
	}

	locked, err := e.lockInOrder(ctx, cardFromID, cardToID)
	if err != nil {
		return models.Transfer{}, err
	}
	from, to := locked[cardFromID], locked[cardToID]

	for _, card := range []models.Card{from, to} {
		if status := card.EffectiveStatus(today); status != models.CardStatusActive {
			return models.Transfer{}, &models.CardNotActiveError{CardID: card.ID, Status: status}
		}
	}
	if from.Balance.LessThan(amount) {
		return models.Transfer{}, models.ErrInsufficientFunds
	}
	credited := to.Balance.Add(amount)
	if credited.GreaterThan(models.MaxMoney) {
		return models.Transfer{}, models.ErrBalanceLimit
	}

	transfer, err := models.NewTransfer(ownerID, from.ID, to.ID, amount, today)
	if err != nil {
		return models.Transfer{}, err
	}

	if _, err := e.cards.UpdateBalance(ctx, from.ID, from.Version, from.Balance.Sub(amount)); err != nil {
		return models.Transfer{}, err
	}
	if _, err := e.cards.UpdateBalance(ctx, to.ID, to.Version, credited); err != nil {
		return models.Transfer{}, err
	}
	return e.ledger.Append(ctx, transfer)
}

// lockInOrder locks cards in ascending id order so that two transfers over
// the same pair in opposite directions cannot deadlock.
func (e *TransferEngine) lockInOrder(ctx context.Context, ids ...int64) (map[int64]models.Card, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	locked := make(map[int64]models.Card, len(sorted))
	for _, id := range sorted {
		card, err := e.cards.LockByID(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = card
	}
	return locked, nil
}

// Block moves an active card to BLOCKED. Blocking is one-way.
func (e *TransferEngine) Block(ctx context.Context, cardID int64, today time.Time) (models.Card, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	logger := e.log.WithField("card_id", cardID)

	var blocked models.Card
	err := e.retry(ctx, logger, func(ctx context.Context) error {
		return e.uow.WithinTx(ctx, func(ctx context.Context) error {
			card, err := e.cards.LockByID(ctx, cardID)
			if err != nil {
				return err
			}
			if card.Status == models.CardStatusBlocked {
				return models.ErrAlreadyBlocked
			}
			if card.EffectiveStatus(today) == models.CardStatusExpired {
				return models.ErrCardExpired
			}
			blocked, err = e.cards.UpdateStatus(ctx, card.ID, card.Version, models.CardStatusBlocked)
			return err
		})
	})
	if err != nil {
		err = classify(err)
		if models.IsBusiness(err) {
			logger.WithError(err).Info("Card block rejected")
		} else {
			logger.WithError(err).Error("Card block failed")
		}
		return models.Card{}, err
	}

	logger.Info("Card blocked")
	e.notifier.CardBlocked(context.WithoutCancel(ctx), blocked)
	return blocked, nil
}

// Get returns a single transfer
func (e *TransferEngine) Get(ctx context.Context, id int64) (models.Transfer, error) {
	t, err := e.ledger.FindByID(ctx, id)
	if err != nil {
		return models.Transfer{}, classify(err)
	}
	return t, nil
}

// ListByOwner returns the owner's transfers, newest first
func (e *TransferEngine) ListByOwner(ctx context.Context, ownerID int64, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	transfers, err := e.ledger.FindByOwner(ctx, ownerID, filter, page.Normalize())
	if err != nil {
		return nil, classify(err)
	}
	return transfers, nil
}

// ListAll returns transfers of every owner matching filter, newest first
func (e *TransferEngine) ListAll(ctx context.Context, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	transfers, err := e.ledger.FindAll(ctx, filter, page.Normalize())
	if err != nil {
		return nil, classify(err)
	}
	return transfers, nil
}

// retry re-runs fn from scratch while it loses a version race, up to MaxRetries attempts
func (e *TransferEngine) retry(ctx context.Context, logger *logrus.Entry, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, models.ErrVersionConflict) || ctx.Err() != nil {
			return err
		}
		logger.WithField("attempt", attempt).Warn("Card changed concurrently, retrying")
	}
	return err
}

func (e *TransferEngine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.TxTimeout > 0 {
		return context.WithTimeout(ctx, e.cfg.TxTimeout)
	}
	return context.WithCancel(ctx)
}

func containsCard(cards []models.Card, id int64) bool {
	return slices.ContainsFunc(cards, func(c models.Card) bool { return c.ID == id })
}

// classify passes typed errors through and marks everything else internal
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case models.IsBusiness(err), errors.Is(err, models.ErrInternal):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return models.Internal(err)
	}
}
