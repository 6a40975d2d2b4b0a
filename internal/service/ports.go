package service

import (
	"context"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/shopspring/decimal"
)

// CardStore owns card persistence. Mutations are compare-and-swap on Card.Version
// and return models.ErrVersionConflict when the card changed since it was read.
type CardStore interface {
	FindOwnedBy(ctx context.Context, ownerID int64) ([]models.Card, error)
	FindByID(ctx context.Context, cardID int64) (models.Card, error)
	// LockByID reads the card and holds it exclusively until the surrounding transaction ends
	LockByID(ctx context.Context, cardID int64) (models.Card, error)
	UpdateBalance(ctx context.Context, cardID, expectedVersion int64, balance decimal.Decimal) (models.Card, error)
	UpdateStatus(ctx context.Context, cardID, expectedVersion int64, status models.CardStatus) (models.Card, error)
}

// CardRegistry is the part of card persistence used to issue, list and remove cards
type CardRegistry interface {
	Create(ctx context.Context, card models.Card) (models.Card, error)
	FindByID(ctx context.Context, cardID int64) (models.Card, error)
	FindOwnedBy(ctx context.Context, ownerID int64) ([]models.Card, error)
	FindAll(ctx context.Context) ([]models.Card, error)
	// Delete removes a card with a zero balance that no transfer references.
	// Otherwise it returns models.ErrCardInUse.
	Delete(ctx context.Context, cardID int64) error
}

// ExpiryStore persists the time-based ACTIVE -> EXPIRED transition
type ExpiryStore interface {
	ExpireActive(ctx context.Context, today time.Time) (int64, error)
}

// TransferLedger is the append-only store of transfers
type TransferLedger interface {
	Append(ctx context.Context, transfer models.Transfer) (models.Transfer, error)
	FindByID(ctx context.Context, id int64) (models.Transfer, error)
	FindByOwner(ctx context.Context, ownerID int64, filter models.TransferFilter, page models.Page) ([]models.Transfer, error)
	FindAll(ctx context.Context, filter models.TransferFilter, page models.Page) ([]models.Transfer, error)
}

// UnitOfWork runs fn in a single transaction. Stores called with the ctx passed
// to fn take part in it; the transaction commits only if fn returns nil.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore resolves users for authentication
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Notifier is told about committed state changes. Implementations are best effort
// and must not fail the operation that triggered them.
type Notifier interface {
	TransferCompleted(ctx context.Context, transfer models.Transfer)
	CardBlocked(ctx context.Context, card models.Card)
}
