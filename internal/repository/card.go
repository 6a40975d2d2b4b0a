package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const cardColumns = `id, number, owner_id, expiration_date, status, balance, version`

// CardRepository stores cards in Postgres
type CardRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewCardRepository initializes a new card repository
func NewCardRepository(db *sql.DB, logger *logrus.Logger) *CardRepository {
	return &CardRepository{db: db, logger: logger}
}

func scanCard(row scanner) (models.Card, error) {
	var (
		card   models.Card
		status string
	)
	err := row.Scan(
		&card.ID,
		&card.Number,
		&card.OwnerID,
		&card.ExpirationDate,
		&status,
		&card.Balance,
		&card.Version,
	)
	if err != nil {
		return models.Card{}, err
	}
	card.Status = models.CardStatus(status)
	card.ExpirationDate = models.DateOf(card.ExpirationDate)
	return card, nil
}

// Create inserts a new card and returns it with its id and version
func (r *CardRepository) Create(ctx context.Context, card models.Card) (models.Card, error) {
	query := `
		INSERT INTO bank.cards (number, owner_id, expiration_date, status, balance, version)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING ` + cardColumns
	created, err := scanCard(conn(ctx, r.db).QueryRowContext(ctx, query,
		card.Number,
		card.OwnerID,
		card.ExpirationDate,
		string(card.Status),
		card.Balance,
	))
	if err != nil {
		return models.Card{}, translateError(err, "failed to create card")
	}
	return created, nil
}

// FindByID retrieves a card by id
func (r *CardRepository) FindByID(ctx context.Context, cardID int64) (models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM bank.cards WHERE id = $1`
	card, err := scanCard(conn(ctx, r.db).QueryRowContext(ctx, query, cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, models.ErrCardNotFound
	}
	if err != nil {
		return models.Card{}, translateError(err, "failed to find card")
	}
	return card, nil
}

// LockByID reads a card with a row lock held until the surrounding transaction ends
func (r *CardRepository) LockByID(ctx context.Context, cardID int64) (models.Card, error) {
	tx, ok := txFrom(ctx)
	if !ok {
		return models.Card{}, models.Internal(fmt.Errorf("card lock requires a transaction"))
	}
	query := `SELECT ` + cardColumns + ` FROM bank.cards WHERE id = $1 FOR UPDATE`
	card, err := scanCard(tx.QueryRowContext(ctx, query, cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, models.ErrCardNotFound
	}
	if err != nil {
		return models.Card{}, translateError(err, "failed to lock card")
	}
	return card, nil
}

// FindOwnedBy returns every card of the owner ordered by id
func (r *CardRepository) FindOwnedBy(ctx context.Context, ownerID int64) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM bank.cards WHERE owner_id = $1 ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, translateError(err, "failed to query owner cards")
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan card")
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate cards")
	}
	return cards, nil
}

// FindAll returns every card ordered by id
func (r *CardRepository) FindAll(ctx context.Context) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM bank.cards ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to query cards")
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan card")
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate cards")
	}
	return cards, nil
}

// Delete removes a card that holds no money and appears in no transfer
func (r *CardRepository) Delete(ctx context.Context, cardID int64) error {
	query := `
		DELETE FROM bank.cards
		WHERE id = $1 AND balance = 0
		  AND NOT EXISTS (SELECT 1 FROM bank.transfers WHERE card_from_id = $1 OR card_to_id = $1)`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, cardID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return models.ErrCardInUse
	}
	if err != nil {
		return translateError(err, "failed to delete card")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateError(err, "failed to count deleted cards")
	}
	if n > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, cardID); err != nil {
		return err
	}
	r.logger.WithField("card_id", cardID).Debug("Card still in use, not deleted")
	return models.ErrCardInUse
}

// UpdateBalance sets the balance if the card is still at expectedVersion
func (r *CardRepository) UpdateBalance(ctx context.Context, cardID, expectedVersion int64, balance decimal.Decimal) (models.Card, error) {
	query := `
		UPDATE bank.cards SET balance = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING ` + cardColumns
	card, err := scanCard(conn(ctx, r.db).QueryRowContext(ctx, query, balance, cardID, expectedVersion))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.WithFields(logrus.Fields{"card_id": cardID, "version": expectedVersion}).Debug("Stale balance update")
		return models.Card{}, models.ErrVersionConflict
	}
	if err != nil {
		return models.Card{}, translateError(err, "failed to update card balance")
	}
	return card, nil
}

// UpdateStatus sets the status if the card is still at expectedVersion
func (r *CardRepository) UpdateStatus(ctx context.Context, cardID, expectedVersion int64, status models.CardStatus) (models.Card, error) {
	query := `
		UPDATE bank.cards SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING ` + cardColumns
	card, err := scanCard(conn(ctx, r.db).QueryRowContext(ctx, query, string(status), cardID, expectedVersion))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.WithFields(logrus.Fields{"card_id": cardID, "version": expectedVersion}).Debug("Stale status update")
		return models.Card{}, models.ErrVersionConflict
	}
	if err != nil {
		return models.Card{}, translateError(err, "failed to update card status")
	}
	return card, nil
}

// ExpireActive marks active cards whose expiration date has passed as EXPIRED
func (r *CardRepository) ExpireActive(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE bank.cards SET status = 'EXPIRED', version = version + 1
		WHERE status = 'ACTIVE' AND expiration_date < $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, models.DateOf(today))
	if err != nil {
		return 0, translateError(err, "failed to expire cards")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translateError(err, "failed to count expired cards")
	}
	return n, nil
}
