package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/sirupsen/logrus"
)

const transferColumns = `id, owner_id, card_from_id, card_to_id, transfer_date, amount`

// TransferRepository is the append-only transfer ledger in Postgres
type TransferRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewTransferRepository initializes a new transfer repository
func NewTransferRepository(db *sql.DB, logger *logrus.Logger) *TransferRepository {
	return &TransferRepository{db: db, logger: logger}
}

func scanTransfer(row scanner) (models.Transfer, error) {
	var t models.Transfer
	err := row.Scan(&t.ID, &t.OwnerID, &t.CardFromID, &t.CardToID, &t.Date, &t.Amount)
	if err != nil {
		return models.Transfer{}, err
	}
	t.Date = models.DateOf(t.Date)
	return t, nil
}

// Append records a new transfer. Ids are assigned by the database and never reused.
func (r *TransferRepository) Append(ctx context.Context, transfer models.Transfer) (models.Transfer, error) {
	if transfer.ID != 0 {
		return models.Transfer{}, models.Internal(fmt.Errorf("transfer %d is already recorded", transfer.ID))
	}
	query := `
		INSERT INTO bank.transfers (owner_id, card_from_id, card_to_id, transfer_date, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING ` + transferColumns
	created, err := scanTransfer(conn(ctx, r.db).QueryRowContext(ctx, query,
		transfer.OwnerID,
		transfer.CardFromID,
		transfer.CardToID,
		transfer.Date,
		transfer.Amount,
	))
	if err != nil {
		return models.Transfer{}, translateError(err, "failed to append transfer")
	}
	return created, nil
}

// FindByID retrieves a transfer by id
func (r *TransferRepository) FindByID(ctx context.Context, id int64) (models.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM bank.transfers WHERE id = $1`
	t, err := scanTransfer(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transfer{}, models.ErrTransferNotFound
	}
	if err != nil {
		return models.Transfer{}, translateError(err, "failed to find transfer")
	}
	return t, nil
}

// FindByOwner returns a page of the owner's transfers, newest first
func (r *TransferRepository) FindByOwner(ctx context.Context, ownerID int64, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	return r.find(ctx, []string{"owner_id = $1"}, []any{ownerID}, filter, page)
}

// FindAll returns a page of all transfers matching the filter, newest first
func (r *TransferRepository) FindAll(ctx context.Context, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	return r.find(ctx, nil, nil, filter, page)
}

func (r *TransferRepository) find(ctx context.Context, conds []string, args []any, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	page = page.Normalize()

	if !filter.From.IsZero() {
		args = append(args, models.DateOf(filter.From))
		conds = append(conds, fmt.Sprintf("transfer_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, models.DateOf(filter.To))
		conds = append(conds, fmt.Sprintf("transfer_date <= $%d", len(args)))
	}
	if filter.CardFromID != 0 {
		args = append(args, filter.CardFromID)
		conds = append(conds, fmt.Sprintf("card_from_id = $%d", len(args)))
	}
	if filter.CardToID != 0 {
		args = append(args, filter.CardToID)
		conds = append(conds, fmt.Sprintf("card_to_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, page.Size, page.Offset())

	query := fmt.Sprintf(`SELECT %s FROM bank.transfers%s ORDER BY transfer_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		transferColumns, where, len(args)-1, len(args))

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to query transfers")
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan transfer")
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate transfers")
	}
	return transfers, nil
}
