package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits carried by balances and amounts
const MoneyScale = 2

// Transfer is an immutable record of money moved between two cards of one owner
type Transfer struct {
	ID         int64           `json:"id"`
	OwnerID    int64           `json:"owner_id"`
	CardFromID int64           `json:"card_from_id"`
	CardToID   int64           `json:"card_to_id"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewTransfer builds an unsaved transfer, rejecting amounts and card pairs
// that could never be recorded.
func NewTransfer(ownerID, cardFromID, cardToID int64, amount decimal.Decimal, date time.Time) (Transfer, error) {
	amount, err := NormalizeAmount(amount)
	if err != nil {
		return Transfer{}, err
	}
	if cardFromID == cardToID {
		return Transfer{}, ErrSameCard
	}
	return Transfer{
		OwnerID:    ownerID,
		CardFromID: cardFromID,
		CardToID:   cardToID,
		Date:       DateOf(date),
		Amount:     amount,
	}, nil
}

// MaxMoney is the largest value a NUMERIC(19,2) column holds
var MaxMoney = decimal.New(1, 17).Sub(decimal.New(1, -MoneyScale))

const (
	maxIntegerDigits  = 17
	maxFractionDigits = 20
)

// NormalizeMoney checks that v is a non-negative value with at most two
// fractional digits that fits NUMERIC(19,2), and returns it at fixed scale.
// Magnitude is checked on the coefficient and exponent before any rounding,
// so exponent notation such as 1e50000000 is rejected without expanding it.
func NormalizeMoney(v decimal.Decimal) (decimal.Decimal, bool) {
	if v.IsNegative() {
		return decimal.Decimal{}, false
	}
	if v.IsZero() {
		return decimal.Zero, true
	}
	exp := int64(v.Exponent())
	if exp < -maxFractionDigits || int64(v.NumDigits())+exp > maxIntegerDigits {
		return decimal.Decimal{}, false
	}
	rounded := v.Round(MoneyScale)
	if !rounded.Equal(v) || rounded.GreaterThan(MaxMoney) {
		return decimal.Decimal{}, false
	}
	return rounded, true
}

// NormalizeAmount checks that amount is strictly positive, fits a balance
// and has at most two fractional digits. It returns the amount at fixed scale.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	normalized, ok := NormalizeMoney(amount)
	if !ok {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return normalized, nil
}

// TransferFilter narrows a transfer listing. Dates are inclusive; zero values
// disable a criterion.
type TransferFilter struct {
	From       time.Time
	To         time.Time
	CardFromID int64
	CardToID   int64
}
