package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardStatus is the stored lifecycle state of a card
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

// Valid reports whether s is a known status
func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusActive, CardStatusBlocked, CardStatusExpired:
		return true
	}
	return false
}

// Card represents a payment card. Number holds the encoded form, never the plaintext.
type Card struct {
	ID             int64           `json:"id"`
	Number         string          `json:"-"`
	OwnerID        int64           `json:"owner_id"`
	ExpirationDate time.Time       `json:"expiration_date"`
	Status         CardStatus      `json:"status"`
	Balance        decimal.Decimal `json:"balance"`
	Version        int64           `json:"-"`
}

// EffectiveStatus derives the status used for eligibility checks.
// A passed expiration date overrides whatever is stored.
func (c Card) EffectiveStatus(today time.Time) CardStatus {
	if DateOf(c.ExpirationDate).Before(DateOf(today)) {
		return CardStatusExpired
	}
	return c.Status
}

// CardView is the display form of a card with a masked number
type CardView struct {
	ID             int64
	Number         string
	OwnerID        int64
	ExpirationDate time.Time
	Status         CardStatus
	Balance        decimal.Decimal
}

// CardBalance is the result of a balance inquiry
type CardBalance struct {
	CardID  int64
	OwnerID int64
	Balance decimal.Decimal
}

// CardFilter narrows a card listing. Zero values disable a criterion.
type CardFilter struct {
	NumberContains string
	ExpiresBefore  time.Time
	Status         CardStatus
}

// DateOf truncates t to a calendar date in UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
