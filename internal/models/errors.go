package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every business error unwraps to exactly one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Business errors returned by stores and services
var (
	ErrCardNotFound        = newCodeError(ErrNotFound, "CARD_NOT_FOUND", "card not found")
	ErrTransferNotFound    = newCodeError(ErrNotFound, "TRANSFER_NOT_FOUND", "transfer not found")
	ErrUserNotFound        = newCodeError(ErrNotFound, "USER_NOT_FOUND", "user not found")
	ErrInvalidAmount       = newCodeError(ErrValidation, "INVALID_AMOUNT", "amount must be positive with at most two fractional digits")
	ErrSameCard            = newCodeError(ErrValidation, "SAME_CARD", "source and destination cards must differ")
	ErrCardNotActive       = newCodeError(ErrValidation, "CARD_NOT_ACTIVE", "card is not active")
	ErrInsufficientFunds   = newCodeError(ErrValidation, "INSUFFICIENT_FUNDS", "insufficient funds")
	ErrBalanceLimit        = newCodeError(ErrValidation, "BALANCE_LIMIT", "destination balance would exceed the maximum")
	ErrInvalidCardNumber   = newCodeError(ErrValidation, "INVALID_CARD_NUMBER", "card number must be 16 digits with a valid check digit")
	ErrInvalidCard         = newCodeError(ErrValidation, "INVALID_CARD", "invalid card attributes")
	ErrAlreadyBlocked      = newCodeError(ErrValidation, "ALREADY_BLOCKED", "card is already blocked")
	ErrCardExpired         = newCodeError(ErrValidation, "CARD_EXPIRED", "card is expired and cannot be blocked")
	ErrInvalidCredentials  = newCodeError(ErrValidation, "INVALID_CREDENTIALS", "invalid credentials")
	ErrDuplicateCardNumber = newCodeError(ErrConflict, "DUPLICATE_CARD_NUMBER", "card number already exists")
	ErrVersionConflict     = newCodeError(ErrConflict, "VERSION_CONFLICT", "card was modified concurrently")
	ErrCardInUse           = newCodeError(ErrConflict, "CARD_IN_USE", "card holds a balance or appears in recorded transfers")
)

type codeError struct {
	kind error
	code string
	msg  string
}

func newCodeError(kind error, code, msg string) *codeError {
	return &codeError{kind: kind, code: code, msg: msg}
}

func (e *codeError) Error() string { return e.msg }
func (e *codeError) Unwrap() error { return e.kind }
func (e *codeError) Code() string  { return e.code }

// CardNotActiveError names the card that failed the eligibility check and why
type CardNotActiveError struct {
	CardID int64
	Status CardStatus
}

func (e *CardNotActiveError) Error() string {
	return fmt.Sprintf("card %d is not active: %s", e.CardID, e.Status)
}

func (e *CardNotActiveError) Unwrap() error { return ErrCardNotActive }
func (e *CardNotActiveError) Code() string  { return ErrCardNotActive.code }

type internalError struct {
	err error
}

func (e *internalError) Error() string   { return "internal error: " + e.err.Error() }
func (e *internalError) Unwrap() []error { return []error{ErrInternal, e.err} }

// Internal marks an infrastructure failure unrelated to business rules
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &internalError{err: err}
}

// IsBusiness reports whether err belongs to one of the typed business kinds
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}

// CodeOf returns the machine-readable code carried by err, or "INTERNAL"
func CodeOf(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return "INTERNAL"
}
