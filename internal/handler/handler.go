package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	dateLayout = "2006-01-02"

	maxBodyBytes = 64 << 10
	// longest accepted amount literal, quotes included
	maxAmountLength = 40
)

type errorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

type cardResponse struct {
	ID             int64  `json:"id"`
	Number         string `json:"number"`
	OwnerID        int64  `json:"owner_id"`
	ExpirationDate string `json:"expiration_date"`
	Status         string `json:"status"`
	Balance        string `json:"balance"`
}

func newCardResponse(v models.CardView) cardResponse {
	return cardResponse{
		ID:             v.ID,
		Number:         v.Number,
		OwnerID:        v.OwnerID,
		ExpirationDate: v.ExpirationDate.Format(dateLayout),
		Status:         string(v.Status),
		Balance:        v.Balance.StringFixed(models.MoneyScale),
	}
}

type balanceResponse struct {
	CardID  int64  `json:"card_id"`
	Balance string `json:"balance"`
}

type transferResponse struct {
	ID         int64  `json:"id"`
	OwnerID    int64  `json:"owner_id"`
	CardFromID int64  `json:"card_from_id"`
	CardToID   int64  `json:"card_to_id"`
	Date       string `json:"date"`
	Amount     string `json:"amount"`
}

func newTransferResponse(t models.Transfer) transferResponse {
	return transferResponse{
		ID:         t.ID,
		OwnerID:    t.OwnerID,
		CardFromID: t.CardFromID,
		CardToID:   t.CardToID,
		Date:       t.Date.Format(dateLayout),
		Amount:     t.Amount.StringFixed(models.MoneyScale),
	}
}

func writeJSON(w http.ResponseWriter, logger *logrus.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps an error kind to its HTTP status. Internal failures are
// logged and reported without their cause.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	resp := errorResponse{
		Error:     models.CodeOf(err),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
	var notActive *models.CardNotActiveError
	if errors.As(err, &notActive) {
		resp.Details = map[string]interface{}{"card_id": notActive.CardID, "status": notActive.Status}
	}
	if status == http.StatusServiceUnavailable {
		resp.Error = "TIMEOUT"
		resp.Message = "request timed out"
	}
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
		resp.Message = "internal error"
	}
	writeJSON(w, logger, status, resp)
}

func badRequest(w http.ResponseWriter, logger *logrus.Logger, msg string) {
	writeJSON(w, logger, http.StatusBadRequest, errorResponse{
		Error:     "BAD_REQUEST",
		Message:   msg,
		Timestamp: time.Now().UTC(),
	})
}

func forbidden(w http.ResponseWriter, logger *logrus.Logger) {
	writeJSON(w, logger, http.StatusForbidden, errorResponse{
		Error:     "FORBIDDEN",
		Message:   "access denied",
		Timestamp: time.Now().UTC(),
	})
}

// caller returns the authenticated caller, writing 401 when there is none
func caller(w http.ResponseWriter, r *http.Request, logger *logrus.Logger) (middleware.Caller, bool) {
	c, ok := middleware.CallerFrom(r.Context())
	if !ok {
		writeJSON(w, logger, http.StatusUnauthorized, errorResponse{
			Error:     "UNAUTHORIZED",
			Message:   "authentication required",
			Timestamp: time.Now().UTC(),
		})
	}
	return c, ok
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryPage(r *http.Request) (models.Page, error) {
	var page models.Page
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, fmt.Errorf("invalid page %q", v)
		}
		page.Number = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return page, fmt.Errorf("invalid size %q", v)
		}
		page.Size = n
	}
	return page.Normalize(), nil
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", name, v)
	}
	return d, nil
}

// queryID reads an optional positive id from the query string
func queryID(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return id, nil
}

// decodeJSON reads a size-limited request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// parseAmount accepts a JSON number or string. Failures wrap models.ErrInvalidAmount.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	var d decimal.Decimal
	if len(raw) == 0 {
		return d, fmt.Errorf("%w: amount is required", models.ErrInvalidAmount)
	}
	if len(raw) > maxAmountLength {
		return d, fmt.Errorf("%w: longer than %d characters", models.ErrInvalidAmount, maxAmountLength)
	}
	if err := d.UnmarshalJSON(raw); err != nil {
		return d, fmt.Errorf("%w: %v", models.ErrInvalidAmount, err)
	}
	return d, nil
}
