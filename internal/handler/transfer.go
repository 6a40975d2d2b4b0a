package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/statement"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Transfers is the transfer use case surface served over HTTP
type Transfers interface {
	Execute(ctx context.Context, ownerID, cardFromID, cardToID int64, amount decimal.Decimal, today time.Time) (models.Transfer, error)
	Get(ctx context.Context, id int64) (models.Transfer, error)
	ListByOwner(ctx context.Context, ownerID int64, filter models.TransferFilter, page models.Page) ([]models.Transfer, error)
	ListAll(ctx context.Context, filter models.TransferFilter, page models.Page) ([]models.Transfer, error)
}

type TransferHandler struct {
	transfers Transfers
	cards     Cards
	logger    *logrus.Logger
	now       func() time.Time
}

func NewTransferHandler(transfers Transfers, cards Cards, logger *logrus.Logger) *TransferHandler {
	return &TransferHandler{transfers: transfers, cards: cards, logger: logger, now: time.Now}
}

func (h *TransferHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/transfers", h.CreateTransfer).Methods(http.MethodPost)
	router.HandleFunc("/users/{userId}/transfers", h.ListTransfers).Methods(http.MethodGet)
	router.HandleFunc("/users/{userId}/statement", h.Statement).Methods(http.MethodGet)
	router.Handle("/transfers", middleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(h.ListAllTransfers))).Methods(http.MethodGet)
	router.HandleFunc("/transfers/{id}", h.GetTransfer).Methods(http.MethodGet)
}

type transferRequest struct {
	CardFromID int64           `json:"card_from_id"`
	CardToID   int64           `json:"card_to_id"`
	Amount     json.RawMessage `json:"amount"`
}

// CreateTransfer moves money between two cards of the caller
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerScope(w, r, h.logger, false)
	if !ok {
		return
	}

	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	t, err := h.transfers.Execute(r.Context(), ownerID, req.CardFromID, req.CardToID, amount, h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, newTransferResponse(t))
}

// GetTransfer returns a transfer visible to the caller
func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}

	t, err := h.transfers.Get(r.Context(), id)
	if err == nil && !c.IsAdmin() && t.OwnerID != c.UserID {
		err = models.ErrTransferNotFound
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newTransferResponse(t))
}

func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerScope(w, r, h.logger, true)
	if !ok {
		return
	}
	page, err := queryPage(r)
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}
	filter, ok := h.transferFilter(w, r)
	if !ok {
		return
	}

	transfers, err := h.transfers.ListByOwner(r.Context(), ownerID, filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.writeTransfers(w, transfers)
}

// ListAllTransfers lists transfers of every owner, filtered by date and cards
func (h *TransferHandler) ListAllTransfers(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}
	filter, ok := h.transferFilter(w, r)
	if !ok {
		return
	}

	transfers, err := h.transfers.ListAll(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.writeTransfers(w, transfers)
}

func (h *TransferHandler) writeTransfers(w http.ResponseWriter, transfers []models.Transfer) {
	out := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, newTransferResponse(t))
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

// Statement exports the user's cards and transfers over a period as XML
func (h *TransferHandler) Statement(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerScope(w, r, h.logger, true)
	if !ok {
		return
	}
	filter, ok := h.transferFilter(w, r)
	if !ok {
		return
	}

	cards, err := collect(func(p models.Page) ([]models.CardView, error) {
		return h.cards.ListByOwner(r.Context(), ownerID, models.CardFilter{}, p)
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	transfers, err := collect(func(p models.Page) ([]models.Transfer, error) {
		return h.transfers.ListByOwner(r.Context(), ownerID, filter, p)
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out, err := statement.Render(ownerID, statement.Period{From: filter.From, To: filter.To}, h.now(), cards, transfers)
	if err != nil {
		writeError(w, h.logger, models.Internal(err))
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.logger.WithError(err).Error("Failed to write statement")
	}
}

func (h *TransferHandler) transferFilter(w http.ResponseWriter, r *http.Request) (models.TransferFilter, bool) {
	from, err := queryDate(r, "from")
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return models.TransferFilter{}, false
	}
	to, err := queryDate(r, "to")
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return models.TransferFilter{}, false
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		badRequest(w, h.logger, "to must not be before from")
		return models.TransferFilter{}, false
	}
	filter := models.TransferFilter{From: from, To: to}
	if filter.CardFromID, err = queryID(r, "card_from"); err != nil {
		badRequest(w, h.logger, err.Error())
		return models.TransferFilter{}, false
	}
	if filter.CardToID, err = queryID(r, "card_to"); err != nil {
		badRequest(w, h.logger, err.Error())
		return models.TransferFilter{}, false
	}
	return filter, true
}

// collect walks every page of a listing
func collect[T any](list func(models.Page) ([]T, error)) ([]T, error) {
	var all []T
	for page := (models.Page{Size: models.MaxPageSize}); ; page.Number++ {
		items, err := list(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < page.Size {
			return all, nil
		}
	}
}
