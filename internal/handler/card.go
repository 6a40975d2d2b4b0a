package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Cards is the card use case surface served over HTTP
type Cards interface {
	Issue(ctx context.Context, req service.IssueCard) (models.CardView, error)
	Get(ctx context.Context, cardID int64) (models.CardView, error)
	Balance(ctx context.Context, cardID int64) (models.CardBalance, error)
	ListByOwner(ctx context.Context, ownerID int64, filter models.CardFilter, page models.Page) ([]models.CardView, error)
	ListAll(ctx context.Context, filter models.CardFilter, page models.Page) ([]models.CardView, error)
	Delete(ctx context.Context, cardID int64) error
}

// Blocker moves a card to BLOCKED
type Blocker interface {
	Block(ctx context.Context, cardID int64, today time.Time) (models.Card, error)
}

type CardHandler struct {
	cards   Cards
	blocker Blocker
	logger  *logrus.Logger
	now     func() time.Time
}

func NewCardHandler(cards Cards, blocker Blocker, logger *logrus.Logger) *CardHandler {
	return &CardHandler{cards: cards, blocker: blocker, logger: logger, now: time.Now}
}

func (h *CardHandler) RegisterRoutes(router *mux.Router) {
	admin := middleware.RequireRole(models.RoleAdmin)
	router.Handle("/cards", admin(http.HandlerFunc(h.IssueCard))).Methods(http.MethodPost)
	router.Handle("/cards", admin(http.HandlerFunc(h.ListAllCards))).Methods(http.MethodGet)
	router.HandleFunc("/cards/{id}", h.GetCard).Methods(http.MethodGet)
	router.Handle("/cards/{id}", admin(http.HandlerFunc(h.DeleteCard))).Methods(http.MethodDelete)
	router.HandleFunc("/cards/{id}/balance", h.GetBalance).Methods(http.MethodGet)
	router.HandleFunc("/cards/{id}/blocked", h.BlockCard).Methods(http.MethodPut)
	router.HandleFunc("/users/{userId}/cards", h.ListCards).Methods(http.MethodGet)
}

type issueCardRequest struct {
	OwnerID        int64           `json:"owner_id"`
	Number         string          `json:"number"`
	ExpirationDate string          `json:"expiration_date"`
	Balance        json.RawMessage `json:"balance"`
}

// IssueCard creates a card for any owner
func (h *CardHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
	var req issueCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}

	issue := service.IssueCard{
		OwnerID: req.OwnerID,
		Number:  strings.ReplaceAll(req.Number, " ", ""),
		Balance: decimal.Zero,
	}
	if req.ExpirationDate != "" {
		d, err := time.Parse(dateLayout, req.ExpirationDate)
		if err != nil {
			badRequest(w, h.logger, "invalid expiration_date, expected YYYY-MM-DD")
			return
		}
		issue.ExpirationDate = d
	}
	if len(req.Balance) > 0 {
		b, err := parseAmount(req.Balance)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		issue.Balance = b
	}

	view, err := h.cards.Issue(r.Context(), issue)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, newCardResponse(view))
}

// GetCard returns a masked card visible to the caller
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	view, ok := h.visibleCard(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newCardResponse(view))
}

func (h *CardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}

	bal, err := h.cards.Balance(r.Context(), id)
	if err == nil && !c.IsAdmin() && bal.OwnerID != c.UserID {
		err = models.ErrCardNotFound
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, balanceResponse{
		CardID:  bal.CardID,
		Balance: bal.Balance.StringFixed(models.MoneyScale),
	})
}

// BlockCard blocks a card. Blocking cannot be undone.
func (h *CardHandler) BlockCard(w http.ResponseWriter, r *http.Request) {
	view, ok := h.visibleCard(w, r)
	if !ok {
		return
	}

	if _, err := h.blocker.Block(r.Context(), view.ID, h.now()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.cards.Get(r.Context(), view.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newCardResponse(view))
}

// ListCards lists the cards of a user, filtered by number digits or expiration
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerScope(w, r, h.logger, true)
	if !ok {
		return
	}
	filter, page, err := cardQuery(r)
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}

	views, err := h.cards.ListByOwner(r.Context(), ownerID, filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.writeCards(w, views)
}

// ListAllCards lists cards of every owner with the same filters as ListCards
func (h *CardHandler) ListAllCards(w http.ResponseWriter, r *http.Request) {
	filter, page, err := cardQuery(r)
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}

	views, err := h.cards.ListAll(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.writeCards(w, views)
}

// DeleteCard removes an unused card
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return
	}
	if err := h.cards.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) writeCards(w http.ResponseWriter, views []models.CardView) {
	out := make([]cardResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newCardResponse(v))
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

func cardQuery(r *http.Request) (models.CardFilter, models.Page, error) {
	page, err := queryPage(r)
	if err != nil {
		return models.CardFilter{}, models.Page{}, err
	}
	expiresBefore, err := queryDate(r, "expires_before")
	if err != nil {
		return models.CardFilter{}, models.Page{}, err
	}
	filter := models.CardFilter{
		NumberContains: r.URL.Query().Get("number"),
		ExpiresBefore:  expiresBefore,
		Status:         models.CardStatus(strings.ToUpper(r.URL.Query().Get("status"))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return models.CardFilter{}, models.Page{}, errors.New("invalid status")
	}
	return filter, page, nil
}

// visibleCard loads the card named in the path. A card of another owner is
// reported as missing unless the caller is an admin.
func (h *CardHandler) visibleCard(w http.ResponseWriter, r *http.Request) (models.CardView, bool) {
	c, ok := caller(w, r, h.logger)
	if !ok {
		return models.CardView{}, false
	}
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, h.logger, err.Error())
		return models.CardView{}, false
	}

	view, err := h.cards.Get(r.Context(), id)
	if err == nil && !c.IsAdmin() && view.OwnerID != c.UserID {
		err = models.ErrCardNotFound
	}
	if err != nil {
		writeError(w, h.logger, err)
		return models.CardView{}, false
	}
	return view, true
}

// ownerScope resolves {userId} and checks the caller may act for it.
// Admins pass only when adminAllowed is set.
func ownerScope(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, adminAllowed bool) (int64, bool) {
	c, ok := caller(w, r, logger)
	if !ok {
		return 0, false
	}
	ownerID, err := pathID(r, "userId")
	if err != nil {
		badRequest(w, logger, err.Error())
		return 0, false
	}
	if ownerID != c.UserID && !(adminAllowed && c.IsAdmin()) {
		forbidden(w, logger)
		return 0, false
	}
	return ownerID, true
}
