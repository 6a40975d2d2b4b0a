package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultCardPrefix is the issuer prefix used when a card is issued without a number
const DefaultCardPrefix = "400000"

// IssueCard describes a card to be issued. Number and ExpirationDate are optional.
type IssueCard struct {
	OwnerID        int64
	Number         string
	ExpirationDate time.Time
	Balance        decimal.Decimal
}

// CardService issues cards and serves card reads with masked numbers
type CardService struct {
	cards CardRegistry
	codec utils.CardNumberCodec
	log   *logrus.Logger
	now   func() time.Time
}

// NewCardService initializes a new card service
func NewCardService(cards CardRegistry, codec utils.CardNumberCodec, log *logrus.Logger) *CardService {
	return &CardService{cards: cards, codec: codec, log: log, now: time.Now}
}

// Issue creates an ACTIVE card for the owner
func (s *CardService) Issue(ctx context.Context, req IssueCard) (models.CardView, error) {
	today := models.DateOf(s.now())

	number := req.Number
	if number == "" {
		generated, err := utils.GenerateCardNumber(DefaultCardPrefix)
		if err != nil {
			return models.CardView{}, models.Internal(err)
		}
		number = generated
	}
	if err := utils.ValidateCardNumber(number); err != nil {
		return models.CardView{}, err
	}

	expiration := req.ExpirationDate
	if expiration.IsZero() {
		expiration = utils.DefaultExpiration(today)
	}
	expiration = models.DateOf(expiration)
	if expiration.Before(today) {
		return models.CardView{}, fmt.Errorf("%w: expiration date is in the past", models.ErrInvalidCard)
	}
	if req.OwnerID <= 0 {
		return models.CardView{}, fmt.Errorf("%w: owner is required", models.ErrInvalidCard)
	}
	balance, ok := models.NormalizeMoney(req.Balance)
	if !ok {
		return models.CardView{}, fmt.Errorf("%w: balance must be non-negative with at most two fractional digits and fit NUMERIC(19,2)", models.ErrInvalidCard)
	}

	encoded, err := s.codec.Encode(number)
	if err != nil {
		return models.CardView{}, models.Internal(fmt.Errorf("failed to encode card number: %w", err))
	}

	card, err := s.cards.Create(ctx, models.Card{
		Number:         encoded,
		OwnerID:        req.OwnerID,
		ExpirationDate: expiration,
		Status:         models.CardStatusActive,
		Balance:        balance,
	})
	if err != nil {
		return models.CardView{}, classify(err)
	}

	s.log.WithFields(logrus.Fields{"card_id": card.ID, "owner_id": card.OwnerID}).Info("Card issued")
	return s.view(card, number, today), nil
}

// Get returns a card with its number masked
func (s *CardService) Get(ctx context.Context, cardID int64) (models.CardView, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return models.CardView{}, classify(err)
	}
	return s.decodeView(card, models.DateOf(s.now()))
}

// Balance returns the current balance of a card
func (s *CardService) Balance(ctx context.Context, cardID int64) (models.CardBalance, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return models.CardBalance{}, classify(err)
	}
	return models.CardBalance{CardID: card.ID, OwnerID: card.OwnerID, Balance: card.Balance}, nil
}

// ListByOwner returns one page of the owner's cards matching filter, ordered by id
func (s *CardService) ListByOwner(ctx context.Context, ownerID int64, filter models.CardFilter, page models.Page) ([]models.CardView, error) {
	cards, err := s.cards.FindOwnedBy(ctx, ownerID)
	if err != nil {
		return nil, classify(err)
	}
	return s.page(cards, filter, page)
}

// ListAll returns one page of all cards matching filter, ordered by id
func (s *CardService) ListAll(ctx context.Context, filter models.CardFilter, page models.Page) ([]models.CardView, error) {
	cards, err := s.cards.FindAll(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return s.page(cards, filter, page)
}

// Delete removes a card that holds no balance and no transfer refers to
func (s *CardService) Delete(ctx context.Context, cardID int64) error {
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return classify(err)
	}
	s.log.WithField("card_id", cardID).Info("Card deleted")
	return nil
}

func (s *CardService) page(cards []models.Card, filter models.CardFilter, page models.Page) ([]models.CardView, error) {
	// Numbers are stored encoded, so number filtering happens after decoding
	today := models.DateOf(s.now())
	views := make([]models.CardView, 0, len(cards))
	for _, card := range cards {
		if !filter.ExpiresBefore.IsZero() && !card.ExpirationDate.Before(models.DateOf(filter.ExpiresBefore)) {
			continue
		}
		if filter.Status != "" && card.EffectiveStatus(today) != filter.Status {
			continue
		}
		number, err := s.codec.Decode(card.Number)
		if err != nil {
			return nil, models.Internal(fmt.Errorf("failed to decode card %d: %w", card.ID, err))
		}
		if filter.NumberContains != "" && !strings.Contains(number, filter.NumberContains) {
			continue
		}
		views = append(views, s.view(card, number, today))
	}

	start, end := page.Bounds(len(views))
	return views[start:end], nil
}

func (s *CardService) decodeView(card models.Card, today time.Time) (models.CardView, error) {
	number, err := s.codec.Decode(card.Number)
	if err != nil {
		return models.CardView{}, models.Internal(fmt.Errorf("failed to decode card %d: %w", card.ID, err))
	}
	return s.view(card, number, today), nil
}

func (s *CardService) view(card models.Card, number string, today time.Time) models.CardView {
	return models.CardView{
		ID:             card.ID,
		Number:         utils.Mask(number),
		OwnerID:        card.OwnerID,
		ExpirationDate: card.ExpirationDate,
		Status:         card.EffectiveStatus(today),
		Balance:        card.Balance,
	}
}
