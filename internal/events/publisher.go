package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event names, appended to the subject prefix
const (
	TransferCompleted = "transfer.completed"
	CardBlocked       = "card.blocked"
)

// Conn is the subset of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
}

// Envelope is the JSON message published for every event
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type transferPayload struct {
	TransferID int64  `json:"transfer_id"`
	OwnerID    int64  `json:"owner_id"`
	CardFromID int64  `json:"card_from_id"`
	CardToID   int64  `json:"card_to_id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
}

type cardPayload struct {
	CardID  int64  `json:"card_id"`
	OwnerID int64  `json:"owner_id"`
	Status  string `json:"status"`
}

// Publisher emits domain events to NATS. It satisfies service.Notifier.
type Publisher struct {
	conn   Conn
	prefix string
	log    *logrus.Logger
	now    func() time.Time
}

// NewPublisher initializes a publisher writing under prefix
func NewPublisher(conn Conn, prefix string, log *logrus.Logger) *Publisher {
	return &Publisher{conn: conn, prefix: prefix, log: log, now: time.Now}
}

// Connect dials the NATS server at url
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("bank-cards"))
}

// Subject returns the full subject of an event name
func (p *Publisher) Subject(event string) string {
	if p.prefix == "" {
		return event
	}
	return p.prefix + "." + event
}

func (p *Publisher) TransferCompleted(ctx context.Context, transfer models.Transfer) {
	p.publish(TransferCompleted, strconv.FormatInt(transfer.ID, 10), transferPayload{
		TransferID: transfer.ID,
		OwnerID:    transfer.OwnerID,
		CardFromID: transfer.CardFromID,
		CardToID:   transfer.CardToID,
		Amount:     transfer.Amount.StringFixed(models.MoneyScale),
		Date:       transfer.Date.Format("2006-01-02"),
	})
}

func (p *Publisher) CardBlocked(ctx context.Context, card models.Card) {
	p.publish(CardBlocked, strconv.FormatInt(card.ID, 10), cardPayload{
		CardID:  card.ID,
		OwnerID: card.OwnerID,
		Status:  string(card.Status),
	})
}

func (p *Publisher) publish(event, key string, payload interface{}) {
	logger := p.log.WithFields(logrus.Fields{"event": event, "key": key})

	body, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal event payload")
		return
	}
	data, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       event,
		OccurredAt: p.now().UTC(),
		Payload:    body,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to marshal event")
		return
	}

	if err := p.conn.Publish(p.Subject(event), data); err != nil {
		logger.WithError(err).Error("Failed to publish event")
		return
	}
	logger.Debug("Event published")
}
