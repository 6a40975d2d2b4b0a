package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-cards/internal/events"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	subject string
	data    []byte
}

type fakeConn struct {
	sent []message
	err  error
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, message{subject: subject, data: data})
	return nil
}

func TestPublisher_TransferCompleted(t *testing.T) {
	conn := &fakeConn{}
	logger, _ := test.NewNullLogger()
	p := events.NewPublisher(conn, "bankcards", logger)

	p.TransferCompleted(context.Background(), models.Transfer{
		ID:         9,
		OwnerID:    42,
		CardFromID: 1,
		CardToID:   2,
		Date:       time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.RequireFromString("30"),
	})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, "bankcards.transfer.completed", conn.sent[0].subject)

	var env events.Envelope
	require.NoError(t, json.Unmarshal(conn.sent[0].data, &env))
	assert.Equal(t, events.TransferCompleted, env.Type)
	_, err := uuid.Parse(env.ID)
	assert.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "30.00", payload["amount"])
	assert.Equal(t, "2025-01-02", payload["date"])
	assert.EqualValues(t, 42, payload["owner_id"])
}

func TestPublisher_CardBlocked(t *testing.T) {
	conn := &fakeConn{}
	logger, _ := test.NewNullLogger()
	p := events.NewPublisher(conn, "", logger)

	p.CardBlocked(context.Background(), models.Card{ID: 3, OwnerID: 42, Status: models.CardStatusBlocked})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, "card.blocked", conn.sent[0].subject)
	assert.Contains(t, string(conn.sent[0].data), `"status":"BLOCKED"`)
}

func TestPublisher_FailureIsLogged(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	logger, hook := test.NewNullLogger()
	p := events.NewPublisher(conn, "bankcards", logger)

	p.CardBlocked(context.Background(), models.Card{ID: 3})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
