package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository/memory"
	"github.com/Dan9191/bank-cards/internal/utils"
	mail "github.com/Dan9191/bank-cards/internal/utils/email"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	sent []*email.Email
	err  error
}

func (o *outbox) send(e *email.Email) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, e)
	return nil
}

func TestSender_TransferNotification(t *testing.T) {
	box := &outbox{}
	logger, _ := test.NewNullLogger()
	sender := mail.NewSenderFunc("bank@example.com", box.send, logger)

	err := sender.SendTransferNotification("ann@example.com", models.Transfer{
		ID: 5, CardFromID: 1, CardToID: 2, Amount: decimal.NewFromInt(30),
		Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, box.sent, 1)
	assert.Equal(t, "bank@example.com", box.sent[0].From)
	assert.Equal(t, []string{"ann@example.com"}, box.sent[0].To)
	assert.Contains(t, string(box.sent[0].Text), "30.00")
	assert.Contains(t, string(box.sent[0].Text), "2025-01-02")
}

func TestSender_Failure(t *testing.T) {
	box := &outbox{err: errors.New("smtp down")}
	logger, _ := test.NewNullLogger()
	sender := mail.NewSenderFunc("bank@example.com", box.send, logger)

	err := sender.SendTransferNotification("ann@example.com", models.Transfer{})
	assert.Error(t, err)
}

func TestNotifier(t *testing.T) {
	box := &outbox{}
	logger, _ := test.NewNullLogger()
	store := memory.NewStore()
	ann := store.AddUser(models.User{Email: "ann@example.com", Role: models.RoleUser})

	codec, err := utils.NewXORCodec("bank_rest")
	require.NoError(t, err)
	encoded, err := codec.Encode("4111111111111111")
	require.NoError(t, err)

	n := mail.NewNotifier(mail.NewSenderFunc("bank@example.com", box.send, logger), store, codec, utils.Mask, logger)

	n.CardBlocked(context.Background(), models.Card{ID: 1, OwnerID: ann.ID, Number: encoded, Status: models.CardStatusBlocked})
	require.Len(t, box.sent, 1)
	assert.Contains(t, string(box.sent[0].Text), "**** **** **** 1111")
	assert.NotContains(t, string(box.sent[0].Text), "4111111111111111")

	n.TransferCompleted(context.Background(), models.Transfer{ID: 2, OwnerID: ann.ID, Amount: decimal.NewFromInt(1)})
	assert.Len(t, box.sent, 2)

	n.TransferCompleted(context.Background(), models.Transfer{ID: 3, OwnerID: ann.ID + 100})
	assert.Len(t, box.sent, 2, "unknown recipients are skipped")
}
