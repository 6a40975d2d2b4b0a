package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCard(t *testing.T, s *Store, number string, balance string) models.Card {
	t.Helper()
	card, err := s.Create(context.Background(), models.Card{
		Number:         number,
		OwnerID:        1,
		ExpirationDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         models.CardStatusActive,
		Balance:        decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return card
}

func TestStore_CreateRejectsDuplicateNumber(t *testing.T) {
	s := NewStore()
	newCard(t, s, "n1", "1.00")

	_, err := s.Create(context.Background(), models.Card{Number: "n1", OwnerID: 2})
	assert.ErrorIs(t, err, models.ErrDuplicateCardNumber)
}

func TestStore_RollbackHidesPendingWrites(t *testing.T) {
	s := NewStore()
	card := newCard(t, s, "n1", "10.00")
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		locked, err := s.LockByID(ctx, card.ID)
		require.NoError(t, err)
		updated, err := s.UpdateBalance(ctx, card.ID, locked.Version, decimal.NewFromInt(3))
		require.NoError(t, err)

		// visible inside the transaction only
		inside, err := s.FindByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, inside)

		outside, err := s.FindByID(context.Background(), card.ID)
		require.NoError(t, err)
		assert.Equal(t, "10.00", outside.Balance.StringFixed(2))

		_, err = s.Append(ctx, models.Transfer{OwnerID: 1, CardFromID: 1, CardToID: 2, Amount: decimal.NewFromInt(7)})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := s.FindByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, card, after)

	list, err := s.Ledger().FindByOwner(context.Background(), 1, models.TransferFilter{}, models.Page{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_CommitDetectsConcurrentWrite(t *testing.T) {
	s := NewStore()
	card := newCard(t, s, "n1", "10.00")

	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		if _, err := s.UpdateBalance(ctx, card.ID, card.Version, decimal.NewFromInt(5)); err != nil {
			return err
		}
		// a write outside the transaction wins the race
		_, err := s.UpdateBalance(context.Background(), card.ID, card.Version, decimal.NewFromInt(1))
		require.NoError(t, err)
		return nil
	})
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	after, err := s.FindByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.00", after.Balance.StringFixed(2))
}

func TestStore_StaleVersionRejected(t *testing.T) {
	s := NewStore()
	card := newCard(t, s, "n1", "10.00")

	_, err := s.UpdateStatus(context.Background(), card.ID, card.Version+1, models.CardStatusBlocked)
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	_, err = s.UpdateBalance(context.Background(), card.ID, card.Version, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestStore_LockWaitsAndHonoursCancellation(t *testing.T) {
	s := NewStore()
	card := newCard(t, s, "n1", "10.00")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := s.LockByID(ctx, card.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.LockByID(ctx, card.ID)
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	// the lock is free again
	err = s.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := s.LockByID(ctx, card.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestStore_LockOutsideTransaction(t *testing.T) {
	s := NewStore()
	card := newCard(t, s, "n1", "10.00")

	_, err := s.LockByID(context.Background(), card.ID)
	assert.ErrorIs(t, err, models.ErrInternal)

	err = s.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := s.LockByID(ctx, 999)
		return err
	})
	assert.ErrorIs(t, err, models.ErrCardNotFound)
}

func TestStore_ExpireActive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	past := func(status models.CardStatus, number string) {
		_, err := s.Create(ctx, models.Card{
			Number: number, OwnerID: 1, Status: status,
			ExpirationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	past(models.CardStatusActive, "a")
	past(models.CardStatusBlocked, "b")
	newCard(t, s, "c", "0")

	n, err := s.ExpireActive(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	cards, err := s.FindOwnedBy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, models.CardStatusExpired, cards[0].Status)
	assert.Equal(t, models.CardStatusBlocked, cards[1].Status)
	assert.Equal(t, models.CardStatusActive, cards[2].Status)
}

func TestStore_Users(t *testing.T) {
	s := NewStore()
	u := s.AddUser(models.User{Email: "ann@example.com", Role: models.RoleUser})

	found, err := s.FindByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u, found)

	email, err := s.FindEmail(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)

	_, err = s.FindByEmail(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStore_DeleteRequiresUnusedCard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	funded := newCard(t, s, "n1", "10.00")
	empty := newCard(t, s, "n2", "0")
	spent := newCard(t, s, "n3", "0")

	_, err := s.Append(ctx, models.Transfer{OwnerID: 1, CardFromID: spent.ID, CardToID: funded.ID, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, funded.ID), models.ErrCardInUse)
	assert.ErrorIs(t, s.Delete(ctx, spent.ID), models.ErrCardInUse)
	require.NoError(t, s.Delete(ctx, empty.ID))
	assert.ErrorIs(t, s.Delete(ctx, empty.ID), models.ErrCardNotFound)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, funded.ID, all[0].ID)
	assert.Equal(t, spent.ID, all[1].ID)

	// the number is free for reuse
	newCard(t, s, "n2", "0")
}

func TestStore_DeleteWaitsForLockHolder(t *testing.T) {
	s := NewStore()
	card := newCard(t, s, "n1", "0")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := s.LockByID(ctx, card.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Delete(ctx, card.ID), context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
	assert.NoError(t, s.Delete(context.Background(), card.ID))

	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		return s.Delete(ctx, card.ID)
	})
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestStore_FindTransfersByCard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tr := range []models.Transfer{
		{OwnerID: 1, CardFromID: 1, CardToID: 2, Date: day},
		{OwnerID: 2, CardFromID: 3, CardToID: 2, Date: day.AddDate(0, 0, 1)},
		{OwnerID: 1, CardFromID: 2, CardToID: 1, Date: day.AddDate(0, 0, 2)},
	} {
		tr.Amount = decimal.NewFromInt(1)
		_, err := s.Append(ctx, tr)
		require.NoError(t, err)
	}

	all, err := s.Ledger().FindAll(ctx, models.TransferFilter{}, models.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID)

	toTwo, err := s.Ledger().FindAll(ctx, models.TransferFilter{CardToID: 2}, models.Page{})
	require.NoError(t, err)
	require.Len(t, toTwo, 2)
	assert.Equal(t, int64(2), toTwo[0].ID)

	pair, err := s.Ledger().FindAll(ctx, models.TransferFilter{CardFromID: 1, CardToID: 2, To: day}, models.Page{})
	require.NoError(t, err)
	require.Len(t, pair, 1)
	assert.Equal(t, int64(1), pair[0].ID)

	owned, err := s.Ledger().FindByOwner(ctx, 2, models.TransferFilter{CardFromID: 3}, models.Page{})
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}
