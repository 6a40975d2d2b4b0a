// Package memory is an in-process implementation of the card, ledger, user and
// transaction ports. Cards are locked with per-card semaphores and writes made
// inside a transaction stay private until commit.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/shopspring/decimal"
)

type txKey struct{}

type tx struct {
	held      map[int64]chan struct{}
	cards     map[int64]models.Card
	base      map[int64]int64
	transfers []models.Transfer
}

// Store keeps cards, transfers and users in memory
type Store struct {
	mu        sync.Mutex
	cards     map[int64]models.Card
	numbers   map[string]int64
	locks     map[int64]chan struct{}
	transfers map[int64]models.Transfer
	users     map[int64]models.User
	nextCard  int64
	nextXfer  int64
	nextUser  int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		cards:     make(map[int64]models.Card),
		numbers:   make(map[string]int64),
		locks:     make(map[int64]chan struct{}),
		transfers: make(map[int64]models.Transfer),
		users:     make(map[int64]models.User),
	}
}

func txFrom(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey{}).(*tx)
	return t, ok
}

// WithinTx runs fn in a transaction. Locks are released when it ends; pending
// writes are published only if fn succeeds and ctx is still live.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	t := &tx{
		held:  make(map[int64]chan struct{}),
		cards: make(map[int64]models.Card),
		base:  make(map[int64]int64),
	}
	defer s.release(t)

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(t)
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, version := range t.base {
		if s.cards[id].Version != version {
			return models.ErrVersionConflict
		}
	}
	for id, card := range t.cards {
		s.cards[id] = card
	}
	for _, tr := range t.transfers {
		s.transfers[tr.ID] = tr
	}
	return nil
}

func (s *Store) release(t *tx) {
	for _, lock := range t.held {
		<-lock
	}
}

// Create adds a card and assigns its id
func (s *Store) Create(ctx context.Context, card models.Card) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.numbers[card.Number]; exists {
		return models.Card{}, models.ErrDuplicateCardNumber
	}
	if card.Balance.IsNegative() {
		return models.Card{}, models.Internal(fmt.Errorf("negative balance"))
	}
	s.nextCard++
	card.ID = s.nextCard
	card.Version = 0
	card.ExpirationDate = models.DateOf(card.ExpirationDate)
	s.cards[card.ID] = card
	s.numbers[card.Number] = card.ID
	s.locks[card.ID] = make(chan struct{}, 1)
	return card, nil
}

// current returns the card as seen from ctx: pending writes first, then committed state
func (s *Store) current(ctx context.Context, cardID int64) (models.Card, bool) {
	if t, ok := txFrom(ctx); ok {
		if card, ok := t.cards[cardID]; ok {
			return card, true
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[cardID]
	return card, ok
}

// FindByID retrieves a card by id
func (s *Store) FindByID(ctx context.Context, cardID int64) (models.Card, error) {
	card, ok := s.current(ctx, cardID)
	if !ok {
		return models.Card{}, models.ErrCardNotFound
	}
	return card, nil
}

// FindOwnedBy returns every card of the owner ordered by id
func (s *Store) FindOwnedBy(ctx context.Context, ownerID int64) ([]models.Card, error) {
	s.mu.Lock()
	var ids []int64
	for id, card := range s.cards {
		if card.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	slices.Sort(ids)
	cards := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		card, _ := s.current(ctx, id)
		cards = append(cards, card)
	}
	return cards, nil
}

// FindAll returns every card ordered by id
func (s *Store) FindAll(ctx context.Context) ([]models.Card, error) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.cards))
	for id := range s.cards {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	slices.Sort(ids)
	cards := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		if card, ok := s.current(ctx, id); ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// Delete removes a card that holds no money and appears in no transfer. It waits
// for transfers holding the card to finish and cannot run inside a transaction.
func (s *Store) Delete(ctx context.Context, cardID int64) error {
	if _, ok := txFrom(ctx); ok {
		return models.Internal(fmt.Errorf("card delete cannot join a transaction"))
	}

	s.mu.Lock()
	lock, exists := s.locks[cardID]
	s.mu.Unlock()
	if !exists {
		return models.ErrCardNotFound
	}
	select {
	case lock <- struct{}{}:
		defer func() { <-lock }()
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[cardID]
	if !ok {
		return models.ErrCardNotFound
	}
	if !card.Balance.IsZero() {
		return models.ErrCardInUse
	}
	for _, t := range s.transfers {
		if t.CardFromID == cardID || t.CardToID == cardID {
			return models.ErrCardInUse
		}
	}
	delete(s.cards, cardID)
	delete(s.numbers, card.Number)
	delete(s.locks, cardID)
	return nil
}

// LockByID waits for exclusive access to the card and holds it until the transaction ends
func (s *Store) LockByID(ctx context.Context, cardID int64) (models.Card, error) {
	t, ok := txFrom(ctx)
	if !ok {
		return models.Card{}, models.Internal(fmt.Errorf("card lock requires a transaction"))
	}

	if _, held := t.held[cardID]; !held {
		s.mu.Lock()
		lock, exists := s.locks[cardID]
		s.mu.Unlock()
		if !exists {
			return models.Card{}, models.ErrCardNotFound
		}

		select {
		case lock <- struct{}{}:
			t.held[cardID] = lock
		case <-ctx.Done():
			return models.Card{}, ctx.Err()
		}
	}
	return s.FindByID(ctx, cardID)
}

func (s *Store) update(ctx context.Context, cardID, expectedVersion int64, mutate func(*models.Card) error) (models.Card, error) {
	t, inTx := txFrom(ctx)
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	var (
		card   models.Card
		exists bool
	)
	if inTx {
		card, exists = s.current(ctx, cardID)
	} else {
		card, exists = s.cards[cardID]
	}
	if !exists {
		return models.Card{}, models.ErrCardNotFound
	}
	if card.Version != expectedVersion {
		return models.Card{}, models.ErrVersionConflict
	}

	if err := mutate(&card); err != nil {
		return models.Card{}, err
	}
	card.Version++

	if inTx {
		if _, staged := t.base[cardID]; !staged {
			t.base[cardID] = expectedVersion
		}
		t.cards[cardID] = card
	} else {
		s.cards[cardID] = card
	}
	return card, nil
}

// UpdateBalance sets the balance if the card is still at expectedVersion
func (s *Store) UpdateBalance(ctx context.Context, cardID, expectedVersion int64, balance decimal.Decimal) (models.Card, error) {
	return s.update(ctx, cardID, expectedVersion, func(card *models.Card) error {
		if balance.IsNegative() {
			return models.Internal(fmt.Errorf("balance of card %d would become negative", cardID))
		}
		card.Balance = balance
		return nil
	})
}

// UpdateStatus sets the status if the card is still at expectedVersion
func (s *Store) UpdateStatus(ctx context.Context, cardID, expectedVersion int64, status models.CardStatus) (models.Card, error) {
	return s.update(ctx, cardID, expectedVersion, func(card *models.Card) error {
		if !status.Valid() {
			return models.Internal(fmt.Errorf("unknown status %q", status))
		}
		card.Status = status
		return nil
	})
}

// ExpireActive marks active cards whose expiration date has passed as EXPIRED
func (s *Store) ExpireActive(ctx context.Context, today time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, card := range s.cards {
		if card.Status == models.CardStatusActive && card.ExpirationDate.Before(models.DateOf(today)) {
			card.Status = models.CardStatusExpired
			card.Version++
			s.cards[id] = card
			n++
		}
	}
	return n, nil
}

// Append records a new transfer with a fresh id
func (s *Store) Append(ctx context.Context, transfer models.Transfer) (models.Transfer, error) {
	if transfer.ID != 0 {
		return models.Transfer{}, models.Internal(fmt.Errorf("transfer %d is already recorded", transfer.ID))
	}

	s.mu.Lock()
	s.nextXfer++
	transfer.ID = s.nextXfer
	s.mu.Unlock()

	if t, ok := txFrom(ctx); ok {
		t.transfers = append(t.transfers, transfer)
		return transfer, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[transfer.ID] = transfer
	return transfer, nil
}

// FindTransfer retrieves a transfer by id
func (s *Store) FindTransfer(ctx context.Context, id int64) (models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		return models.Transfer{}, models.ErrTransferNotFound
	}
	return t, nil
}

// FindTransfersByOwner returns a page of the owner's transfers, newest first
func (s *Store) FindTransfersByOwner(ctx context.Context, ownerID int64, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	return s.findTransfers(func(t models.Transfer) bool { return t.OwnerID == ownerID }, filter, page), nil
}

// FindTransfers returns a page of all transfers matching the filter, newest first
func (s *Store) FindTransfers(ctx context.Context, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	return s.findTransfers(func(models.Transfer) bool { return true }, filter, page), nil
}

func (s *Store) findTransfers(keep func(models.Transfer) bool, filter models.TransferFilter, page models.Page) []models.Transfer {
	s.mu.Lock()
	var out []models.Transfer
	for _, t := range s.transfers {
		if !keep(t) {
			continue
		}
		if !filter.From.IsZero() && t.Date.Before(models.DateOf(filter.From)) {
			continue
		}
		if !filter.To.IsZero() && t.Date.After(models.DateOf(filter.To)) {
			continue
		}
		if filter.CardFromID != 0 && t.CardFromID != filter.CardFromID {
			continue
		}
		if filter.CardToID != 0 && t.CardToID != filter.CardToID {
			continue
		}
		out = append(out, t)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	start, end := page.Bounds(len(out))
	return out[start:end]
}

// Ledger exposes the store through the transfer ledger method names
func (s *Store) Ledger() *Ledger {
	return &Ledger{store: s}
}

// Ledger adapts Store to the transfer ledger port
type Ledger struct {
	store *Store
}

func (l *Ledger) Append(ctx context.Context, transfer models.Transfer) (models.Transfer, error) {
	return l.store.Append(ctx, transfer)
}

func (l *Ledger) FindByID(ctx context.Context, id int64) (models.Transfer, error) {
	return l.store.FindTransfer(ctx, id)
}

func (l *Ledger) FindByOwner(ctx context.Context, ownerID int64, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	return l.store.FindTransfersByOwner(ctx, ownerID, filter, page)
}

func (l *Ledger) FindAll(ctx context.Context, filter models.TransferFilter, page models.Page) ([]models.Transfer, error) {
	return l.store.FindTransfers(ctx, filter, page)
}

// AddUser registers a user and assigns its id
func (s *Store) AddUser(user models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUser++
	user.ID = s.nextUser
	s.users[user.ID] = user
	return user
}

// FindByEmail retrieves a user by email
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

// FindEmail returns the email address of a user
func (s *Store) FindEmail(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return "", models.ErrUserNotFound
	}
	return u.Email, nil
}

// TotalBalance sums the committed balances of all cards
func (s *Store) TotalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, card := range s.cards {
		total = total.Add(card.Balance)
	}
	return total
}
