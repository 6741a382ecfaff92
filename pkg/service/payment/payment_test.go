package payment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gobank/core/internal/fixtures"
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/domain/events"
	"github.com/gobank/core/pkg/eventbus"
	"github.com/gobank/core/pkg/ledger"
	"github.com/gobank/core/pkg/pagination"
	"github.com/gobank/core/pkg/service/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newService(store *fixtures.MemoryStore) (*payment.Service, *eventbus.MemoryBus) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coordinator := ledger.New(store, config.LedgerConfig{MaxRetries: 3, MaxReferenceAttempts: 5}, logger)
	bus := eventbus.NewMemoryBus(logger)
	return payment.New(store, coordinator, bus, logger), bus
}

func TestDebit_ResolvesCallerAccount(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, bus := newService(store)
	userID := uuid.New()
	acctID := uuid.New()
	store.SeedAccount(acctID, userID, dec(500))

	rec, err := svc.Debit(context.Background(), userID, dec(120), "card", "groceries")
	require.NoError(t, err)
	assert.Equal(t, acctID, rec.AccountID)
	assert.True(t, store.Balance(acctID).Equal(dec(380)))

	published := bus.Published()
	require.Len(t, published, 1)
	evt, ok := published[0].(events.PaymentCompleted)
	require.True(t, ok)
	assert.Equal(t, rec.ID, evt.PaymentID)
	assert.Equal(t, userID, evt.UserID)
	assert.Nil(t, evt.ReceiverAccountID)
}

// failingBus rejects every Emit, standing in for a bus backend that is down.
type failingBus struct{}

func (failingBus) Register(string, eventbus.HandlerFunc) {}
func (failingBus) Emit(context.Context, eventbus.Event) error {
	return errors.New("bus unavailable")
}

func TestDebit_EmitFailureDoesNotFailPayment(t *testing.T) {
	store := fixtures.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coordinator := ledger.New(store, config.LedgerConfig{MaxRetries: 3, MaxReferenceAttempts: 5}, logger)
	svc := payment.New(store, coordinator, failingBus{}, logger)
	userID, acctID := uuid.New(), uuid.New()
	store.SeedAccount(acctID, userID, dec(500))

	rec, err := svc.Debit(context.Background(), userID, dec(100), "card", "")
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.True(t, store.Balance(acctID).Equal(dec(400)))
}

func TestDebit_NoAccountForUser(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, bus := newService(store)

	_, err := svc.Debit(context.Background(), uuid.New(), dec(10), "card", "")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Empty(t, bus.Published())
}

func TestDebit_InvalidAmountRejectedBeforeLookup(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, _ := newService(store)

	_, err := svc.Debit(context.Background(), uuid.New(), dec(0), "card", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestTransfer_BySenderAndReceiverNumber(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, bus := newService(store)
	senderUser, receiverUser := uuid.New(), uuid.New()
	senderAcct, receiverAcct := uuid.New(), uuid.New()
	store.SeedAccount(senderAcct, senderUser, dec(300))
	receiverNumber := store.SeedAccount(receiverAcct, receiverUser, dec(50))

	rec, err := svc.Transfer(context.Background(), senderUser, receiverNumber, dec(200), "online", "rent")
	require.NoError(t, err)
	assert.True(t, store.Balance(senderAcct).Equal(dec(100)))
	assert.True(t, store.Balance(receiverAcct).Equal(dec(250)))

	published := bus.Published()
	require.Len(t, published, 1)
	evt := published[0].(events.PaymentCompleted)
	require.NotNil(t, evt.ReceiverAccountID)
	assert.Equal(t, receiverAcct, *evt.ReceiverAccountID)
	assert.Equal(t, rec.ReferenceNumber, evt.ReferenceNumber)
}

func TestTransfer_ToOwnNumberRejected(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, bus := newService(store)
	userID, acctID := uuid.New(), uuid.New()
	number := store.SeedAccount(acctID, userID, dec(300))

	_, err := svc.Transfer(context.Background(), userID, number, dec(10), "online", "")
	assert.ErrorIs(t, err, domain.ErrSelfTransfer)
	assert.True(t, store.Balance(acctID).Equal(dec(300)))
	assert.Empty(t, bus.Published())
}

func TestTransfer_FailureEmitsNothing(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, bus := newService(store)
	senderUser := uuid.New()
	senderAcct := uuid.New()
	store.SeedAccount(senderAcct, senderUser, dec(50))
	receiverNumber := store.SeedAccount(uuid.New(), uuid.New(), dec(0))

	_, err := svc.Transfer(context.Background(), senderUser, receiverNumber, dec(200), "online", "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Empty(t, bus.Published())
}

func TestHistory_OnlyCallersDebits(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, _ := newService(store)
	userA, userB := uuid.New(), uuid.New()
	acctA, acctB := uuid.New(), uuid.New()
	store.SeedAccount(acctA, userA, dec(500))
	numberB := store.SeedAccount(acctB, userB, dec(500))

	ctx := context.Background()
	_, err := svc.Debit(ctx, userA, dec(10), "card", "a1")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, userB, dec(20), "card", "b1")
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, userA, numberB, dec(30), "online", "t1")
	require.NoError(t, err)

	page, err := svc.History(ctx, userA, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, acctA, page.Items[0].AccountID)
	assert.Equal(t, "a1", page.Items[0].Description)

	transfers, err := svc.Transfers(ctx, userA, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, transfers.Items, 1)
	assert.Equal(t, numberB, transfers.Items[0].ReceiverNumber)
}

func TestGet_OwnershipEnforced(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, _ := newService(store)
	owner, stranger := uuid.New(), uuid.New()
	store.SeedAccount(uuid.New(), owner, dec(500))
	store.SeedAccount(uuid.New(), stranger, dec(500))

	ctx := context.Background()
	rec, err := svc.Debit(ctx, owner, dec(10), "card", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, rec.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Get(ctx, stranger, rec.ID, true)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	got, err = svc.Get(ctx, owner, rec.ID, false)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestAllPayments_SpansAccounts(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc, _ := newService(store)
	userA, userB := uuid.New(), uuid.New()
	store.SeedAccount(uuid.New(), userA, dec(500))
	numberB := store.SeedAccount(uuid.New(), userB, dec(500))

	ctx := context.Background()
	_, err := svc.Debit(ctx, userA, dec(10), "card", "")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, userB, dec(20), "card", "")
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, userA, numberB, dec(30), "online", "")
	require.NoError(t, err)

	payments, err := svc.AllPayments(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, payments.Items, 2)
	assert.EqualValues(t, 2, payments.Total)

	transfers, err := svc.AllTransfers(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, transfers.Items, 1)
	assert.EqualValues(t, 1, transfers.Total)
}
