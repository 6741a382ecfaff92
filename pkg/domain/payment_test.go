package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDebit(t *testing.T) {
	acctID := uuid.New()

	p, err := NewDebit(acctID, decimal.NewFromInt(10), "card", "lunch", 123456)
	require.NoError(t, err)
	assert.Equal(t, KindPayment, p.Kind)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Nil(t, p.ReceiverAccountID)
	assert.Equal(t, 123456, p.ReferenceNumber)

	_, err = NewDebit(acctID, decimal.Zero, "card", "", 123456)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewDebit(acctID, decimal.NewFromInt(-10), "card", "", 123456)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNewTransfer(t *testing.T) {
	src, recv := uuid.New(), uuid.New()

	p, err := NewTransfer(src, recv, decimal.NewFromInt(10), "online", "", 654321)
	require.NoError(t, err)
	assert.Equal(t, KindTransfer, p.Kind)
	require.NotNil(t, p.ReceiverAccountID)
	assert.Equal(t, recv, *p.ReceiverAccountID)

	_, err = NewTransfer(src, src, decimal.NewFromInt(10), "online", "", 654321)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	_, err = NewTransfer(src, recv, decimal.Zero, "online", "", 654321)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole(Role("root")))
}
