package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"givepact/pkg/domain"
)

const (
	tokenX  = domain.Address("token-x")
	donorA  = domain.Address("donor-a")
	charity = domain.Address("charity-1")
)

func TestBankTransferMovesBalance(t *testing.T) {
	bank := NewBank()
	bank.Deposit(tokenX, donorA, 500)

	err := bank.TransferFrom(context.Background(), tokenX, donorA, charity, 120)
	require.NoError(t, err)

	assert.Equal(t, uint64(380), bank.Balance(tokenX, donorA))
	assert.Equal(t, uint64(120), bank.Balance(tokenX, charity))
}

func TestBankInsufficientBalance(t *testing.T) {
	bank := NewBank()
	bank.Deposit(tokenX, donorA, 50)

	err := bank.TransferFrom(context.Background(), tokenX, donorA, charity, 120)
	require.ErrorIs(t, err, ErrTransferRejected)

	assert.Equal(t, uint64(50), bank.Balance(tokenX, donorA))
	assert.Zero(t, bank.Balance(tokenX, charity))
}

func TestBankFailNext(t *testing.T) {
	bank := NewBank()
	bank.Deposit(tokenX, donorA, 500)
	bank.FailNext()

	err := bank.TransferFrom(context.Background(), tokenX, donorA, charity, 10)
	require.ErrorIs(t, err, ErrTransferRejected)

	// Injection clears itself; the next transfer goes through.
	require.NoError(t, bank.TransferFrom(context.Background(), tokenX, donorA, charity, 10))
	assert.Equal(t, uint64(10), bank.Balance(tokenX, charity))
}
