package vault_stub

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/bank"
)

func newTestBank(t *testing.T) *bank.Bank {
	b := bank.New(bank.NewManualClock(time.Unix(1700000000, 0)))
	b.Register(NewProcessor())
	return b
}

func submit(t *testing.T, b *bank.Bank, payer ed25519.PrivateKey, instructions ...solana.Instruction) *solana.TransactionError {
	txn := solana.NewTransaction(payer.Public().(ed25519.PublicKey), instructions...)

	var bh solana.Blockhash
	_, err := rand.Read(bh[:])
	require.NoError(t, err)
	txn.SetBlockhash(bh)

	require.NoError(t, txn.Sign(payer))

	return b.ProcessTransaction(txn)
}

func initializeReserve(t *testing.T, b *bank.Bank, authority ed25519.PrivateKey) ed25519.PublicKey {
	adapter, _, err := GetAdapterReserveAddress()
	require.NoError(t, err)

	txErr := submit(t, b, authority, NewInitializeInstruction(&InitializeInstructionAccounts{
		Adapter:   adapter,
		Authority: authority.Public().(ed25519.PublicKey),
	}))
	require.Nil(t, txErr)

	return adapter
}

func TestProcessor_Initialize(t *testing.T) {
	b := newTestBank(t)

	authorityPub, authority, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	b.Airdrop(authorityPub, 100_000_000)

	adapter := initializeReserve(t, b, authority)

	_, expectedBump, err := GetAdapterReserveAddress()
	require.NoError(t, err)

	account, ok := b.Account(adapter)
	require.True(t, ok)
	assert.EqualValues(t, PROGRAM_ID, account.Owner)
	assert.Equal(t, bank.MinimumBalance(AdapterReserveAccountSize), account.Lamports)

	var state AdapterReserveAccount
	require.NoError(t, state.Unmarshal(account.Data))
	assert.Equal(t, expectedBump, state.Bump)
}

func TestProcessor_Initialize_WrongAddress(t *testing.T) {
	b := newTestBank(t)

	authorityPub, authority, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	wrong, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	b.Airdrop(authorityPub, 100_000_000)

	txErr := submit(t, b, authority, NewInitializeInstruction(&InitializeInstructionAccounts{
		Adapter:   wrong,
		Authority: authorityPub,
	}))
	require.NotNil(t, txErr)
	require.NotNil(t, txErr.InstructionError())
	assert.Equal(t, solana.InstructionErrorInvalidSeeds, txErr.InstructionError().ErrorKey())
}

func TestProcessor_FundReserve(t *testing.T) {
	b := newTestBank(t)

	authorityPub, authority, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	b.Airdrop(authorityPub, 100_000_000)

	adapter := initializeReserve(t, b, authority)
	reserveFloor := b.Balance(adapter)

	txErr := submit(t, b, authority, NewFundReserveInstruction(
		&FundReserveInstructionAccounts{
			Funder:  authorityPub,
			Adapter: adapter,
		},
		&FundReserveInstructionArgs{Amount: 50_000},
	))
	require.Nil(t, txErr)
	assert.Equal(t, reserveFloor+50_000, b.Balance(adapter))
}

func TestProcessor_FundReserve_ZeroAmount(t *testing.T) {
	b := newTestBank(t)

	authorityPub, authority, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	b.Airdrop(authorityPub, 100_000_000)

	adapter := initializeReserve(t, b, authority)

	txErr := submit(t, b, authority, NewFundReserveInstruction(
		&FundReserveInstructionAccounts{
			Funder:  authorityPub,
			Adapter: adapter,
		},
		&FundReserveInstructionArgs{Amount: 0},
	))
	require.NotNil(t, txErr)
	require.NotNil(t, txErr.InstructionError())
	require.NotNil(t, txErr.InstructionError().CustomError())
	assert.Equal(t, ErrInvalidAmount.ToCustomError(), *txErr.InstructionError().CustomError())
}

func TestProcessor_Harvest(t *testing.T) {
	b := newTestBank(t)

	authorityPub, authority, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	destination, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	b.Airdrop(authorityPub, 100_000_000)

	adapter := initializeReserve(t, b, authority)

	require.Nil(t, submit(t, b, authority, NewFundReserveInstruction(
		&FundReserveInstructionAccounts{
			Funder:  authorityPub,
			Adapter: adapter,
		},
		&FundReserveInstructionArgs{Amount: 50_000},
	)))

	txErr := submit(t, b, authority, NewHarvestInstruction(
		&HarvestInstructionAccounts{
			Adapter:     adapter,
			Destination: destination,
		},
		&HarvestInstructionArgs{Amount: 20_000},
	))
	require.Nil(t, txErr)
	assert.EqualValues(t, 20_000, b.Balance(destination))
}

func TestProcessor_Harvest_InsufficientReserve(t *testing.T) {
	b := newTestBank(t)

	authorityPub, authority, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	destination, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	b.Airdrop(authorityPub, 100_000_000)

	adapter := initializeReserve(t, b, authority)
	reserve := b.Balance(adapter)

	txErr := submit(t, b, authority, NewHarvestInstruction(
		&HarvestInstructionAccounts{
			Adapter:     adapter,
			Destination: destination,
		},
		&HarvestInstructionArgs{Amount: reserve + 1},
	))
	require.NotNil(t, txErr)
	require.NotNil(t, txErr.InstructionError())
	require.NotNil(t, txErr.InstructionError().CustomError())
	assert.Equal(t, ErrInsufficientReserve.ToCustomError(), *txErr.InstructionError().CustomError())
	assert.EqualValues(t, 0, b.Balance(destination))
	assert.Equal(t, reserve, b.Balance(adapter))
}

func TestAdapterReserveAccount_RoundTrip(t *testing.T) {
	state := AdapterReserveAccount{Bump: 253}

	data := state.Marshal()
	require.Len(t, data, AdapterReserveAccountSize)

	var decoded AdapterReserveAccount
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, state, decoded)

	data[0]++
	assert.Equal(t, ErrInvalidAccountData, decoded.Unmarshal(data))
}
