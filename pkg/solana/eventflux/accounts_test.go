package eventflux

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflux-labs/eventflux-server/pkg/pointer"
)

func TestEventAccount_RoundTrip(t *testing.T) {
	expected := &EventAccount{
		Bump:               254,
		EventID:            42,
		Organizer:          randomKey(t),
		SettlementTreasury: randomKey(t),
		Name:               "Breakpoint After Party",
		Venue:              "Warehouse 21",
		StartTs:            1700000100,
		EndTs:              1700003600,
		YieldStrategy:      YieldStrategyKamino,
		Tiers: []TierConfig{
			{TierID: 0, Label: "general", PriceLamports: 1_000_000, MaxSupply: 100, Sold: 3},
			{TierID: 1, Label: "vip", PriceLamports: 5_000_000, MaxSupply: 10, Sold: 10},
		},
		AuthorizedVerifiers: []ed25519.PublicKey{randomKey(t), randomKey(t)},
		TotalPasses:         13,
		VaultState:          randomKey(t),
		Settled:             true,
	}

	data := expected.Marshal()
	assert.Equal(t, expected.Size(), len(data))

	var actual EventAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestEventAccount_FindTier(t *testing.T) {
	event := &EventAccount{
		Tiers: []TierConfig{
			{TierID: 0, Label: "general"},
			{TierID: 3, Label: "backstage"},
		},
	}

	tier := event.FindTier(3)
	require.NotNil(t, tier)
	assert.Equal(t, "backstage", tier.Label)

	// The returned tier aliases the account so handlers can mutate it in
	// place.
	tier.Sold++
	assert.EqualValues(t, 1, event.Tiers[1].Sold)

	assert.Nil(t, event.FindTier(1))
}

func TestEventAccount_InvalidData(t *testing.T) {
	var event EventAccount

	assert.Equal(t, ErrInvalidAccountData, event.Unmarshal(nil))
	assert.Equal(t, ErrInvalidAccountData, event.Unmarshal(make([]byte, eventAccountMinSize-1)))

	data := (&EventAccount{
		Organizer:          randomKey(t),
		SettlementTreasury: randomKey(t),
		Name:               "a",
		Venue:              "b",
		VaultState:         randomKey(t),
	}).Marshal()
	data[0] ^= 0xff
	assert.Equal(t, ErrInvalidAccountData, event.Unmarshal(data))
}

func TestEventAccount_MalformedLengths(t *testing.T) {
	valid := (&EventAccount{
		Organizer:          randomKey(t),
		SettlementTreasury: randomKey(t),
		Name:               "Breakpoint After Party",
		Venue:              "Warehouse 21",
		Tiers: []TierConfig{
			{TierID: 0, Label: "general", PriceLamports: 1, MaxSupply: 1},
		},
		AuthorizedVerifiers: []ed25519.PublicKey{randomKey(t)},
		VaultState:          randomKey(t),
	}).Marshal()

	// A name length pointing past the end of the account must be rejected,
	// not sliced.
	data := append([]byte{}, valid...)
	binary.LittleEndian.PutUint32(data[8+1+8+32+32:], 1<<30)
	assert.Equal(t, ErrInvalidAccountData, new(EventAccount).Unmarshal(data))

	// Truncating a valid account anywhere yields an error, never a panic.
	for cut := 1; cut < len(valid); cut++ {
		assert.Equal(t, ErrInvalidAccountData, new(EventAccount).Unmarshal(valid[:len(valid)-cut]), "cut=%d", cut)
	}
}

func TestEventPassAccount_RoundTrip(t *testing.T) {
	expected := &EventPassAccount{
		Bump:      251,
		Event:     randomKey(t),
		Owner:     randomKey(t),
		TierID:    2,
		PricePaid: 1_000_000,
		MintedAt:  1700000000,
	}

	data := expected.Marshal()
	require.Len(t, data, EventPassAccountSize)

	var actual EventPassAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)

	// Setting the optional fields must not change the marshalled size, since
	// the account is allocated once at mint time.
	expected.CheckedIn = true
	expected.CheckedInAt = pointer.Int64(1700000500)
	expected.LoyaltyMint = randomKey(t)

	data = expected.Marshal()
	require.Len(t, data, EventPassAccountSize)

	actual = EventPassAccount{}
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestEventPassAccount_InvalidData(t *testing.T) {
	var pass EventPassAccount

	assert.Equal(t, ErrInvalidAccountData, pass.Unmarshal(make([]byte, EventPassAccountSize-1)))

	data := (&EventPassAccount{
		Event: randomKey(t),
		Owner: randomKey(t),
	}).Marshal()
	data[0] ^= 0xff
	assert.Equal(t, ErrInvalidAccountData, pass.Unmarshal(data))
}

func TestVaultStateAccount_RoundTrip(t *testing.T) {
	expected := &VaultStateAccount{
		Bump:                253,
		Event:               randomKey(t),
		Strategy:            YieldStrategySanctum,
		TotalDeposited:      3_000_000,
		TotalWithdrawn:      2_500_000,
		TotalYieldHarvested: 120_000,
		VaultTreasuryBump:   252,
		LastHarvestTs:       1700000900,
	}

	data := expected.Marshal()
	require.Len(t, data, VaultStateAccountSize)

	var actual VaultStateAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}
