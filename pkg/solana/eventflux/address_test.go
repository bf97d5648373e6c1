package eventflux

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

func randomKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}

func TestGetEventAddress(t *testing.T) {
	organizer := randomKey(t)

	address, bump, err := GetEventAddress(&GetEventAddressArgs{
		Organizer: organizer,
		EventID:   7,
	})
	require.NoError(t, err)

	// The returned bump re-derives the same address directly.
	eventIDBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(eventIDBytes, 7)

	direct, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		eventPrefix,
		organizer,
		eventIDBytes,
		[]byte{bump},
	)
	require.NoError(t, err)
	assert.Equal(t, address, direct)

	// Distinct event IDs map to distinct addresses for the same organizer.
	other, _, err := GetEventAddress(&GetEventAddressArgs{
		Organizer: organizer,
		EventID:   8,
	})
	require.NoError(t, err)
	assert.NotEqual(t, address, other)
}

func TestGetEventPassAddress(t *testing.T) {
	event := randomKey(t)
	attendee := randomKey(t)

	address, bump, err := GetEventPassAddress(&GetEventPassAddressArgs{
		Event:    event,
		Attendee: attendee,
		TierID:   1,
	})
	require.NoError(t, err)

	direct, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		eventPassPrefix,
		event,
		attendee,
		[]byte{1},
		[]byte{bump},
	)
	require.NoError(t, err)
	assert.Equal(t, address, direct)

	// The tier is part of the derivation, so each tier gets its own pass
	// account per attendee.
	other, _, err := GetEventPassAddress(&GetEventPassAddressArgs{
		Event:    event,
		Attendee: attendee,
		TierID:   2,
	})
	require.NoError(t, err)
	assert.NotEqual(t, address, other)
}

func TestGetVaultAddresses(t *testing.T) {
	event := randomKey(t)

	state, _, err := GetVaultStateAddress(&GetVaultStateAddressArgs{Event: event})
	require.NoError(t, err)
	treasury, _, err := GetVaultTreasuryAddress(&GetVaultTreasuryAddressArgs{Event: event})
	require.NoError(t, err)

	assert.NotEqual(t, state, treasury)

	otherEvent := randomKey(t)
	otherState, _, err := GetVaultStateAddress(&GetVaultStateAddressArgs{Event: otherEvent})
	require.NoError(t, err)
	assert.NotEqual(t, state, otherState)
}

func TestGetLoyaltyMintAddress(t *testing.T) {
	pass := randomKey(t)

	address, bump, err := GetLoyaltyMintAddress(&GetLoyaltyMintAddressArgs{EventPass: pass})
	require.NoError(t, err)

	direct, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		loyaltyMintPrefix,
		pass,
		[]byte{bump},
	)
	require.NoError(t, err)
	assert.Equal(t, address, direct)
}
