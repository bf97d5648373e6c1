package eventflux

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var (
	eventPrefix         = []byte("event")
	eventPassPrefix     = []byte("event-pass")
	vaultStatePrefix    = []byte("vault-state")
	vaultTreasuryPrefix = []byte("vault-treasury")
	loyaltyMintPrefix   = []byte("loyalty-mint")
)

type GetEventAddressArgs struct {
	Organizer ed25519.PublicKey
	EventID   uint64
}

func GetEventAddress(args *GetEventAddressArgs) (ed25519.PublicKey, uint8, error) {
	eventIDBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(eventIDBytes, args.EventID)

	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		eventPrefix,
		args.Organizer,
		eventIDBytes,
	)
}

type GetEventPassAddressArgs struct {
	Event    ed25519.PublicKey
	Attendee ed25519.PublicKey
	TierID   uint8
}

func GetEventPassAddress(args *GetEventPassAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		eventPassPrefix,
		args.Event,
		args.Attendee,
		[]byte{args.TierID},
	)
}

type GetVaultStateAddressArgs struct {
	Event ed25519.PublicKey
}

func GetVaultStateAddress(args *GetVaultStateAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		vaultStatePrefix,
		args.Event,
	)
}

type GetVaultTreasuryAddressArgs struct {
	Event ed25519.PublicKey
}

func GetVaultTreasuryAddress(args *GetVaultTreasuryAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		vaultTreasuryPrefix,
		args.Event,
	)
}

type GetLoyaltyMintAddressArgs struct {
	EventPass ed25519.PublicKey
}

func GetLoyaltyMintAddress(args *GetLoyaltyMintAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		loyaltyMintPrefix,
		args.EventPass,
	)
}
