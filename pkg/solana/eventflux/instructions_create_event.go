package eventflux

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var createEventInstructionDiscriminator = []byte{49, 219, 29, 203, 22, 98, 100, 87}

type CreateEventInstructionArgs struct {
	EventID             uint64
	Name                string
	Venue               string
	StartTs             int64
	EndTs               int64
	SettlementTreasury  ed25519.PublicKey
	YieldStrategy       YieldStrategy
	AuthorizedVerifiers []ed25519.PublicKey
	Tiers               []TierInput
}

func (args *CreateEventInstructionArgs) Size() int {
	size := 8 + // event_id
		4 + len(args.Name) + // name
		4 + len(args.Venue) + // venue
		8 + // start_ts
		8 + // end_ts
		32 + // settlement_treasury
		1 + // yield_strategy
		4 + len(args.AuthorizedVerifiers)*32 + // authorized_verifiers
		4 // tiers length

	for i := range args.Tiers {
		size += args.Tiers[i].Size()
	}

	return size
}

// Validate applies the same argument checks the program performs, so callers
// can reject bad configurations before paying for a transaction.
func (args *CreateEventInstructionArgs) Validate() error {
	if len(args.Name) == 0 || len(args.Venue) == 0 {
		return ErrInvalidMetadata.ToCustomError()
	}
	if len(args.Name) > MaxNameLength || len(args.Venue) > MaxVenueLength {
		return ErrMetadataTooLong.ToCustomError()
	}
	if args.StartTs >= args.EndTs {
		return ErrInvalidSchedule.ToCustomError()
	}
	if len(args.Tiers) == 0 {
		return ErrInvalidTierSet.ToCustomError()
	}
	if len(args.Tiers) > MaxTierCount {
		return ErrTooManyTiers.ToCustomError()
	}

	seen := make(map[uint8]struct{}, len(args.Tiers))
	for _, tier := range args.Tiers {
		if _, ok := seen[tier.TierID]; ok {
			return ErrInvalidMetadata.ToCustomError()
		}
		seen[tier.TierID] = struct{}{}
	}

	if len(args.AuthorizedVerifiers) > MaxVerifierCount {
		return ErrTooManyVerifiers.ToCustomError()
	}

	return nil
}

type CreateEventInstructionAccounts struct {
	Organizer     ed25519.PublicKey
	Event         ed25519.PublicKey
	VaultState    ed25519.PublicKey
	VaultTreasury ed25519.PublicKey
}

func NewCreateEventInstruction(
	accounts *CreateEventInstructionAccounts,
	args *CreateEventInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte,
		len(createEventInstructionDiscriminator)+
			args.Size())

	putDiscriminator(data, createEventInstructionDiscriminator, &offset)
	putUint64(data, args.EventID, &offset)
	putString(data, args.Name, &offset)
	putString(data, args.Venue, &offset)
	putInt64(data, args.StartTs, &offset)
	putInt64(data, args.EndTs, &offset)
	putKey(data, args.SettlementTreasury, &offset)
	putYieldStrategy(data, args.YieldStrategy, &offset)

	putUint32(data, uint32(len(args.AuthorizedVerifiers)), &offset)
	for i := range args.AuthorizedVerifiers {
		putKey(data, args.AuthorizedVerifiers[i], &offset)
	}

	putUint32(data, uint32(len(args.Tiers)), &offset)
	for i := range args.Tiers {
		putTierInput(data, args.Tiers[i], &offset)
	}

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Organizer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Event,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultTreasury,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func CreateEventInstructionFromBinary(data []byte) (*CreateEventInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(createEventInstructionDiscriminator)+8+4+4+8+8+32+1+4+4 {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, createEventInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	// The name and venue carry untrusted length prefixes, so every read past
	// them re-checks the remaining buffer.
	var args CreateEventInstructionArgs
	getUint64(data, &args.EventID, &offset)
	if !getString(data, &args.Name, &offset) {
		return nil, ErrInvalidInstructionData
	}
	if !getString(data, &args.Venue, &offset) {
		return nil, ErrInvalidInstructionData
	}

	if !canRead(data, offset, 8+8+32+1+4) {
		return nil, ErrInvalidInstructionData
	}
	getInt64(data, &args.StartTs, &offset)
	getInt64(data, &args.EndTs, &offset)
	getKey(data, &args.SettlementTreasury, &offset)
	getYieldStrategy(data, &args.YieldStrategy, &offset)

	var verifierCount uint32
	getUint32(data, &verifierCount, &offset)
	if verifierCount > MaxVerifierCount {
		return nil, ErrInvalidInstructionData
	}
	if !canRead(data, offset, int(verifierCount)*32+4) {
		return nil, ErrInvalidInstructionData
	}
	args.AuthorizedVerifiers = make([]ed25519.PublicKey, verifierCount)
	for i := range args.AuthorizedVerifiers {
		getKey(data, &args.AuthorizedVerifiers[i], &offset)
	}

	var tierCount uint32
	getUint32(data, &tierCount, &offset)
	if tierCount > MaxTierCount {
		return nil, ErrInvalidInstructionData
	}
	args.Tiers = make([]TierInput, tierCount)
	for i := range args.Tiers {
		if !getTierInput(data, &args.Tiers[i], &offset) {
			return nil, ErrInvalidInstructionData
		}
	}

	return &args, nil
}
