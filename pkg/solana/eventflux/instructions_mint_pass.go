package eventflux

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var mintPassInstructionDiscriminator = []byte{142, 56, 26, 197, 227, 241, 84, 174}

const MintPassInstructionArgsSize = 1 // tier_id

type MintPassInstructionArgs struct {
	TierID uint8
}

type MintPassInstructionAccounts struct {
	Attendee      ed25519.PublicKey
	Event         ed25519.PublicKey
	VaultState    ed25519.PublicKey
	VaultTreasury ed25519.PublicKey
	EventPass     ed25519.PublicKey
}

func NewMintPassInstruction(
	accounts *MintPassInstructionAccounts,
	args *MintPassInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte,
		len(mintPassInstructionDiscriminator)+
			MintPassInstructionArgsSize)

	putDiscriminator(data, mintPassInstructionDiscriminator, &offset)
	putUint8(data, args.TierID, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Attendee,
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
				PublicKey:  accounts.EventPass,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func MintPassInstructionFromBinary(data []byte) (*MintPassInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(mintPassInstructionDiscriminator)+MintPassInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, mintPassInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args MintPassInstructionArgs
	getUint8(data, &args.TierID, &offset)

	return &args, nil
}
