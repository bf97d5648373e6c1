package vault_stub

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var harvestInstructionDiscriminator = []byte{228, 241, 31, 182, 53, 169, 59, 199}

const HarvestInstructionArgsSize = 8 // amount

type HarvestInstructionArgs struct {
	Amount uint64
}

type HarvestInstructionAccounts struct {
	Adapter     ed25519.PublicKey
	Destination ed25519.PublicKey
}

func NewHarvestInstruction(
	accounts *HarvestInstructionAccounts,
	args *HarvestInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte,
		len(harvestInstructionDiscriminator)+
			HarvestInstructionArgsSize)

	putDiscriminator(data, harvestInstructionDiscriminator, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Adapter,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Destination,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

func HarvestInstructionFromBinary(data []byte) (*HarvestInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(harvestInstructionDiscriminator)+HarvestInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, harvestInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args HarvestInstructionArgs
	getUint64(data, &args.Amount, &offset)

	return &args, nil
}
