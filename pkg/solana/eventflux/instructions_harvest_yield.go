package eventflux

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var harvestYieldInstructionDiscriminator = []byte{28, 200, 150, 200, 69, 56, 38, 133}

const HarvestYieldInstructionArgsSize = 8 // amount

type HarvestYieldInstructionArgs struct {
	Amount uint64
}

type HarvestYieldInstructionAccounts struct {
	Organizer      ed25519.PublicKey
	Event          ed25519.PublicKey
	VaultState     ed25519.PublicKey
	VaultTreasury  ed25519.PublicKey
	AdapterReserve ed25519.PublicKey
}

func NewHarvestYieldInstruction(
	accounts *HarvestYieldInstructionAccounts,
	args *HarvestYieldInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte,
		len(harvestYieldInstructionDiscriminator)+
			HarvestYieldInstructionArgsSize)

	putDiscriminator(data, harvestYieldInstructionDiscriminator, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Organizer,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Event,
				IsWritable: false,
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
				PublicKey:  accounts.AdapterReserve,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  VAULT_ADAPTER_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func HarvestYieldInstructionFromBinary(data []byte) (*HarvestYieldInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(harvestYieldInstructionDiscriminator)+HarvestYieldInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, harvestYieldInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args HarvestYieldInstructionArgs
	getUint64(data, &args.Amount, &offset)

	return &args, nil
}
