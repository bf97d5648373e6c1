package vault_stub

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var fundReserveInstructionDiscriminator = []byte{17, 82, 71, 222, 117, 210, 58, 12}

const FundReserveInstructionArgsSize = 8 // amount

type FundReserveInstructionArgs struct {
	Amount uint64
}

type FundReserveInstructionAccounts struct {
	Funder  ed25519.PublicKey
	Adapter ed25519.PublicKey
}

func NewFundReserveInstruction(
	accounts *FundReserveInstructionAccounts,
	args *FundReserveInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte,
		len(fundReserveInstructionDiscriminator)+
			FundReserveInstructionArgsSize)

	putDiscriminator(data, fundReserveInstructionDiscriminator, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Funder,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Adapter,
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

func FundReserveInstructionFromBinary(data []byte) (*FundReserveInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(fundReserveInstructionDiscriminator)+FundReserveInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, fundReserveInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args FundReserveInstructionArgs
	getUint64(data, &args.Amount, &offset)

	return &args, nil
}
