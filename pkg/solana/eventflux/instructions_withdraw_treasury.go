package eventflux

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var withdrawTreasuryInstructionDiscriminator = []byte{40, 63, 122, 158, 144, 216, 83, 96}

type WithdrawTreasuryInstructionAccounts struct {
	Organizer     ed25519.PublicKey
	Event         ed25519.PublicKey
	VaultState    ed25519.PublicKey
	Destination   ed25519.PublicKey
	VaultTreasury ed25519.PublicKey
}

func NewWithdrawTreasuryInstruction(
	accounts *WithdrawTreasuryInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(withdrawTreasuryInstructionDiscriminator))
	putDiscriminator(data, withdrawTreasuryInstructionDiscriminator, &offset)

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
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Destination,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultTreasury,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

func IsWithdrawTreasuryInstruction(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], withdrawTreasuryInstructionDiscriminator)
}
