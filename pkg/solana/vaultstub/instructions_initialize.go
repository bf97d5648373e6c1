package vault_stub

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var initializeInstructionDiscriminator = []byte{175, 175, 109, 31, 13, 152, 155, 237}

type InitializeInstructionAccounts struct {
	Adapter   ed25519.PublicKey
	Authority ed25519.PublicKey
}

func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(initializeInstructionDiscriminator))
	putDiscriminator(data, initializeInstructionDiscriminator, &offset)

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
				PublicKey:  accounts.Authority,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func IsInitializeInstruction(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], initializeInstructionDiscriminator)
}
