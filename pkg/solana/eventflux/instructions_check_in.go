package eventflux

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var checkInInstructionDiscriminator = []byte{209, 253, 4, 217, 250, 241, 207, 50}

type CheckInInstructionAccounts struct {
	Verifier  ed25519.PublicKey
	Event     ed25519.PublicKey
	EventPass ed25519.PublicKey
}

func NewCheckInInstruction(
	accounts *CheckInInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(checkInInstructionDiscriminator))
	putDiscriminator(data, checkInInstructionDiscriminator, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Verifier,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Event,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.EventPass,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

func IsCheckInInstruction(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], checkInInstructionDiscriminator)
}
