package eventflux

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var issueLoyaltyNftInstructionDiscriminator = []byte{42, 66, 167, 148, 196, 33, 160, 203}

type IssueLoyaltyNftInstructionAccounts struct {
	Organizer           ed25519.PublicKey
	Event               ed25519.PublicKey
	EventPass           ed25519.PublicKey
	PassOwner           ed25519.PublicKey
	LoyaltyMint         ed25519.PublicKey
	LoyaltyTokenAccount ed25519.PublicKey
}

func NewIssueLoyaltyNftInstruction(
	accounts *IssueLoyaltyNftInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(issueLoyaltyNftInstructionDiscriminator))
	putDiscriminator(data, issueLoyaltyNftInstructionDiscriminator, &offset)

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
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.EventPass,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.PassOwner,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.LoyaltyMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.LoyaltyTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_ASSOCIATED_TOKEN_PROGRAM_ID,
				IsWritable: false,
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

func IsIssueLoyaltyNftInstruction(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], issueLoyaltyNftInstructionDiscriminator)
}
