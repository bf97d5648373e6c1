package vault_stub

import "github.com/eventflux-labs/eventflux-server/pkg/solana"

type VaultStubError uint32

const (
	// Adapter bump missing
	ErrBumpMissing VaultStubError = iota + 0x1770

	// Provided amount must be greater than zero
	ErrInvalidAmount

	// Not enough funds in the adapter reserve
	ErrInsufficientReserve
)

func (e VaultStubError) ToCustomError() solana.CustomError {
	return solana.CustomError(e)
}
