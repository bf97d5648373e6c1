package vault_stub

import (
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

var adapterReservePrefix = []byte("adapter-reserve")

func GetAdapterReserveAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		adapterReservePrefix,
	)
}
