package eventflux

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

// VaultStateAccount is the per-event escrow ledger: cumulative deposits,
// withdrawals, and harvested yield, plus the bump of the lamport treasury
// the totals describe.
type VaultStateAccount struct {
	Bump uint8

	Event    ed25519.PublicKey
	Strategy YieldStrategy

	TotalDeposited      uint64
	TotalWithdrawn      uint64
	TotalYieldHarvested uint64

	VaultTreasuryBump uint8
	LastHarvestTs     int64
}

const VaultStateAccountSize = (8 + // discriminator
	1 + // bump
	32 + // event
	1 + // strategy
	8 + // total_deposited
	8 + // total_withdrawn
	8 + // total_yield_harvested
	1 + // vault_treasury_bump
	8) // last_harvest_ts

var vaultStateAccountDiscriminator = []byte{228, 196, 82, 165, 98, 210, 235, 152}

func (obj *VaultStateAccount) Marshal() []byte {
	data := make([]byte, VaultStateAccountSize)

	var offset int
	putDiscriminator(data, vaultStateAccountDiscriminator, &offset)
	putUint8(data, obj.Bump, &offset)
	putKey(data, obj.Event, &offset)
	putYieldStrategy(data, obj.Strategy, &offset)
	putUint64(data, obj.TotalDeposited, &offset)
	putUint64(data, obj.TotalWithdrawn, &offset)
	putUint64(data, obj.TotalYieldHarvested, &offset)
	putUint8(data, obj.VaultTreasuryBump, &offset)
	putInt64(data, obj.LastHarvestTs, &offset)

	return data
}

func (obj *VaultStateAccount) Unmarshal(data []byte) error {
	if len(data) < VaultStateAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, vaultStateAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getUint8(data, &obj.Bump, &offset)
	getKey(data, &obj.Event, &offset)
	getYieldStrategy(data, &obj.Strategy, &offset)
	getUint64(data, &obj.TotalDeposited, &offset)
	getUint64(data, &obj.TotalWithdrawn, &offset)
	getUint64(data, &obj.TotalYieldHarvested, &offset)
	getUint8(data, &obj.VaultTreasuryBump, &offset)
	getInt64(data, &obj.LastHarvestTs, &offset)

	return nil
}

func (obj *VaultStateAccount) String() string {
	var event string
	if obj.Event != nil {
		event = base58.Encode(obj.Event)
	}

	return fmt.Sprintf(
		"VaultState{event=%s, strategy=%d, deposited=%d, withdrawn=%d, yield=%d}",
		event,
		obj.Strategy,
		obj.TotalDeposited,
		obj.TotalWithdrawn,
		obj.TotalYieldHarvested,
	)
}
