package eventflux

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

// EventAccount is the on-chain record of a single event: its schedule,
// tier catalog, verifier allowlist, and settlement configuration.
type EventAccount struct {
	Bump uint8

	EventID             uint64
	Organizer           ed25519.PublicKey
	SettlementTreasury  ed25519.PublicKey
	Name                string
	Venue               string
	StartTs             int64
	EndTs               int64
	YieldStrategy       YieldStrategy
	Tiers               []TierConfig
	AuthorizedVerifiers []ed25519.PublicKey

	TotalPasses uint64
	VaultState  ed25519.PublicKey
	Settled     bool
}

var eventAccountDiscriminator = []byte{125, 192, 125, 158, 9, 115, 152, 233}

// Fixed portion of an event account, excluding the variable length name,
// venue, tier, and verifier data.
const eventAccountMinSize = (8 + // discriminator
	1 + // bump
	8 + // event_id
	32 + // organizer
	32 + // settlement_treasury
	4 + // name length
	4 + // venue length
	8 + // start_ts
	8 + // end_ts
	1 + // yield_strategy
	4 + // tiers length
	4 + // authorized_verifiers length
	8 + // total_passes
	32 + // vault_state
	1) // settled

func (obj *EventAccount) Size() int {
	size := 8 + // discriminator
		1 + // bump
		8 + // event_id
		32 + // organizer
		32 + // settlement_treasury
		4 + len(obj.Name) + // name
		4 + len(obj.Venue) + // venue
		8 + // start_ts
		8 + // end_ts
		1 + // yield_strategy
		4 + // tiers length
		4 + // authorized_verifiers length
		len(obj.AuthorizedVerifiers)*32 +
		8 + // total_passes
		32 + // vault_state
		1 // settled

	for i := range obj.Tiers {
		size += obj.Tiers[i].Size()
	}

	return size
}

func (obj *EventAccount) Marshal() []byte {
	data := make([]byte, obj.Size())

	var offset int
	putDiscriminator(data, eventAccountDiscriminator, &offset)
	putUint8(data, obj.Bump, &offset)
	putUint64(data, obj.EventID, &offset)
	putKey(data, obj.Organizer, &offset)
	putKey(data, obj.SettlementTreasury, &offset)
	putString(data, obj.Name, &offset)
	putString(data, obj.Venue, &offset)
	putInt64(data, obj.StartTs, &offset)
	putInt64(data, obj.EndTs, &offset)
	putYieldStrategy(data, obj.YieldStrategy, &offset)

	putUint32(data, uint32(len(obj.Tiers)), &offset)
	for i := range obj.Tiers {
		putTierConfig(data, obj.Tiers[i], &offset)
	}

	putUint32(data, uint32(len(obj.AuthorizedVerifiers)), &offset)
	for i := range obj.AuthorizedVerifiers {
		putKey(data, obj.AuthorizedVerifiers[i], &offset)
	}

	putUint64(data, obj.TotalPasses, &offset)
	putKey(data, obj.VaultState, &offset)
	putBool(data, obj.Settled, &offset)

	return data
}

func (obj *EventAccount) Unmarshal(data []byte) error {
	if len(data) < eventAccountMinSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, eventAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	// The name, venue, and tier labels carry length prefixes the account data
	// itself controls, so reads past them re-check the remaining buffer.
	getUint8(data, &obj.Bump, &offset)
	getUint64(data, &obj.EventID, &offset)
	getKey(data, &obj.Organizer, &offset)
	getKey(data, &obj.SettlementTreasury, &offset)
	if !getString(data, &obj.Name, &offset) {
		return ErrInvalidAccountData
	}
	if !getString(data, &obj.Venue, &offset) {
		return ErrInvalidAccountData
	}

	if !canRead(data, offset, 8+8+1+4) {
		return ErrInvalidAccountData
	}
	getInt64(data, &obj.StartTs, &offset)
	getInt64(data, &obj.EndTs, &offset)
	getYieldStrategy(data, &obj.YieldStrategy, &offset)

	var tierCount uint32
	getUint32(data, &tierCount, &offset)
	if tierCount > MaxTierCount {
		return ErrInvalidAccountData
	}
	obj.Tiers = make([]TierConfig, tierCount)
	for i := range obj.Tiers {
		if !getTierConfig(data, &obj.Tiers[i], &offset) {
			return ErrInvalidAccountData
		}
	}

	var verifierCount uint32
	if !canRead(data, offset, 4) {
		return ErrInvalidAccountData
	}
	getUint32(data, &verifierCount, &offset)
	if verifierCount > MaxVerifierCount {
		return ErrInvalidAccountData
	}
	if !canRead(data, offset, int(verifierCount)*32+8+32+1) {
		return ErrInvalidAccountData
	}
	obj.AuthorizedVerifiers = make([]ed25519.PublicKey, verifierCount)
	for i := range obj.AuthorizedVerifiers {
		getKey(data, &obj.AuthorizedVerifiers[i], &offset)
	}

	getUint64(data, &obj.TotalPasses, &offset)
	getKey(data, &obj.VaultState, &offset)
	getBool(data, &obj.Settled, &offset)

	return nil
}

// FindTier returns the tier with the provided id, if one is configured.
func (obj *EventAccount) FindTier(tierID uint8) *TierConfig {
	for i := range obj.Tiers {
		if obj.Tiers[i].TierID == tierID {
			return &obj.Tiers[i]
		}
	}

	return nil
}

func (obj *EventAccount) String() string {
	var organizer, vaultState string
	if obj.Organizer != nil {
		organizer = base58.Encode(obj.Organizer)
	}
	if obj.VaultState != nil {
		vaultState = base58.Encode(obj.VaultState)
	}

	return fmt.Sprintf(
		"Event{event_id=%d, organizer=%s, name='%s', venue='%s', tiers=%d, total_passes=%d, vault_state=%s, settled=%t}",
		obj.EventID,
		organizer,
		obj.Name,
		obj.Venue,
		len(obj.Tiers),
		obj.TotalPasses,
		vaultState,
		obj.Settled,
	)
}
