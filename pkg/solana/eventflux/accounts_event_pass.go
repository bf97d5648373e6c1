package eventflux

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

// EventPassAccount is a single attendee's pass for one tier of an event.
type EventPassAccount struct {
	Bump uint8

	Event  ed25519.PublicKey
	Owner  ed25519.PublicKey
	TierID uint8

	PricePaid uint64
	MintedAt  int64

	CheckedIn   bool
	CheckedInAt *int64
	LoyaltyMint ed25519.PublicKey
}

const EventPassAccountSize = (8 + // discriminator
	1 + // bump
	32 + // event
	32 + // owner
	1 + // tier_id
	8 + // price_paid
	8 + // minted_at
	1 + // checked_in
	1 + // checked_in_at option flag
	8 + // checked_in_at
	1 + // loyalty_mint option flag
	32) // loyalty_mint

var eventPassAccountDiscriminator = []byte{222, 125, 12, 168, 253, 181, 184, 125}

func (obj *EventPassAccount) Marshal() []byte {
	// Allocated at the maximum size so the account length is stable across
	// option transitions.
	data := make([]byte, EventPassAccountSize)

	var offset int
	putDiscriminator(data, eventPassAccountDiscriminator, &offset)
	putUint8(data, obj.Bump, &offset)
	putKey(data, obj.Event, &offset)
	putKey(data, obj.Owner, &offset)
	putUint8(data, obj.TierID, &offset)
	putUint64(data, obj.PricePaid, &offset)
	putInt64(data, obj.MintedAt, &offset)
	putBool(data, obj.CheckedIn, &offset)
	putOptionalInt64(data, obj.CheckedInAt, &offset)
	putOptionalKey(data, obj.LoyaltyMint, &offset)

	return data
}

func (obj *EventPassAccount) Unmarshal(data []byte) error {
	if len(data) < EventPassAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, eventPassAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getUint8(data, &obj.Bump, &offset)
	getKey(data, &obj.Event, &offset)
	getKey(data, &obj.Owner, &offset)
	getUint8(data, &obj.TierID, &offset)
	getUint64(data, &obj.PricePaid, &offset)
	getInt64(data, &obj.MintedAt, &offset)
	getBool(data, &obj.CheckedIn, &offset)
	getOptionalInt64(data, &obj.CheckedInAt, &offset)
	getOptionalKey(data, &obj.LoyaltyMint, &offset)

	return nil
}

func (obj *EventPassAccount) String() string {
	var event, owner string
	if obj.Event != nil {
		event = base58.Encode(obj.Event)
	}
	if obj.Owner != nil {
		owner = base58.Encode(obj.Owner)
	}

	return fmt.Sprintf(
		"EventPass{event=%s, owner=%s, tier_id=%d, price_paid=%d, checked_in=%t}",
		event,
		owner,
		obj.TierID,
		obj.PricePaid,
		obj.CheckedIn,
	)
}
