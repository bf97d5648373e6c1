package vault_stub

import (
	"bytes"
	"fmt"
)

// AdapterReserveAccount marks the reserve PDA that backs harvest calls. The
// lamport balance of the account is the reserve itself.
type AdapterReserveAccount struct {
	Bump uint8
}

const AdapterReserveAccountSize = (8 + // discriminator
	1) // bump

var adapterReserveAccountDiscriminator = []byte{183, 48, 86, 140, 114, 107, 51, 116}

func (obj *AdapterReserveAccount) Marshal() []byte {
	data := make([]byte, AdapterReserveAccountSize)

	var offset int
	putDiscriminator(data, adapterReserveAccountDiscriminator, &offset)
	putUint8(data, obj.Bump, &offset)

	return data
}

func (obj *AdapterReserveAccount) Unmarshal(data []byte) error {
	if len(data) < AdapterReserveAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, adapterReserveAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getUint8(data, &obj.Bump, &offset)

	return nil
}

func (obj *AdapterReserveAccount) String() string {
	return fmt.Sprintf("AdapterReserve{bump=%d}", obj.Bump)
}
