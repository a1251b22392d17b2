package tokenvault

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

type AccountType uint8

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeTrigger
)

const (
	TriggerAccountSize = (8 + //discriminator
		1 + // is_triggered
		32) // authority
)

var TriggerAccountDiscriminator = []byte{byte(AccountTypeTrigger), 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// TriggerAccount is the program's circuit breaker. When IsTriggered is set,
// Buy and Sell refuse to execute. Only Authority may flip the flag.
type TriggerAccount struct {
	IsTriggered bool
	Authority   ed25519.PublicKey
}

func (obj *TriggerAccount) Marshal() []byte {
	data := make([]byte, TriggerAccountSize)

	var offset int
	putDiscriminator(data, TriggerAccountDiscriminator, &offset)
	putBool(data, obj.IsTriggered, &offset)
	putKey(data, obj.Authority, &offset)

	return data
}

func (obj *TriggerAccount) Unmarshal(data []byte) error {
	if len(data) < TriggerAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, TriggerAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getBool(data, &obj.IsTriggered, &offset)
	getKey(data, &obj.Authority, &offset)

	return nil
}

func (obj *TriggerAccount) String() string {
	return fmt.Sprintf(
		"Trigger{is_triggered=%v,authority=%s}",
		obj.IsTriggered,
		base58.Encode(obj.Authority),
	)
}
