package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

// ProgramKey is the address of the SPL token program.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey(mustBase58Decode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

const optionSize = 4

// Account is the state of an SPL token account using the standard 165-byte
// layout. Vault and user token accounts are both plain token accounts; the
// only thing that distinguishes the vault is its owner being a program
// derived address.
type Account struct {
	// The mint associated with this account
	Mint ed25519.PublicKey
	// The owner of this account
	Owner ed25519.PublicKey
	// The amount of tokens this account holds
	Amount uint64
	// If set, the amount in DelegatedAmount is authorized by the delegate
	Delegate ed25519.PublicKey
	// The account's state
	State AccountState
	// If set, this is a native token account and the value logs the
	// rent-exempt reserve
	IsNative *uint64
	// The amount delegated
	DelegatedAmount uint64
	// Optional authority to close the account
	CloseAuthority ed25519.PublicKey
}

func (a *Account) Marshal() []byte {
	b := make([]byte, AccountSize)

	var offset int
	putKey(b, a.Mint, &offset)
	putKey(b, a.Owner, &offset)
	putUint64(b, a.Amount, &offset)
	putOptionalKey(b, a.Delegate, &offset)
	b[offset] = byte(a.State)
	offset++
	putOptionalUint64(b, a.IsNative, &offset)
	putUint64(b, a.DelegatedAmount, &offset)
	putOptionalKey(b, a.CloseAuthority, &offset)

	return b
}

func (a *Account) Unmarshal(b []byte) bool {
	if len(b) != AccountSize {
		return false
	}

	var offset int
	getKey(b, &a.Mint, &offset)
	getKey(b, &a.Owner, &offset)
	getUint64(b, &a.Amount, &offset)
	getOptionalKey(b, &a.Delegate, &offset)
	a.State = AccountState(b[offset])
	offset++
	getOptionalUint64(b, &a.IsNative, &offset)
	getUint64(b, &a.DelegatedAmount, &offset)
	getOptionalKey(b, &a.CloseAuthority, &offset)

	return true
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}

func getKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func putOptionalKey(dst []byte, v ed25519.PublicKey, offset *int) {
	if len(v) > 0 {
		binary.LittleEndian.PutUint32(dst[*offset:], 1)
		copy(dst[*offset+optionSize:], v)
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func getOptionalKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	if binary.LittleEndian.Uint32(src[*offset:]) != 0 {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[*offset+optionSize:])
	} else {
		*dst = nil
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func putOptionalUint64(dst []byte, v *uint64, offset *int) {
	if v != nil {
		binary.LittleEndian.PutUint32(dst[*offset:], 1)
		binary.LittleEndian.PutUint64(dst[*offset+optionSize:], *v)
	}
	*offset += optionSize + 8
}

func getOptionalUint64(src []byte, dst **uint64, offset *int) {
	if binary.LittleEndian.Uint32(src[*offset:]) != 0 {
		v := binary.LittleEndian.Uint64(src[*offset+optionSize:])
		*dst = &v
	} else {
		*dst = nil
	}
	*offset += optionSize + 8
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
