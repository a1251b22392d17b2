package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

var (
	VaultOwnerPrefix   = []byte("token_account_owner_pda")
	VaultPrefix        = []byte("token_vault")
	BondingCurvePrefix = []byte("bonding_curve")
)

// GetVaultOwnerAddress derives the vault owner authority. The address is
// shared by every vault the program manages; it has no private key and only
// the program may authorize actions as it.
func GetVaultOwnerAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		VaultOwnerPrefix,
	)
}

type GetVaultAddressArgs struct {
	Mint ed25519.PublicKey
}

// GetVaultAddress derives the token account custodying the tradable supply
// for a mint.
func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		VaultPrefix,
		args.Mint,
	)
}

type GetBondingCurveAddressArgs struct {
	Mint ed25519.PublicKey
}

// GetBondingCurveAddress derives the escrow account accumulating lamports
// paid in by buyers for a mint's sale campaign.
func GetBondingCurveAddress(args *GetBondingCurveAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		BondingCurvePrefix,
		args.Mint,
	)
}
