package tokenvault

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-server/pkg/solana"
)

func TestGetVaultOwnerAddress(t *testing.T) {
	address, bump, err := GetVaultOwnerAddress()
	require.NoError(t, err)
	require.NotNil(t, address)

	// Same seeds, same address, every time
	for i := 0; i < 5; i++ {
		again, againBump, err := GetVaultOwnerAddress()
		require.NoError(t, err)
		assert.Equal(t, address, again)
		assert.Equal(t, bump, againBump)
	}

	// The derived authority must not be a valid user-generated key
	_, err = solana.CreateProgramAddress(PROGRAM_ID, VaultOwnerPrefix, []byte{bump})
	assert.NoError(t, err)
}

func TestGetVaultAddress(t *testing.T) {
	mint, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	address, bump, err := GetVaultAddress(&GetVaultAddressArgs{Mint: mint})
	require.NoError(t, err)

	again, againBump, err := GetVaultAddress(&GetVaultAddressArgs{Mint: mint})
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Equal(t, bump, againBump)

	// A different mint derives a different vault
	otherMint, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	other, _, err := GetVaultAddress(&GetVaultAddressArgs{Mint: otherMint})
	require.NoError(t, err)
	assert.NotEqual(t, address, other)
}

func TestGetBondingCurveAddress(t *testing.T) {
	mint, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	address, _, err := GetBondingCurveAddress(&GetBondingCurveAddressArgs{Mint: mint})
	require.NoError(t, err)

	vault, _, err := GetVaultAddress(&GetVaultAddressArgs{Mint: mint})
	require.NoError(t, err)

	// Escrow and vault never collide for the same mint
	assert.NotEqual(t, address, vault)
}
