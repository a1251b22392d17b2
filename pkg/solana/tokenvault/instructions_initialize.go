package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

type InitializeInstructionAccounts struct {
	Signer     ed25519.PublicKey
	VaultOwner ed25519.PublicKey
	Vault      ed25519.PublicKey
	Mint       ed25519.PublicKey
}

// NewInitializeInstruction binds a vault to a mint. The vault token account
// is created at its derived address with the vault owner authority as owner
// and a zero balance. Calling it a second time for the same mint fails.
func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, 1)
	putInstructionType(data, InstructionTypeInitialize, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Signer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.VaultOwner,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type DecompiledInitialize struct {
	Accounts *InitializeInstructionAccounts

	SignerIsSigner bool
}

func DecompileInitialize(instruction solana.Instruction) (*DecompiledInitialize, error) {
	if !instruction.Program.Equal(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Data) != 1 {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Accounts) != 7 {
		return nil, ErrInvalidInstructionData
	}

	return &DecompiledInitialize{
		Accounts: &InitializeInstructionAccounts{
			Signer:     instruction.Accounts[0].PublicKey,
			VaultOwner: instruction.Accounts[1].PublicKey,
			Vault:      instruction.Accounts[2].PublicKey,
			Mint:       instruction.Accounts[3].PublicKey,
		},
		SignerIsSigner: instruction.Accounts[0].IsSigner,
	}, nil
}
