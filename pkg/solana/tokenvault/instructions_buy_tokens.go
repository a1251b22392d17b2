package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

const (
	BuyTokensInstructionArgsSize = 8 // amount
)

type BuyTokensInstructionArgs struct {
	Amount uint64
}

type BuyTokensInstructionAccounts struct {
	Buyer            ed25519.PublicKey
	BondingCurve     ed25519.PublicKey
	VaultOwner       ed25519.PublicKey
	Vault            ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	Mint             ed25519.PublicKey
	TriggerAccount   ed25519.PublicKey
}

// NewBuyTokensInstruction purchases tokens from the vault. The buyer pays
// the curve's cost in lamports into the escrow and receives the requested
// amount from the vault, released under the derived owner authority.
func NewBuyTokensInstruction(
	accounts *BuyTokensInstructionAccounts,
	args *BuyTokensInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+BuyTokensInstructionArgsSize)

	putInstructionType(data, InstructionTypeBuyTokens, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Buyer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.BondingCurve,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultOwner,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TriggerAccount,
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
		},
	}
}

type DecompiledBuyTokens struct {
	Args     *BuyTokensInstructionArgs
	Accounts *BuyTokensInstructionAccounts

	BuyerIsSigner bool
}

func DecompileBuyTokens(instruction solana.Instruction) (*DecompiledBuyTokens, error) {
	if !instruction.Program.Equal(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Data) != 1+BuyTokensInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Accounts) != 9 {
		return nil, ErrInvalidInstructionData
	}

	var args BuyTokensInstructionArgs
	offset := 1
	getUint64(instruction.Data, &args.Amount, &offset)

	return &DecompiledBuyTokens{
		Args: &args,
		Accounts: &BuyTokensInstructionAccounts{
			Buyer:            instruction.Accounts[0].PublicKey,
			BondingCurve:     instruction.Accounts[1].PublicKey,
			VaultOwner:       instruction.Accounts[2].PublicKey,
			Vault:            instruction.Accounts[3].PublicKey,
			UserTokenAccount: instruction.Accounts[4].PublicKey,
			Mint:             instruction.Accounts[5].PublicKey,
			TriggerAccount:   instruction.Accounts[6].PublicKey,
		},
		BuyerIsSigner: instruction.Accounts[0].IsSigner,
	}, nil
}
