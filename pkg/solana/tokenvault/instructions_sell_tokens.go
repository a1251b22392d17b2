package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

const (
	SellTokensInstructionArgsSize = 8 // amount
)

type SellTokensInstructionArgs struct {
	Amount uint64
}

type SellTokensInstructionAccounts struct {
	Seller           ed25519.PublicKey
	BondingCurve     ed25519.PublicKey
	VaultOwner       ed25519.PublicKey
	Vault            ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	Mint             ed25519.PublicKey
	TriggerAccount   ed25519.PublicKey
}

// NewSellTokensInstruction sells tokens back to the vault. The seller signs
// the token debit; the lamport payout from the escrow is released under the
// derived owner authority. Payout and cost need not be inverses.
func NewSellTokensInstruction(
	accounts *SellTokensInstructionAccounts,
	args *SellTokensInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+SellTokensInstructionArgsSize)

	putInstructionType(data, InstructionTypeSellTokens, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Seller,
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

type DecompiledSellTokens struct {
	Args     *SellTokensInstructionArgs
	Accounts *SellTokensInstructionAccounts

	SellerIsSigner bool
}

func DecompileSellTokens(instruction solana.Instruction) (*DecompiledSellTokens, error) {
	if !instruction.Program.Equal(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Data) != 1+SellTokensInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Accounts) != 9 {
		return nil, ErrInvalidInstructionData
	}

	var args SellTokensInstructionArgs
	offset := 1
	getUint64(instruction.Data, &args.Amount, &offset)

	return &DecompiledSellTokens{
		Args: &args,
		Accounts: &SellTokensInstructionAccounts{
			Seller:           instruction.Accounts[0].PublicKey,
			BondingCurve:     instruction.Accounts[1].PublicKey,
			VaultOwner:       instruction.Accounts[2].PublicKey,
			Vault:            instruction.Accounts[3].PublicKey,
			UserTokenAccount: instruction.Accounts[4].PublicKey,
			Mint:             instruction.Accounts[5].PublicKey,
			TriggerAccount:   instruction.Accounts[6].PublicKey,
		},
		SellerIsSigner: instruction.Accounts[0].IsSigner,
	}, nil
}
