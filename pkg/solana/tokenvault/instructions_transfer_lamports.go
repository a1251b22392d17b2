package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

const (
	TransferLamportsInstructionArgsSize = 8 // amount
)

type TransferLamportsInstructionArgs struct {
	Amount uint64
}

type TransferLamportsInstructionAccounts struct {
	From         ed25519.PublicKey
	BondingCurve ed25519.PublicKey
	Mint         ed25519.PublicKey
}

// NewTransferLamportsInstruction deposits lamports into the bonding curve
// escrow before trading opens. The destination must be the escrow derived
// for the mint, and exactly the declared amount moves.
func NewTransferLamportsInstruction(
	accounts *TransferLamportsInstructionAccounts,
	args *TransferLamportsInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+TransferLamportsInstructionArgsSize)

	putInstructionType(data, InstructionTypeTransferLamports, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.From,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.BondingCurve,
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
		},
	}
}

type DecompiledTransferLamports struct {
	Args     *TransferLamportsInstructionArgs
	Accounts *TransferLamportsInstructionAccounts

	FromIsSigner bool
}

func DecompileTransferLamports(instruction solana.Instruction) (*DecompiledTransferLamports, error) {
	if !instruction.Program.Equal(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Data) != 1+TransferLamportsInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Accounts) != 4 {
		return nil, ErrInvalidInstructionData
	}

	var args TransferLamportsInstructionArgs
	offset := 1
	getUint64(instruction.Data, &args.Amount, &offset)

	return &DecompiledTransferLamports{
		Args: &args,
		Accounts: &TransferLamportsInstructionAccounts{
			From:         instruction.Accounts[0].PublicKey,
			BondingCurve: instruction.Accounts[1].PublicKey,
			Mint:         instruction.Accounts[2].PublicKey,
		},
		FromIsSigner: instruction.Accounts[0].IsSigner,
	}, nil
}
