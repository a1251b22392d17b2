package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

type InitializeTriggerAccountInstructionAccounts struct {
	TriggerAccount ed25519.PublicKey
	Authority      ed25519.PublicKey
}

// NewInitializeTriggerAccountInstruction creates a trigger record with the
// flag cleared and the paying authority recorded as the only key allowed to
// flip it. One trigger account may gate one or more trading pairs.
func NewInitializeTriggerAccountInstruction(
	accounts *InitializeTriggerAccountInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, 1)
	putInstructionType(data, InstructionTypeInitializeTriggerAccount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.TriggerAccount,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type DecompiledInitializeTriggerAccount struct {
	Accounts *InitializeTriggerAccountInstructionAccounts

	TriggerAccountIsSigner bool
	AuthorityIsSigner      bool
}

func DecompileInitializeTriggerAccount(instruction solana.Instruction) (*DecompiledInitializeTriggerAccount, error) {
	if !instruction.Program.Equal(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Data) != 1 {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Accounts) != 3 {
		return nil, ErrInvalidInstructionData
	}

	return &DecompiledInitializeTriggerAccount{
		Accounts: &InitializeTriggerAccountInstructionAccounts{
			TriggerAccount: instruction.Accounts[0].PublicKey,
			Authority:      instruction.Accounts[1].PublicKey,
		},
		TriggerAccountIsSigner: instruction.Accounts[0].IsSigner,
		AuthorityIsSigner:      instruction.Accounts[1].IsSigner,
	}, nil
}
