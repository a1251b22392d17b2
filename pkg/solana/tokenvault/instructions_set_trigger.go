package tokenvault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-server/pkg/solana"
)

const (
	SetTriggerInstructionArgsSize = 1 // is_triggered
)

type SetTriggerInstructionArgs struct {
	IsTriggered bool
}

type SetTriggerInstructionAccounts struct {
	Authority      ed25519.PublicKey
	TriggerAccount ed25519.PublicKey
}

// NewSetTriggerInstruction atomically flips the circuit breaker. Only the
// authority recorded at trigger account creation may submit it.
func NewSetTriggerInstruction(
	accounts *SetTriggerInstructionAccounts,
	args *SetTriggerInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+SetTriggerInstructionArgsSize)

	putInstructionType(data, InstructionTypeSetTrigger, &offset)
	putBool(data, args.IsTriggered, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.TriggerAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type DecompiledSetTrigger struct {
	Args     *SetTriggerInstructionArgs
	Accounts *SetTriggerInstructionAccounts

	AuthorityIsSigner bool
}

func DecompileSetTrigger(instruction solana.Instruction) (*DecompiledSetTrigger, error) {
	if !instruction.Program.Equal(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Data) != 1+SetTriggerInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Accounts) != 2 {
		return nil, ErrInvalidInstructionData
	}

	var args SetTriggerInstructionArgs
	offset := 1
	getBool(instruction.Data, &args.IsTriggered, &offset)

	return &DecompiledSetTrigger{
		Args: &args,
		Accounts: &SetTriggerInstructionAccounts{
			Authority:      instruction.Accounts[0].PublicKey,
			TriggerAccount: instruction.Accounts[1].PublicKey,
		},
		AuthorityIsSigner: instruction.Accounts[0].IsSigner,
	}, nil
}
