package tokenvault

type InstructionType uint8

const (
	Unknown InstructionType = iota

	InstructionTypeInitialize
	InstructionTypeInitializeTriggerAccount
	InstructionTypeSetTrigger

	InstructionTypeTransferLamports
	InstructionTypeBuyTokens
	InstructionTypeSellTokens
)

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}

// GetInstructionType reads the instruction type discriminator from raw
// instruction data.
func GetInstructionType(data []byte) (InstructionType, error) {
	if len(data) == 0 {
		return Unknown, ErrInvalidInstructionData
	}
	return InstructionType(data[0]), nil
}
