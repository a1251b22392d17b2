package tokenvault

// TokenVaultError is the set of custom error codes the program returns to
// callers. Each instruction validates every precondition before mutating any
// state, so one of these codes always describes the first violation hit.
type TokenVaultError uint32

const (
	// Signer does not match the required authority
	ErrUnauthorized TokenVaultError = iota + 0x1770

	// Vault or trigger account already exists
	ErrAlreadyInitialized

	// Trigger is set and trading is halted
	ErrTradingPaused

	// Buyer, seller or payer lacks funds
	ErrInsufficientBalance

	// Bonding curve escrow cannot cover the payout
	ErrInsufficientLiquidity

	// Supplied account does not match the expected derived address or owner
	ErrInvalidAccount
)
