package vault

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when a required signer is missing, or when
	// the signer isn't the authority the target account was created with.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyInitialized is returned when an instruction attempts to
	// create an account at an address that already holds one.
	ErrAlreadyInitialized = errors.New("account already initialized")

	// ErrTradingPaused is returned by Buy and Sell while the trigger flag
	// is set.
	ErrTradingPaused = errors.New("trading is paused")

	// ErrInsufficientBalance is returned when the payer doesn't hold enough
	// lamports or tokens to cover an instruction.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientLiquidity is returned when the escrow can't cover the
	// lamport payout of a sell.
	ErrInsufficientLiquidity = errors.New("insufficient escrow liquidity")

	// ErrInvalidAccount is returned when a provided account doesn't match
	// the derived address, mint, or layout the instruction requires.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrAccountNotFound is returned when an instruction references an
	// account that was never created.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidInstructionData is returned when instruction data can't be
	// decompiled into a known instruction.
	ErrInvalidInstructionData = errors.New("invalid instruction data")
)
