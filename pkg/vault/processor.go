// Package vault implements the token vault program as a deterministic state
// machine over an account store. Execute applies one instruction atomically:
// every precondition is validated before any mutation, and the full write set
// is persisted in a single batch, so a failed instruction leaves no partial
// state behind.
package vault

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/vault-server/pkg/data/account"
	"github.com/code-payments/vault-server/pkg/solana"
	"github.com/code-payments/vault-server/pkg/solana/token"
	"github.com/code-payments/vault-server/pkg/solana/tokenvault"
	"github.com/code-payments/vault-server/pkg/vault/curve"
)

type Processor struct {
	log *logrus.Entry

	mu sync.Mutex

	accounts account.Store
	pricing  curve.Curve
}

// NewProcessor returns a processor that executes token vault instructions
// against the provided account store, pricing trades with the provided curve.
func NewProcessor(accounts account.Store, pricing curve.Curve) *Processor {
	return &Processor{
		log:      logrus.StandardLogger().WithField("type", "vault/processor"),
		accounts: accounts,
		pricing:  pricing,
	}
}

// Execute validates and applies a single instruction. Instructions are
// serialized, mirroring the per-account write locks of the chain runtime: an
// instruction observes no other instruction mid-flight.
func (p *Processor) Execute(ctx context.Context, instruction solana.Instruction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	instructionType, err := tokenvault.GetInstructionType(instruction.Data)
	if err != nil {
		return ErrInvalidInstructionData
	}

	switch instructionType {
	case tokenvault.InstructionTypeInitialize:
		return p.executeInitialize(ctx, instruction)
	case tokenvault.InstructionTypeInitializeTriggerAccount:
		return p.executeInitializeTriggerAccount(ctx, instruction)
	case tokenvault.InstructionTypeSetTrigger:
		return p.executeSetTrigger(ctx, instruction)
	case tokenvault.InstructionTypeTransferLamports:
		return p.executeTransferLamports(ctx, instruction)
	case tokenvault.InstructionTypeBuyTokens:
		return p.executeBuyTokens(ctx, instruction)
	case tokenvault.InstructionTypeSellTokens:
		return p.executeSellTokens(ctx, instruction)
	default:
		return ErrInvalidInstructionData
	}
}

func (p *Processor) executeInitialize(ctx context.Context, instruction solana.Instruction) error {
	log := p.log.WithField("method", "executeInitialize")

	decompiled, err := tokenvault.DecompileInitialize(instruction)
	if err != nil {
		return ErrInvalidInstructionData
	}

	if !decompiled.SignerIsSigner {
		return ErrUnauthorized
	}

	vaultOwnerAddress, _, err := tokenvault.GetVaultOwnerAddress()
	if err != nil {
		return errors.Wrap(err, "error deriving vault owner address")
	}
	vaultAddress, _, err := tokenvault.GetVaultAddress(&tokenvault.GetVaultAddressArgs{
		Mint: decompiled.Accounts.Mint,
	})
	if err != nil {
		return errors.Wrap(err, "error deriving vault address")
	}

	if !bytes.Equal(decompiled.Accounts.VaultOwner, vaultOwnerAddress) {
		return ErrInvalidAccount
	}
	if !bytes.Equal(decompiled.Accounts.Vault, vaultAddress) {
		return ErrInvalidAccount
	}

	log = log.WithFields(logrus.Fields{
		"mint":  base58.Encode(decompiled.Accounts.Mint),
		"vault": base58.Encode(vaultAddress),
	})

	_, err = p.accounts.GetByAddress(ctx, base58.Encode(vaultAddress))
	if err == nil {
		return ErrAlreadyInitialized
	} else if err != account.ErrNotFound {
		log.WithError(err).Warn("failure checking vault account")
		return errors.Wrap(err, "error getting vault account")
	}

	writes := make([]*account.Record, 0, 2)

	// The derived owner authority account is shared by every vault, so it's
	// only created the first time.
	_, err = p.accounts.GetByAddress(ctx, base58.Encode(vaultOwnerAddress))
	if err == account.ErrNotFound {
		writes = append(writes, &account.Record{
			Address: base58.Encode(vaultOwnerAddress),
			Owner:   base58.Encode(tokenvault.PROGRAM_ID),
		})
	} else if err != nil {
		return errors.Wrap(err, "error getting vault owner account")
	}

	vaultState := token.Account{
		Mint:  decompiled.Accounts.Mint,
		Owner: vaultOwnerAddress,
		State: token.AccountStateInitialized,
	}
	writes = append(writes, &account.Record{
		Address: base58.Encode(vaultAddress),
		Owner:   base58.Encode(tokenvault.SPL_TOKEN_PROGRAM_ID),
		Data:    vaultState.Marshal(),
	})

	if err := p.accounts.Save(ctx, writes...); err != nil {
		log.WithError(err).Warn("failure saving vault accounts")
		return errors.Wrap(err, "error saving vault accounts")
	}

	log.Debug("vault initialized")

	return nil
}

func (p *Processor) executeInitializeTriggerAccount(ctx context.Context, instruction solana.Instruction) error {
	log := p.log.WithField("method", "executeInitializeTriggerAccount")

	decompiled, err := tokenvault.DecompileInitializeTriggerAccount(instruction)
	if err != nil {
		return ErrInvalidInstructionData
	}

	// The trigger account is a fresh keypair, so it signs its own creation
	// alongside the funding authority.
	if !decompiled.TriggerAccountIsSigner || !decompiled.AuthorityIsSigner {
		return ErrUnauthorized
	}

	triggerAddress := base58.Encode(decompiled.Accounts.TriggerAccount)
	log = log.WithField("trigger", triggerAddress)

	_, err = p.accounts.GetByAddress(ctx, triggerAddress)
	if err == nil {
		return ErrAlreadyInitialized
	} else if err != account.ErrNotFound {
		log.WithError(err).Warn("failure checking trigger account")
		return errors.Wrap(err, "error getting trigger account")
	}

	triggerState := tokenvault.TriggerAccount{
		IsTriggered: false,
		Authority:   decompiled.Accounts.Authority,
	}
	err = p.accounts.Save(ctx, &account.Record{
		Address: triggerAddress,
		Owner:   base58.Encode(tokenvault.PROGRAM_ID),
		Data:    triggerState.Marshal(),
	})
	if err != nil {
		log.WithError(err).Warn("failure saving trigger account")
		return errors.Wrap(err, "error saving trigger account")
	}

	log.Debug("trigger account initialized")

	return nil
}

func (p *Processor) executeSetTrigger(ctx context.Context, instruction solana.Instruction) error {
	log := p.log.WithField("method", "executeSetTrigger")

	decompiled, err := tokenvault.DecompileSetTrigger(instruction)
	if err != nil {
		return ErrInvalidInstructionData
	}

	triggerAddress := base58.Encode(decompiled.Accounts.TriggerAccount)
	log = log.WithFields(logrus.Fields{
		"trigger":      triggerAddress,
		"is_triggered": decompiled.Args.IsTriggered,
	})

	triggerRecord, err := p.accounts.GetByAddress(ctx, triggerAddress)
	if err == account.ErrNotFound {
		return ErrAccountNotFound
	} else if err != nil {
		log.WithError(err).Warn("failure getting trigger account")
		return errors.Wrap(err, "error getting trigger account")
	}

	var triggerState tokenvault.TriggerAccount
	if err := triggerState.Unmarshal(triggerRecord.Data); err != nil {
		return ErrInvalidAccount
	}

	if !decompiled.AuthorityIsSigner {
		return ErrUnauthorized
	}
	if !bytes.Equal(triggerState.Authority, decompiled.Accounts.Authority) {
		return ErrUnauthorized
	}

	triggerState.IsTriggered = decompiled.Args.IsTriggered
	triggerRecord.Data = triggerState.Marshal()

	if err := p.accounts.Save(ctx, triggerRecord); err != nil {
		log.WithError(err).Warn("failure saving trigger account")
		return errors.Wrap(err, "error saving trigger account")
	}

	log.Debug("trigger updated")

	return nil
}

func (p *Processor) executeTransferLamports(ctx context.Context, instruction solana.Instruction) error {
	log := p.log.WithField("method", "executeTransferLamports")

	decompiled, err := tokenvault.DecompileTransferLamports(instruction)
	if err != nil {
		return ErrInvalidInstructionData
	}

	if !decompiled.FromIsSigner {
		return ErrUnauthorized
	}

	escrowAddress, _, err := tokenvault.GetBondingCurveAddress(&tokenvault.GetBondingCurveAddressArgs{
		Mint: decompiled.Accounts.Mint,
	})
	if err != nil {
		return errors.Wrap(err, "error deriving bonding curve address")
	}
	if !bytes.Equal(decompiled.Accounts.BondingCurve, escrowAddress) {
		return ErrInvalidAccount
	}

	// A self-transfer would load the escrow twice and mint lamports on the
	// second write
	if bytes.Equal(decompiled.Accounts.From, escrowAddress) {
		return ErrInvalidAccount
	}

	log = log.WithFields(logrus.Fields{
		"from":   base58.Encode(decompiled.Accounts.From),
		"escrow": base58.Encode(escrowAddress),
		"amount": decompiled.Args.Amount,
	})

	fromRecord, err := p.getSystemAccount(ctx, decompiled.Accounts.From)
	if err != nil {
		return err
	}
	escrowRecord, err := p.getSystemAccount(ctx, escrowAddress)
	if err != nil {
		return err
	}

	if fromRecord.Lamports < decompiled.Args.Amount {
		return ErrInsufficientBalance
	}

	fromRecord.Lamports -= decompiled.Args.Amount
	escrowRecord.Lamports += decompiled.Args.Amount

	if err := p.accounts.Save(ctx, fromRecord, escrowRecord); err != nil {
		log.WithError(err).Warn("failure saving lamport transfer")
		return errors.Wrap(err, "error saving lamport transfer")
	}

	log.Debug("lamports transferred to escrow")

	return nil
}

func (p *Processor) executeBuyTokens(ctx context.Context, instruction solana.Instruction) error {
	log := p.log.WithField("method", "executeBuyTokens")

	decompiled, err := tokenvault.DecompileBuyTokens(instruction)
	if err != nil {
		return ErrInvalidInstructionData
	}

	if !decompiled.BuyerIsSigner {
		return ErrUnauthorized
	}

	accounts, err := p.loadTradingAccounts(ctx, tradingAccounts{
		payer:            decompiled.Accounts.Buyer,
		mint:             decompiled.Accounts.Mint,
		vaultOwner:       decompiled.Accounts.VaultOwner,
		vault:            decompiled.Accounts.Vault,
		bondingCurve:     decompiled.Accounts.BondingCurve,
		trigger:          decompiled.Accounts.TriggerAccount,
		userTokenAccount: decompiled.Accounts.UserTokenAccount,
	})
	if err != nil {
		return err
	}

	log = log.WithFields(logrus.Fields{
		"buyer":  base58.Encode(decompiled.Accounts.Buyer),
		"mint":   base58.Encode(decompiled.Accounts.Mint),
		"amount": decompiled.Args.Amount,
	})

	cost, err := p.pricing.CostToBuy(
		curve.State{
			VaultTokenBalance: accounts.vaultState.Amount,
			EscrowLamports:    accounts.escrowRecord.Lamports,
		},
		decompiled.Args.Amount,
	)
	if err != nil {
		return errors.Wrap(err, "error pricing buy")
	}

	buyerRecord, err := p.getSystemAccount(ctx, decompiled.Accounts.Buyer)
	if err != nil {
		return err
	}

	if buyerRecord.Lamports < cost {
		return ErrInsufficientBalance
	}
	if accounts.vaultState.Amount < decompiled.Args.Amount {
		return ErrInsufficientBalance
	}

	buyerRecord.Lamports -= cost
	accounts.escrowRecord.Lamports += cost

	accounts.vaultState.Amount -= decompiled.Args.Amount
	accounts.vaultRecord.Data = accounts.vaultState.Marshal()

	accounts.userState.Amount += decompiled.Args.Amount
	accounts.userRecord.Data = accounts.userState.Marshal()

	err = p.accounts.Save(
		ctx,
		buyerRecord,
		accounts.escrowRecord,
		accounts.vaultRecord,
		accounts.userRecord,
	)
	if err != nil {
		log.WithError(err).Warn("failure saving buy")
		return errors.Wrap(err, "error saving buy")
	}

	log.WithField("cost", cost).Debug("tokens bought")

	return nil
}

func (p *Processor) executeSellTokens(ctx context.Context, instruction solana.Instruction) error {
	log := p.log.WithField("method", "executeSellTokens")

	decompiled, err := tokenvault.DecompileSellTokens(instruction)
	if err != nil {
		return ErrInvalidInstructionData
	}

	if !decompiled.SellerIsSigner {
		return ErrUnauthorized
	}

	accounts, err := p.loadTradingAccounts(ctx, tradingAccounts{
		payer:            decompiled.Accounts.Seller,
		mint:             decompiled.Accounts.Mint,
		vaultOwner:       decompiled.Accounts.VaultOwner,
		vault:            decompiled.Accounts.Vault,
		bondingCurve:     decompiled.Accounts.BondingCurve,
		trigger:          decompiled.Accounts.TriggerAccount,
		userTokenAccount: decompiled.Accounts.UserTokenAccount,
	})
	if err != nil {
		return err
	}

	log = log.WithFields(logrus.Fields{
		"seller": base58.Encode(decompiled.Accounts.Seller),
		"mint":   base58.Encode(decompiled.Accounts.Mint),
		"amount": decompiled.Args.Amount,
	})

	// The token debit is authorized by the seller's signature, so it can
	// only come out of a token account the seller owns.
	if !bytes.Equal(accounts.userState.Owner, decompiled.Accounts.Seller) {
		return ErrUnauthorized
	}

	if accounts.userState.Amount < decompiled.Args.Amount {
		return ErrInsufficientBalance
	}

	proceeds, err := p.pricing.ProceedsFromSell(
		curve.State{
			VaultTokenBalance: accounts.vaultState.Amount,
			EscrowLamports:    accounts.escrowRecord.Lamports,
		},
		decompiled.Args.Amount,
	)
	if err != nil {
		return errors.Wrap(err, "error pricing sell")
	}

	if accounts.escrowRecord.Lamports < proceeds {
		return ErrInsufficientLiquidity
	}

	sellerRecord, err := p.getSystemAccount(ctx, decompiled.Accounts.Seller)
	if err != nil {
		return err
	}

	accounts.userState.Amount -= decompiled.Args.Amount
	accounts.userRecord.Data = accounts.userState.Marshal()

	accounts.vaultState.Amount += decompiled.Args.Amount
	accounts.vaultRecord.Data = accounts.vaultState.Marshal()

	accounts.escrowRecord.Lamports -= proceeds
	sellerRecord.Lamports += proceeds

	err = p.accounts.Save(
		ctx,
		sellerRecord,
		accounts.escrowRecord,
		accounts.vaultRecord,
		accounts.userRecord,
	)
	if err != nil {
		log.WithError(err).Warn("failure saving sell")
		return errors.Wrap(err, "error saving sell")
	}

	log.WithField("proceeds", proceeds).Debug("tokens sold")

	return nil
}

type tradingAccounts struct {
	payer            ed25519.PublicKey
	mint             ed25519.PublicKey
	vaultOwner       ed25519.PublicKey
	vault            ed25519.PublicKey
	bondingCurve     ed25519.PublicKey
	trigger          ed25519.PublicKey
	userTokenAccount ed25519.PublicKey
}

type loadedTradingAccounts struct {
	vaultRecord  *account.Record
	vaultState   token.Account
	escrowRecord *account.Record
	userRecord   *account.Record
	userState    token.Account
}

// loadTradingAccounts validates the shared account set of Buy and Sell:
// derived addresses must match, the trigger must exist and allow trading,
// and the vault and user token accounts must be initialized for the mint.
func (p *Processor) loadTradingAccounts(ctx context.Context, accounts tradingAccounts) (*loadedTradingAccounts, error) {
	vaultOwnerAddress, _, err := tokenvault.GetVaultOwnerAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving vault owner address")
	}
	vaultAddress, _, err := tokenvault.GetVaultAddress(&tokenvault.GetVaultAddressArgs{
		Mint: accounts.mint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving vault address")
	}
	escrowAddress, _, err := tokenvault.GetBondingCurveAddress(&tokenvault.GetBondingCurveAddressArgs{
		Mint: accounts.mint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving bonding curve address")
	}

	if !bytes.Equal(accounts.vaultOwner, vaultOwnerAddress) {
		return nil, ErrInvalidAccount
	}
	if !bytes.Equal(accounts.vault, vaultAddress) {
		return nil, ErrInvalidAccount
	}
	if !bytes.Equal(accounts.bondingCurve, escrowAddress) {
		return nil, ErrInvalidAccount
	}

	// On chain, duplicate account metas alias to one shared account. The
	// store loads each address as an independent record, so a duplicated
	// address would apply one role's write and silently drop the other.
	// Every account in the write set must be distinct.
	writeSet := []ed25519.PublicKey{
		accounts.payer,
		accounts.trigger,
		accounts.userTokenAccount,
		vaultAddress,
		escrowAddress,
	}
	for i := 0; i < len(writeSet); i++ {
		for j := i + 1; j < len(writeSet); j++ {
			if bytes.Equal(writeSet[i], writeSet[j]) {
				return nil, ErrInvalidAccount
			}
		}
	}

	triggerRecord, err := p.accounts.GetByAddress(ctx, base58.Encode(accounts.trigger))
	if err == account.ErrNotFound {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting trigger account")
	}

	var triggerState tokenvault.TriggerAccount
	if err := triggerState.Unmarshal(triggerRecord.Data); err != nil {
		return nil, ErrInvalidAccount
	}
	if triggerState.IsTriggered {
		return nil, ErrTradingPaused
	}

	vaultRecord, err := p.accounts.GetByAddress(ctx, base58.Encode(vaultAddress))
	if err == account.ErrNotFound {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting vault account")
	}

	var vaultState token.Account
	if !vaultState.Unmarshal(vaultRecord.Data) {
		return nil, ErrInvalidAccount
	}

	userRecord, err := p.accounts.GetByAddress(ctx, base58.Encode(accounts.userTokenAccount))
	if err == account.ErrNotFound {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting user token account")
	}

	var userState token.Account
	if !userState.Unmarshal(userRecord.Data) {
		return nil, ErrInvalidAccount
	}
	if !bytes.Equal(userState.Mint, accounts.mint) {
		return nil, ErrInvalidAccount
	}

	escrowRecord, err := p.getSystemAccount(ctx, escrowAddress)
	if err != nil {
		return nil, err
	}

	return &loadedTradingAccounts{
		vaultRecord:  vaultRecord,
		vaultState:   vaultState,
		escrowRecord: escrowRecord,
		userRecord:   userRecord,
		userState:    userState,
	}, nil
}

// getSystemAccount loads a system-owned lamport account, synthesizing a
// zero-balance record when none exists yet. Accounts with no lamports don't
// exist on chain, so a missing record and an empty account are the same
// thing.
func (p *Processor) getSystemAccount(ctx context.Context, address ed25519.PublicKey) (*account.Record, error) {
	record, err := p.accounts.GetByAddress(ctx, base58.Encode(address))
	if err == account.ErrNotFound {
		return &account.Record{
			Address: base58.Encode(address),
			Owner:   base58.Encode(tokenvault.SYSTEM_PROGRAM_ID),
		}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting system account")
	}
	return record, nil
}
