package gerror

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Validation errors.
var (
	ErrZeroAmountArgument   = errors.New("zero amount argument")
	ErrZeroAddressArgument  = errors.New("zero address argument")
	ErrDepositBelowMinimum  = errors.New("deposit below minimum")
	ErrConversionOverflow   = errors.New("conversion overflow")
	ErrDuplicateExternalRef = errors.New("duplicate external reference")
)

// State errors. They depend on mutable shared state, callers should re-check before retrying.
var (
	ErrActionOutOfPhase   = errors.New("action out of phase")
	ErrPaused             = errors.New("paused")
	ErrNotPaused          = errors.New("not paused")
	ErrAlreadyInitialized = errors.New("contract is already initialized")
	ErrNotInitialized     = errors.New("contract is not initialized")
	ErrNotSupported       = errors.New("function not supported by this version")
	ErrInvalidVersion     = errors.New("invalid upgrade version")
)

// Binding errors between the vault, its share unit and their collaborators.
var (
	ErrTokenTransferFailed    = errors.New("token transfer failed")
	ErrVaultOnly              = errors.New("vault only")
	ErrVaultTokenOnly         = errors.New("vault token only")
	ErrVaultNotSet            = errors.New("vault not set")
	ErrVaultAlreadySet        = errors.New("vault already set")
	ErrInvalidVaultAddress    = errors.New("invalid vault address")
	ErrVaultTokenInUse        = errors.New("vault token already in use")
	ErrInvalidSecurityManager = errors.New("invalid security manager")
	ErrInvalidWhitelist       = errors.New("invalid whitelist address")
	ErrCanOnlyRenounceForSelf = errors.New("can only renounce roles for self")
)

// Asset errors. They are surfaced verbatim by the vault and the deposit bridge.
var (
	ErrTransferExceedsBalance      = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance       = errors.New("insufficient allowance")
	ErrBurnExceedsBalance          = errors.New("burn amount exceeds balance")
	ErrDecreasedAllowanceBelowZero = errors.New("decreased allowance below zero")
	ErrAllowanceOverflow           = errors.New("allowance overflow")
	ErrTransferZeroAddress         = errors.New("transfer to the zero address")
	ErrApproveZeroAddress          = errors.New("approve to the zero address")
	ErrMintZeroAddress             = errors.New("mint to the zero address")
	ErrSupplyOverflow              = errors.New("total supply overflow")
)

// UnauthorizedAccessError is returned by every role gated operation.
type UnauthorizedAccessError struct {
	Role    common.Hash
	Account common.Address
}

func (e *UnauthorizedAccessError) Error() string {
	return fmt.Sprintf("unauthorized access: role %s account %s", e.Role.Hex(), e.Account.Hex())
}

// NotWhitelistedError names the address that failed the whitelist check.
type NotWhitelistedError struct {
	Account common.Address
}

func (e *NotWhitelistedError) Error() string {
	return fmt.Sprintf("not whitelisted: %s", e.Account.Hex())
}

// TransferNotAllowedError is returned by the share unit for any destination other than its vault.
type TransferNotAllowedError struct {
	From   common.Address
	To     common.Address
	Amount *uint256.Int
}

func (e *TransferNotAllowedError) Error() string {
	return fmt.Sprintf("transfer not allowed: from %s to %s amount %s", e.From.Hex(), e.To.Hex(), e.Amount.Dec())
}

// InvalidTokenContractError is returned when an address does not hold a token contract.
type InvalidTokenContractError struct {
	Address common.Address
}

func (e *InvalidTokenContractError) Error() string {
	return fmt.Sprintf("invalid token contract: %s", e.Address.Hex())
}
