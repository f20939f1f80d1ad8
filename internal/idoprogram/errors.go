package idoprogram

import "fmt"

// ErrorCode is the ABI-stable numeric error code surfaced to callers of
// Dispatch. Codes are part of the ABI and must never be renumbered, the same
// contract the original program keeps for its `Error` enum (cast to
// `ProgramError::Custom(e as u32)`).
type ErrorCode uint32

// Structural errors.
const (
	ErrInvalidAccounts ErrorCode = iota + 1
	ErrInvalidAccountAddress
	ErrInvalidAccountData
	ErrAlreadyInitialized
	ErrNotRentExempt
	ErrMissingSignature
)

// Policy errors.
const (
	ErrInvalidPoolState ErrorCode = iota + 100
	ErrAmountOutOfRange
	ErrGoalExceeded
	ErrWhitelistRequired
	ErrKycRequired
	ErrInvalidClaimTarget
	ErrRefundReservedForUsers
)

// Arithmetic errors.
const (
	ErrArithmeticOverflow ErrorCode = iota + 200
)

var errorMessages = map[ErrorCode]string{
	ErrInvalidAccounts:        "invalid accounts: unexpected ordering or count",
	ErrInvalidAccountAddress:  "account address does not match its derived address",
	ErrInvalidAccountData:     "account data has the wrong length or discriminant",
	ErrAlreadyInitialized:     "account is already initialized",
	ErrNotRentExempt:          "account balance is below the rent-exempt minimum",
	ErrMissingSignature:       "required signer did not sign the instruction",
	ErrInvalidPoolState:       "instruction is not admitted in the pool's current state",
	ErrAmountOutOfRange:       "amount is outside the pool's per-transaction bounds",
	ErrGoalExceeded:           "amount would push collected total past the pool's goal max",
	ErrWhitelistRequired:      "pool requires a whitelist token the caller does not hold",
	ErrKycRequired:            "pool requires KYC the caller does not have (or it expired)",
	ErrInvalidClaimTarget:     "claim target account does not match the pool's outcome",
	ErrRefundReservedForUsers: "failed pool's collection account may only be drained by user claims",
	ErrArithmeticOverflow:     "arithmetic operation overflowed its integer width",
}

// ProgramError is the error type returned by every exported operation in
// this package. The numeric Code is stable ABI; Message is for humans.
type ProgramError struct {
	Code    ErrorCode
	Message string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("idoprogram: error %d: %s", e.Code, e.Message)
}

// NewError builds a ProgramError from a stable code, using the canonical
// message for that code.
func NewError(code ErrorCode) *ProgramError {
	return &ProgramError{Code: code, Message: errorMessages[code]}
}

// NewErrorf builds a ProgramError from a stable code with a formatted,
// context-specific message (the code, not the string, is the ABI).
func NewErrorf(code ErrorCode, format string, args ...any) *ProgramError {
	return &ProgramError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err if it is a *ProgramError, returning
// ok=false otherwise.
func CodeOf(err error) (ErrorCode, bool) {
	pe, ok := err.(*ProgramError)
	if !ok {
		return 0, false
	}
	return pe.Code, true
}
