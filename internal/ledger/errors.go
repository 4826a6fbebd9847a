package ledger

import "errors"

var (
	// ErrInvalidAmount occurs when an amount is zero or negative (or negative
	// for an opening deposit), has more than AmountScale decimal places, or
	// reaches MaxAmount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrBalanceLimit occurs when a credit would lift a balance to MaxAmount.
	ErrBalanceLimit = errors.New("balance limit exceeded")

	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a withdrawal or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTargetNotFound indicates the receiving account of a transfer does not exist.
	ErrTargetNotFound = errors.New("target account not found")

	// ErrAccountNotFound indicates a lookup by id found nothing.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAuthFailure is returned for both unknown accounts and wrong PINs so
	// callers cannot probe which account ids exist.
	ErrAuthFailure = errors.New("invalid account number or PIN")

	// ErrSelfTransfer rejects a transfer whose source and target are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrInvalidPIN rejects PINs that are not exactly PINLength digits.
	ErrInvalidPIN = errors.New("PIN must be exactly 4 digits")

	// ErrInvalidHolderName rejects blank holder names.
	ErrInvalidHolderName = errors.New("holder name is required")
)
