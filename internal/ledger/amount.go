package ledger

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 4

// maxAmountDigits bounds amounts and balances to what NUMERIC(20, 4) holds.
const maxAmountDigits = 16

// MaxAmount is the exclusive upper bound for amounts and balances.
var MaxAmount = decimal.New(1, maxAmountDigits)

// checkAmount rejects amounts with more than AmountScale decimal places or a
// magnitude of MaxAmount or more. The exponent is checked before any
// arithmetic so oversized inputs are never rescaled.
func checkAmount(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp < -AmountScale || exp > maxAmountDigits {
		return ErrInvalidAmount
	}
	if amount.Abs().GreaterThanOrEqual(MaxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// checkPositive is checkAmount plus the sign rule for mutations.
func checkPositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return checkAmount(amount)
}
