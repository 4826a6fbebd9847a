package ledger

import "golang.org/x/crypto/bcrypt"

// PINLength is the number of digits an account PIN must have.
const PINLength = 4

func validatePIN(pin string) error {
	if len(pin) != PINLength {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

func hashPIN(pin string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pin), cost)
}

func comparePIN(hash []byte, pin string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(pin)) == nil
}
