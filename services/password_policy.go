package services

import (
	"fmt"
	"unicode/utf8"
)

// Password requirements
const (
	MinPasswordLength = 6
)

// ValidatePassword checks the minimum length and the confirmation
func ValidatePassword(password, confirmation string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("a senha deve ter pelo menos %d caracteres", MinPasswordLength)
	}
	if password != confirmation {
		return fmt.Errorf("as senhas não coincidem")
	}
	return nil
}
