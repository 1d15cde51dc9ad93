package bet

import (
	"errors"
	"fmt"
)

// ErrValidation é a causa comum de toda entrada malformada numa operação do ledger.
var ErrValidation = errors.New("invalid bet")

// ValidationError descreve o campo rejeitado e o motivo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid bet: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
