package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snippets/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt validates cost and returns a bcrypt scheme. Zero means bcrypt.DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash returns the $2a$ encoding of plaintext. Passwords longer than
// 72 bytes are rejected with common.ErrorValidation.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

// Verify compares in constant time via bcrypt.CompareHashAndPassword.
func (b *Bcrypt) Verify(plaintext, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
}

func (b *Bcrypt) recognizes(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
