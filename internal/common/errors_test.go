package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedKindsMatchBothSentinels(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrorForbidden, ErrOwnershipMismatch)

	assert.True(t, errors.Is(err, ErrorForbidden))
	assert.True(t, errors.Is(err, ErrOwnershipMismatch))
	assert.False(t, errors.Is(err, ErrInvalidToken))
	assert.False(t, errors.Is(err, ErrorNotFound))
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrorNotFound, ErrorAlreadyExists, ErrorInternal, ErrorValidation,
		ErrorUnauthorized, ErrorForbidden, ErrorDuplicateUsername,
		ErrUnknownUser, ErrBadPassword,
		ErrMalformedAuthHeader, ErrInvalidToken, ErrOwnershipMismatch,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.Falsef(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}
