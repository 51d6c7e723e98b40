// Package password implements one-way salted hashing of user passwords.
//
// Every hash is self-describing: the encoded string carries the algorithm,
// its cost parameters and the salt, so Verify can check a password against
// any stored hash regardless of which algorithm is configured for new hashes.
package password

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names accepted by New.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// ErrUnsupportedAlgorithm is returned by New for an unknown algorithm name.
var ErrUnsupportedAlgorithm = errors.New("unsupported password hash algorithm")

// Hasher hashes and verifies plaintext passwords.
type Hasher interface {
	// Hash returns a fresh salted hash. Two calls with the same plaintext
	// never return the same string. An error means no hash was produced.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches encoded. Malformed or
	// unsupported encodings simply yield false.
	Verify(plaintext, encoded string) bool
}

type scheme interface {
	Hasher
	recognizes(encoded string) bool
}

// Service hashes with one primary scheme and verifies with whichever scheme
// produced the stored hash.
type Service struct {
	primary scheme
	schemes []scheme
}

// New builds a Service hashing with the named algorithm. bcryptCost is only
// used when algorithm is bcrypt; zero selects the library default.
func New(algorithm string, bcryptCost int) (*Service, error) {
	b, err := NewBcrypt(bcryptCost)
	if err != nil {
		return nil, err
	}
	a := NewArgon2id(DefaultArgon2idParams)

	s := &Service{schemes: []scheme{b, a}}
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		s.primary = b
	case AlgorithmArgon2id:
		s.primary = a
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return s, nil
}

// Hash hashes plaintext with the primary scheme.
func (s *Service) Hash(plaintext string) (string, error) {
	return s.primary.Hash(plaintext)
}

// Verify checks plaintext against encoded using the scheme that produced it.
func (s *Service) Verify(plaintext, encoded string) bool {
	for _, sc := range s.schemes {
		if sc.recognizes(encoded) {
			return sc.Verify(plaintext, encoded)
		}
	}
	return false
}
