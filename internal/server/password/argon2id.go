package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2idParams are the tunable costs of an argon2id hash.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams follows the RFC 9106 second recommended option.
var DefaultArgon2idParams = Argon2idParams{
	MemoryKiB:   64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

const argon2idPrefix = "$argon2id$"

// randRead is a seam for crypto/rand so tests can simulate entropy failure.
var randRead = rand.Read

// Argon2id hashes with argon2id and encodes as
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>.
type Argon2id struct {
	params Argon2idParams
}

func NewArgon2id(p Argon2idParams) *Argon2id {
	return &Argon2id{params: p}
}

func (a *Argon2id) Hash(plaintext string) (string, error) {
	salt := make([]byte, a.params.SaltLength)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.params.Iterations, a.params.MemoryKiB, a.params.Parallelism, a.params.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		a.params.MemoryKiB,
		a.params.Iterations,
		a.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func (a *Argon2id) Verify(plaintext, encoded string) bool {
	p, salt, expected, ok := decodeArgon2id(encoded)
	if !ok || !a.withinBounds(p) {
		return false
	}
	key := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func (a *Argon2id) recognizes(encoded string) bool {
	return strings.HasPrefix(encoded, argon2idPrefix)
}

// withinBounds refuses stored parameters far above the configured ones, so a
// tampered hash row cannot make verification arbitrarily expensive.
func (a *Argon2id) withinBounds(got Argon2idParams) bool {
	limit := a.params
	return got.MemoryKiB <= limit.MemoryKiB*2 &&
		got.Iterations <= limit.Iterations*2 &&
		uint32(got.Parallelism) <= uint32(limit.Parallelism)*2 &&
		got.SaltLength >= 8 && got.SaltLength <= 64 &&
		got.KeyLength >= 16 && got.KeyLength <= 128
}

func decodeArgon2id(encoded string) (Argon2idParams, []byte, []byte, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return Argon2idParams{}, nil, nil, false
	}

	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Argon2idParams{}, nil, nil, false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}

	return Argon2idParams{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}, salt, key, true
}
