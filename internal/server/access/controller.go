// Package access authenticates bearer tokens on inbound requests and
// enforces that only the owner of a snippet may mutate it.
//
// A mutation runs three stages in order: authenticate (AuthenticateRequest,
// usually via Middleware), look the target up, then authorize against its
// owner (Mutate). Existence is always resolved before ownership, so a missing
// target is reported as not found whoever asks.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snippets/internal/common"
)

// Identity is the verified caller of a request.
type Identity struct {
	Username string
}

// TokenVerifier resolves a bearer token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Controller is stateless apart from its verifier and safe for concurrent use.
type Controller struct {
	tokens TokenVerifier
}

func NewController(tokens TokenVerifier) *Controller {
	return &Controller{tokens: tokens}
}

// AuthenticateRequest parses an Authorization header of the exact form
// "Bearer <token>" and verifies the token. Any failure matches
// common.ErrorForbidden.
func (c *Controller) AuthenticateRequest(header string) (Identity, error) {
	token, err := parseBearer(header)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", common.ErrorForbidden, err)
	}

	username, err := c.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidToken) {
			err = fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
		}
		return Identity{}, fmt.Errorf("%w: %w", common.ErrorForbidden, err)
	}

	return Identity{Username: username}, nil
}

// AuthorizeMutation allows the mutation only when identity is the owner.
// Usernames are compared exactly; the stored author carries canonical casing.
func (c *Controller) AuthorizeMutation(id Identity, owner string) error {
	if id.Username == "" || id.Username != owner {
		return fmt.Errorf("%w: %w", common.ErrorForbidden, common.ErrOwnershipMismatch)
	}
	return nil
}

// LookupFunc returns the owner of the resource or an error matching
// common.ErrorNotFound.
type LookupFunc func(ctx context.Context, resourceID string) (owner string, err error)

// ExecuteFunc performs the mutation once it has been authorized.
type ExecuteFunc func(ctx context.Context) error

// Mutate runs lookup, authorization and execute in that order and stops at
// the first failure. Callers that need the stages to be atomic run Mutate
// inside a transaction with a locking lookup.
func (c *Controller) Mutate(ctx context.Context, id Identity, resourceID string, lookup LookupFunc, execute ExecuteFunc) error {
	owner, err := lookup(ctx, resourceID)
	if err != nil {
		return err
	}

	if err := c.AuthorizeMutation(id, owner); err != nil {
		return err
	}

	return execute(ctx)
}

func parseBearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != common.BearerScheme {
		return "", common.ErrMalformedAuthHeader
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", common.ErrMalformedAuthHeader
	}
	return token, nil
}
