// Package auth resolves the acting user for API requests. Callers identify
// themselves with the X-User-ID header; the authorizer verifies the user
// exists and hands the row to downstream handlers via the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
)

// UserIDHeader carries the caller's numeric user id.
const UserIDHeader = "X-User-ID"

var (
	// ErrMissingUser is returned when the request carries no user id.
	ErrMissingUser = errors.New("user identification required")

	// ErrInvalidUser is returned when the user id is malformed or unknown.
	ErrInvalidUser = errors.New("invalid user identifier")
)

// Authorizer resolves a request to the acting user.
type Authorizer interface {
	Authorize(ctx context.Context, r *http.Request) (*model.User, error)
}

// HeaderAuthorizer validates the X-User-ID header against the user store.
type HeaderAuthorizer struct {
	users store.Users
}

func NewHeaderAuthorizer(users store.Users) *HeaderAuthorizer {
	return &HeaderAuthorizer{users: users}
}

func (a *HeaderAuthorizer) Authorize(ctx context.Context, r *http.Request) (*model.User, error) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return nil, ErrMissingUser
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidUser
	}
	u, err := a.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidUser
		}
		return nil, err
	}
	return u, nil
}

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom extracts the authenticated user placed by the middleware.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*model.User)
	return u, ok
}
