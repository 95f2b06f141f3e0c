package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// ctxKey is unexported so only WithUser can store a user in a context.
type ctxKey struct{}

var ErrNoUser = errors.New("user not found in context")

// WithUser returns a copy of ctx acting on behalf of u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// CurrentUser returns the user stored by WithUser, or ErrNoUser.
func CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(ctxKey{}).(User)
	if !ok {
		log.Trace("no user in request context")
		return User{}, ErrNoUser
	}
	return u, nil
}

// CurrentId is CurrentUser narrowed to the id every per-user store is keyed by.
func CurrentId(ctx context.Context) (int, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return u.Id, nil
}
