package userctx

import (
	"context"

	"github.com/ccoutinho/letterfy/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// New returns a new context carrying the user.
func New(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext extracts the user from the context.
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
