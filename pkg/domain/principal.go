package domain

import (
	"context"

	"github.com/google/uuid"
)

// NewID generates an identifier for a fresh row.
func NewID() string {
	return uuid.NewString()
}

type ctxKeyActor struct{}

// WithActor binds the authenticated user id to the request context.
//
// The actor travels as an ordinary parameter from here on; nothing in
// this package reads process-wide state.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyActor{}, userID)
}

// ActorFromContext extracts the user id set by WithActor.
//
// Returns nil for system-initiated work which has no actor.
func ActorFromContext(ctx context.Context) *string {
	if userID, ok := ctx.Value(ctxKeyActor{}).(string); ok {
		return &userID
	}
	return nil
}
