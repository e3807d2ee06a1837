// Package actorctx carries the authenticated caller's identity and role
// through request contexts. Services consult it to scope queries instead
// of reaching for any ambient session state.
package actorctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Role gates access to cross-accountant data.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
)

// Actor identifies the authenticated caller.
type Actor struct {
	UserID snowflake.ID
	Role   Role
}

// IsAdmin reports whether the actor may see every accountant's rows.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type actorContextKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// FromContext returns the actor from context, if set.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	if !ok || actor.UserID == 0 {
		return Actor{}, false
	}
	return actor, true
}
