package common

import "context"

// Actor identifies the authenticated caller for the duration of a request.
type Actor struct {
	Subject string
	Role    string
}

// Roles recognised by the route guards.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type ctxKey string

const actorKey ctxKey = "auth/actor"

// WithActor stores the authenticated actor on the provided context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom extracts the authenticated actor from the context if present.
func ActorFrom(ctx context.Context) (Actor, bool) {
	v := ctx.Value(actorKey)
	if v == nil {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

// SubjectFrom returns just the authenticated subject, for callers that do
// not branch on role.
func SubjectFrom(ctx context.Context) (string, bool) {
	actor, ok := ActorFrom(ctx)
	if !ok || actor.Subject == "" {
		return "", false
	}
	return actor.Subject, true
}
