package httpx

import "context"

// Identity is the request-scoped result of a successful gate check. It is
// never persisted; it lives only in the request context.
type Identity struct {
	ID          string
	Contact     string
	DisplayName string
}

type identityKey struct{}

// ContextWithIdentity attaches the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated identity, if the request
// passed the gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
