package auth

import "context"

// identityKey is the unexported context key for the caller identity.
type identityKey struct{}

// SetIdentity returns a context carrying the caller's identity. The
// middleware calls this after the chain answers Yes; handlers downstream
// read it back with IdentityFromContext.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity stored by SetIdentity,
// or nil when the request never passed through the auth middleware (for
// example on bypass endpoints).
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
