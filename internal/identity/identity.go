package identity

import "context"

// Identity is the caller as vouched for by the external sign-in provider.
// The zero value is the anonymous caller.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Image  string
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity resolved for the request, or the anonymous
// identity when none was attached. Only HTTP handlers read it; services get
// the identity as an argument.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
