package identity

import "context"

type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleArtisan Role = "artisan"
	RoleAdmin   Role = "admin"
)

// Identity is the verified caller handed to the engine by the auth
// middleware. The engine never inspects credentials itself.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool   { return i.Role == RoleAdmin }
func (i Identity) IsArtisan() bool { return i.Role == RoleArtisan }
func (i Identity) IsBuyer() bool   { return i.Role == RoleBuyer }

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores the verified identity into context (set by middleware).
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext retrieves the verified identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleBuyer, RoleArtisan, RoleAdmin:
		return true
	}
	return false
}
