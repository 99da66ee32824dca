package auth

import (
	"context"

	funk "github.com/thoas/go-funk"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleInspector  Role = "inspector"
	RoleViewer     Role = "viewer"
)

var roles = []Role{RoleAdmin, RoleSupervisor, RoleInspector, RoleViewer}

func (r Role) IsValid() bool {
	return funk.Contains(roles, r)
}

type usernameKeyType struct{}

var (
	usernameKey usernameKeyType
)

// User is the caller resolved by an Authenticator. The engine only looks at
// the role.
type User struct {
	ID       string
	Username string
	Role     Role
}

func (u User) HasRole(allowed ...Role) bool {
	return funk.Contains(allowed, u.Role)
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(usernameKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, usernameKey, u)
}
