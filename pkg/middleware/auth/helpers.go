package auth

import "context"

func userFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey).(User)
	return u, ok && !u.Anonymous()
}

func (m *Middleware) GetUser(ctx context.Context) User {
	u, _ := userFrom(ctx)
	return u
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	_, ok := userFrom(ctx)
	return ok
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	u, ok := userFrom(ctx)
	return ok && m.adminRole != "" && u.Role.Name == m.adminRole
}

// IsRole also holds for the admin role.
func (m *Middleware) IsRole(ctx context.Context, role Role) bool {
	u, ok := userFrom(ctx)
	return ok && ((role.Name != "" && u.Role.Name == role.Name) || m.IsAdmin(ctx))
}

// IsUser also holds for the admin role.
func (m *Middleware) IsUser(ctx context.Context, username string) bool {
	u, ok := userFrom(ctx)
	return ok && (u.Username == username || m.IsAdmin(ctx))
}
