package internal

import "context"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Session is the authenticated caller extracted from a bearer token.
type Session struct {
	UserID int64
	Role   string
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s *Session) IsEmployee() bool {
	return s.Role == RoleEmployee
}

type ctxKey string

const sessionKey ctxKey = "session"

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}
