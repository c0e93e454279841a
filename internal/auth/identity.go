package auth

// Identity is the request-scoped authenticated caller. It is resolved by the
// auth middleware from a verified token plus a fresh credential-store lookup
// and passed explicitly through services, never read from ambient state.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}
