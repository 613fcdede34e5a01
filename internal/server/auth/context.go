package auth

// Context is the per-request identity state. It is either authenticated,
// with the subject's ID and username recovered from a verified token, or
// anonymous. Anonymous is a valid outcome, not an error.
type Context struct {
	Authenticated bool
	UserID        string
	Username      string
}

// Anonymous returns the identity state of an unverified caller.
func Anonymous() Context {
	return Context{}
}

// ResolveContext turns raw bearer credential material into a Context.
// An empty string and a token that fails verification both resolve to the
// anonymous context: callers must not be able to probe which was the case.
func ResolveContext(raw string, secretKey []byte) Context {
	if raw == "" {
		return Anonymous()
	}

	claims, err := ParseToken(raw, secretKey)
	if err != nil {
		return Anonymous()
	}

	return Context{Authenticated: true, UserID: claims.UserID, Username: claims.Username}
}
