package api

// Session identifies the user a client acts for. It is built once by the
// caller from configuration and passed in explicitly; nothing in this
// package reads ambient global state.
type Session struct {
	GuildID string
	UserID  string
	// Token is the bearer credential for mutating calls. May be empty, in
	// which case read-only calls still work and mutating calls fail with
	// ErrUnauthorized before any request is made.
	Token string
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
