// File: internal/identity/model.go
package identity

// Account is the identity provider's record of an authenticated user,
// returned by sign-up and sign-in.
type Account struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session is proof of an authenticated identity. It is immutable per login
// and replaced wholesale on sign-in/sign-out.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SessionFromAccount derives the session carried by a freshly authenticated account.
func SessionFromAccount(a *Account) *Session {
	if a == nil {
		return nil
	}
	return &Session{UserID: a.UID, Email: a.Email}
}
