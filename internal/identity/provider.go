// File: internal/identity/provider.go
package identity

import "context"

// Provider is the minimal identity-provider surface the application consumes.
// Errors returned by implementations carry a machine-readable code via *Error.
type Provider interface {
	// SignUp creates a new email/password account.
	SignUp(ctx context.Context, email, password string) (*Account, error)
	// SignIn authenticates an existing account with email and password.
	SignIn(ctx context.Context, email, password string) (*Account, error)
	// UpdateDisplayName sets the display-name attribute on an existing account.
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
}
