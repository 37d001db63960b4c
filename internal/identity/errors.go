// File: internal/identity/errors.go
package identity

import "errors"

// Provider error codes, matching the codes the mobile clients already key on.
const (
	CodeWeakPassword      = "auth/weak-password"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeUnknown           = "auth/unknown"
)

// Error is a machine-readable identity provider error: a stable code plus the
// provider's human message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a provider error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError unwraps an identity provider error if err carries one.
func AsError(err error) (*Error, bool) {
	var idErr *Error
	if errors.As(err, &idErr) {
		return idErr, true
	}
	return nil, false
}

// friendlyMessages maps known provider codes to the guidance text the clients
// show. Codes not in this table fall back to the provider's raw message.
var friendlyMessages = map[string]string{
	CodeWeakPassword: "Password is too weak.\n\n" +
		"Please use a stronger password:\n" +
		"• At least 6 characters (8+ recommended)\n" +
		"• Mix of uppercase and lowercase\n" +
		"• Include numbers and special characters",
	CodeEmailAlreadyInUse: "This email is already registered. Please sign in or use a different email.",
	CodeInvalidEmail:      "Please enter a valid email address.",
	CodeUserNotFound:      "No account found with this email. Please sign up first.",
	CodeWrongPassword:     "Incorrect password. Please try again.",
	CodeInvalidCredential: "Invalid email or password.\n\n" +
		"Please check:\n" +
		"• Email is spelled correctly\n" +
		"• Password is correct\n" +
		"• Account exists (try signing up if you haven't)",
}

// FriendlyMessage maps a provider error to user-facing text. Unmapped codes
// and non-provider errors pass the original message through unchanged.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	if idErr, ok := AsError(err); ok {
		if msg, known := friendlyMessages[idErr.Code]; known {
			return msg
		}
		return idErr.Message
	}
	return err.Error()
}
