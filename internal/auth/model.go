// File: internal/auth/model.go
package auth

// SignUpRequest is the payload for creating a new account.
type SignUpRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// SignInRequest is the payload for authenticating an existing account.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is the session view returned after auth operations.
type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
