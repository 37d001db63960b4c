// File: internal/auth/service.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gatherus_backend/internal/common"
	"gatherus_backend/internal/identity"
	"gatherus_backend/internal/metrics"
	"gatherus_backend/internal/profile"
)

// minPasswordLength is a guidance threshold for sign-up, not a security policy.
const minPasswordLength = 6

const weakPasswordGuidance = "Password must be at least 6 characters long.\n\n" +
	"For a strong password, use:\n" +
	"• At least 8 characters\n" +
	"• Mix of uppercase and lowercase letters\n" +
	"• Include numbers\n" +
	"• Add special characters (!@#$%^&*)"

// Service implements the auth form's submit paths: sign-up (account, display
// name, initial profile), sign-in (+ best-effort last-login touch) and
// sign-out.
type Service struct {
	provider identity.Provider
	profiles *profile.Service
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewService creates the auth service.
func NewService(provider identity.Provider, profiles *profile.Service, collector *metrics.Collector, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		profiles: profiles,
		metrics:  collector,
		logger:   logger.Named("AuthService"),
	}
}

// SignUp creates the identity account, sets its display name and writes the
// initial profile record, then establishes the session on the client.
//
// The three steps are not transactional: if a later step fails, the identity
// account already exists and is not rolled back. Such failures are reported
// with the SIGNUP_INCOMPLETE code so the partial state is visible.
func (s *Service) SignUp(ctx context.Context, client *identity.Client, req SignUpRequest) (*identity.Session, error) {
	if req.Email == "" || req.Password == "" {
		s.metrics.RecordAuthAttempt("sign_up", "validation_failed")
		return nil, common.ErrBadRequest.WithDetails("Please enter both email and password")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		s.metrics.RecordAuthAttempt("sign_up", "validation_failed")
		return nil, common.ErrBadRequest.WithDetails("Please enter your display name")
	}
	if len(req.Password) < minPasswordLength {
		s.metrics.RecordAuthAttempt("sign_up", "validation_failed")
		return nil, common.NewAPIError(http.StatusUnprocessableEntity, "WEAK_PASSWORD", weakPasswordGuidance)
	}

	account, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.RecordAuthAttempt("sign_up", "failure")
		return nil, providerAPIError(err)
	}

	if err := s.provider.UpdateDisplayName(ctx, account.UID, displayName); err != nil {
		s.logger.Error("Sign-up incomplete: display name update failed",
			zap.Error(err), zap.String("uid", account.UID))
		s.metrics.RecordAuthAttempt("sign_up", "incomplete")
		return nil, signupIncompleteError(err)
	}
	account.DisplayName = displayName

	if err := s.profiles.CreateProfile(ctx, account.UID, displayName, req.Email); err != nil {
		// The identity account exists but the profile does not; there is no
		// compensating delete. Surfaced distinctly so the gap is visible.
		s.logger.Error("Sign-up incomplete: profile creation failed",
			zap.Error(err), zap.String("uid", account.UID))
		s.metrics.RecordAuthAttempt("sign_up", "incomplete")
		return nil, signupIncompleteError(err)
	}

	client.Establish(account)
	s.metrics.RecordAuthAttempt("sign_up", "success")
	s.logger.Info("Sign-up complete", zap.String("uid", account.UID))
	return client.CurrentSession(), nil
}

// SignIn authenticates against the identity provider, establishes the
// session and fires the last-login touch without waiting for it.
func (s *Service) SignIn(ctx context.Context, client *identity.Client, req SignInRequest) (*identity.Session, error) {
	if req.Email == "" || req.Password == "" {
		s.metrics.RecordAuthAttempt("sign_in", "validation_failed")
		return nil, common.ErrBadRequest.WithDetails("Please enter both email and password")
	}

	account, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.RecordAuthAttempt("sign_in", "failure")
		return nil, providerAPIError(err)
	}

	client.Establish(account)
	s.metrics.RecordAuthAttempt("sign_in", "success")

	// Best effort: a failed touch never fails the sign-in. The profile
	// service logs and counts the failure.
	go func() {
		_ = s.profiles.TouchLastLogin(context.Background(), account.UID)
	}()

	return client.CurrentSession(), nil
}

// SignOut clears the client's session.
func (s *Service) SignOut(client *identity.Client) {
	client.SignOut()
}

// providerAPIError converts an identity provider error into an API error
// whose message follows the fixed friendly-text table; unmapped codes keep
// the provider's raw message.
func providerAPIError(err error) *common.APIError {
	msg := identity.FriendlyMessage(err)

	idErr, ok := identity.AsError(err)
	if !ok {
		return common.ErrInternalServer.WithDetails(msg)
	}

	switch idErr.Code {
	case identity.CodeEmailAlreadyInUse:
		return common.NewAPIError(http.StatusConflict, "EMAIL_ALREADY_IN_USE", msg)
	case identity.CodeWeakPassword:
		return common.NewAPIError(http.StatusUnprocessableEntity, "WEAK_PASSWORD", msg)
	case identity.CodeInvalidEmail:
		return common.NewAPIError(http.StatusUnprocessableEntity, "INVALID_EMAIL", msg)
	case identity.CodeUserNotFound:
		return common.NewAPIError(http.StatusUnauthorized, "USER_NOT_FOUND", msg)
	case identity.CodeWrongPassword:
		return common.NewAPIError(http.StatusUnauthorized, "WRONG_PASSWORD", msg)
	case identity.CodeInvalidCredential:
		return common.NewAPIError(http.StatusUnauthorized, "INVALID_CREDENTIAL", msg)
	default:
		return common.NewAPIError(http.StatusBadGateway, "AUTH_PROVIDER_ERROR", msg)
	}
}

func signupIncompleteError(err error) *common.APIError {
	return common.NewAPIError(http.StatusInternalServerError, "SIGNUP_INCOMPLETE",
		"Account created but sign-up did not complete. Please try signing in.").
		WithDetails(err.Error())
}
