// File: internal/identity/firebase.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"gatherus_backend/internal/config"
	"gatherus_backend/internal/firebase"
)

// FirebaseProvider implements Provider against Firebase: account creation and
// profile attributes go through the Admin SDK, password sign-in goes through
// the Identity Toolkit REST surface (the Admin SDK has no password check).
type FirebaseProvider struct {
	authClient *firebaseauth.Client
	toolkit    *identitytoolkit.RelyingpartyService
	logger     *zap.Logger
}

var _ Provider = (*FirebaseProvider)(nil)

// NewFirebaseProvider creates a Firebase-backed identity provider.
func NewFirebaseProvider(cfg *config.Config, fb *firebase.Service, logger *zap.Logger) (*FirebaseProvider, error) {
	toolkitService, err := identitytoolkit.NewService(context.Background(), option.WithAPIKey(cfg.FirebaseWebAPIKey))
	if err != nil {
		logger.Error("Failed to initialize Identity Toolkit service", zap.Error(err))
		return nil, fmt.Errorf("error initializing identity toolkit service: %w", err)
	}

	return &FirebaseProvider{
		authClient: fb.Auth(),
		toolkit:    toolkitService.Relyingparty,
		logger:     logger.Named("FirebaseProvider"),
	}, nil
}

// SignUp creates a new email/password account via the Admin SDK.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(email).
		Password(password)

	record, err := p.authClient.CreateUser(ctx, params)
	if err != nil {
		p.logger.Warn("Firebase CreateUser failed", zap.Error(err), zap.String("email", email))
		return nil, p.mapAdminError(err)
	}

	p.logger.Info("Created Firebase account", zap.String("uid", record.UID))
	return &Account{UID: record.UID, Email: record.Email, DisplayName: record.DisplayName}, nil
}

// SignIn verifies an email/password pair through the Identity Toolkit.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Account, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	resp, err := p.toolkit.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		p.logger.Warn("Password verification failed", zap.Error(err), zap.String("email", email))
		return nil, p.mapToolkitError(err)
	}

	p.logger.Debug("Password verified", zap.String("uid", resp.LocalId))
	return &Account{UID: resp.LocalId, Email: resp.Email, DisplayName: resp.DisplayName}, nil
}

// UpdateDisplayName sets the display name on an existing account.
func (p *FirebaseProvider) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	params := (&firebaseauth.UserToUpdate{}).DisplayName(displayName)
	if _, err := p.authClient.UpdateUser(ctx, uid, params); err != nil {
		p.logger.Error("Failed to update display name", zap.Error(err), zap.String("uid", uid))
		return p.mapAdminError(err)
	}
	return nil
}

// mapAdminError converts Admin SDK errors into coded identity errors.
func (p *FirebaseProvider) mapAdminError(err error) error {
	switch {
	case firebaseauth.IsEmailAlreadyExists(err):
		return NewError(CodeEmailAlreadyInUse, err.Error())
	case firebaseauth.IsUserNotFound(err):
		return NewError(CodeUserNotFound, err.Error())
	case strings.Contains(err.Error(), "password"):
		// The SDK rejects passwords shorter than 6 characters before any RPC.
		return NewError(CodeWeakPassword, err.Error())
	case strings.Contains(err.Error(), "email"):
		return NewError(CodeInvalidEmail, err.Error())
	default:
		return NewError(CodeUnknown, err.Error())
	}
}

// mapToolkitError converts Identity Toolkit REST error messages into coded
// identity errors. Unrecognized backend messages keep their raw text.
func (p *FirebaseProvider) mapToolkitError(err error) error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return NewError(CodeUnknown, err.Error())
	}

	msg := gErr.Message
	switch {
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"):
		return NewError(CodeUserNotFound, msg)
	case strings.HasPrefix(msg, "INVALID_PASSWORD"):
		return NewError(CodeWrongPassword, msg)
	case strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"):
		return NewError(CodeInvalidCredential, msg)
	case strings.HasPrefix(msg, "INVALID_EMAIL"), strings.HasPrefix(msg, "MISSING_EMAIL"):
		return NewError(CodeInvalidEmail, msg)
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return NewError(CodeEmailAlreadyInUse, msg)
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return NewError(CodeWeakPassword, msg)
	default:
		return NewError(CodeUnknown, msg)
	}
}
