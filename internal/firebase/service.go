package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"gatherus_backend/internal/config"
)

// Service provides access to the Firebase backend: the Auth admin client for
// account management and the Firestore client for user profile documents.
type Service struct {
	authClient      *auth.Client
	firestoreClient *firestore.Client
	logger          *zap.Logger
}

// NewService initializes the Firebase Admin SDK and the Firestore client.
// The returned cleanup function releases the Firestore connections.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, func(), error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, nil, fmt.Errorf("firebase service account key path is required")
	}

	// Clean the path to prevent issues with relative paths or symlinks
	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)

	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error

	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// If ProjectID is not specified in config, let SDK infer from credentials
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}

	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(context.Background())
	if err != nil {
		logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	service := &Service{
		authClient:      authClient,
		firestoreClient: firestoreClient,
		logger:          logger,
	}
	cleanup := func() {
		if err := service.Close(); err != nil {
			logger.Warn("Error closing Firestore client", zap.Error(err))
		}
	}
	return service, cleanup, nil
}

// Auth returns the Firebase Auth admin client.
func (s *Service) Auth() *auth.Client {
	return s.authClient
}

// Firestore returns the Firestore client.
func (s *Service) Firestore() *firestore.Client {
	return s.firestoreClient
}

// Close releases the Firestore client's underlying connections.
func (s *Service) Close() error {
	if s.firestoreClient != nil {
		return s.firestoreClient.Close()
	}
	return nil
}
