// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"gatherus_backend/internal/app"
	"gatherus_backend/internal/auth"
	"gatherus_backend/internal/config"
	"gatherus_backend/internal/firebase"
	"gatherus_backend/internal/flow"
	"gatherus_backend/internal/identity"
	"gatherus_backend/internal/jobs"
	"gatherus_backend/internal/location"
	"gatherus_backend/internal/metrics"
	"gatherus_backend/internal/platform/logger"
	"gatherus_backend/internal/profile"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		firebase.NewService,
		metrics.NewCollector,

		// Identity provider
		identity.NewFirebaseProvider,
		wire.Bind(new(identity.Provider), new(*identity.FirebaseProvider)),

		// Profile store and service
		profile.NewFirestoreStore,
		wire.Bind(new(profile.Store), new(*profile.FirestoreStore)),
		profile.NewService,

		// Flow registry and handlers
		flow.NewManager,
		flow.NewLocationFlows,
		flow.NewHandler,
		auth.NewService,
		auth.NewHandler,
		location.NewHandler,

		// Background jobs
		jobs.NewFlowSweeperJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
