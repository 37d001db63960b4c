// File: internal/profile/firestore.go
package profile

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gatherus_backend/internal/common"
	fb "gatherus_backend/internal/firebase"
)

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
	logger *zap.Logger
}

var _ Store = (*FirestoreStore)(nil)

// NewFirestoreStore creates a Firestore-backed document store.
func NewFirestoreStore(fbService *fb.Service, logger *zap.Logger) *FirestoreStore {
	return &FirestoreStore{
		client: fbService.Firestore(),
		logger: logger.Named("FirestoreStore"),
	}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	// MergeAll gives the partial-update (merge) semantics the clients rely on.
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Snapshots(ctx context.Context, collection, id string, onNext func(map[string]interface{}, bool), onError func(error)) func() {
	subCtx, cancel := context.WithCancel(ctx)
	iter := s.client.Collection(collection).Doc(id).Snapshots(subCtx)

	var mu sync.Mutex
	stopped := false

	go func() {
		for {
			snap, err := iter.Next()

			mu.Lock()
			done := stopped
			mu.Unlock()
			if done {
				return
			}

			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				s.logger.Warn("Snapshot subscription error",
					zap.String("collection", collection),
					zap.String("doc", id),
					zap.Error(err),
				)
				onError(err)
				return
			}
			// A missing document is still a snapshot; subscribers decide what
			// absence means.
			if !snap.Exists() {
				onNext(nil, false)
				continue
			}
			onNext(snap.Data(), true)
		}
	}()

	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		cancel()
		iter.Stop()
	}
}

func (s *FirestoreStore) ServerTimestamp() interface{} {
	return firestore.ServerTimestamp
}
