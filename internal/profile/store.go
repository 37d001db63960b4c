// File: internal/profile/store.go
package profile

import "context"

// Store is the minimal document-store surface the profile service consumes.
// Implementations must deliver snapshot callbacks for a given subscription in
// the order the backend emits them, and must stop delivering once the
// subscription's stop function has returned.
type Store interface {
	// Get reads a document. A missing document yields common.ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)
	// Set writes a full document, replacing any existing one.
	Set(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Update merges the given fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Snapshots opens a live subscription on a document. onNext receives every
	// snapshot; exists is false (and doc nil) when the document is absent.
	// onError receives subscription errors. The returned stop function cancels
	// the subscription.
	Snapshots(ctx context.Context, collection, id string, onNext func(doc map[string]interface{}, exists bool), onError func(error)) (stop func())
	// ServerTimestamp returns the store's write-time timestamp sentinel.
	ServerTimestamp() interface{}
}
