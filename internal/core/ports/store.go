package ports

import "go.trai.ch/glaze/internal/core/domain"

// SourceStore keeps a content-addressed copy of generated source for debugging.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SourceStore interface {
	// Put stores every stage of src and returns the digest of the stored bundle.
	Put(key domain.PassKey, src *domain.GeneratedSource) (string, error)

	// Get returns the bundle stored under digest.
	// Returns nil, nil if not found.
	Get(digest string) ([]byte, error)
}
