package ports

import "go.trai.ch/glaze/internal/core/domain"

// Hasher computes pass keys.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// PassKey hashes the generated source, its engine and the optimize flag.
	// Equal content must produce equal keys.
	PassKey(src *domain.GeneratedSource, optimize bool) domain.PassKey
}
