package ports

import "go.trai.ch/glaze/internal/core/domain"

// NodeCatalog knows the socket layout of every node kind.
type NodeCatalog interface {
	// Instantiate creates a node of kind with its declared sockets and defaults.
	Instantiate(name string, kind domain.NodeKind) (*domain.Node, error)
}
