package codegen

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/glaze/internal/core/ports"
)

const (
	// RegistryNodeID is the unique identifier for the kind registry Graft node.
	RegistryNodeID graft.ID = "engine.codegen.registry"
	// NodeID is the unique identifier for the node catalog Graft node.
	NodeID graft.ID = "engine.codegen.catalog"
	// GeneratorNodeID is the unique identifier for the generator Graft node.
	GeneratorNodeID graft.ID = "engine.codegen.generator"
)

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Registry, error) {
			return DefaultRegistry(), nil
		},
	})

	graft.Register(graft.Node[ports.NodeCatalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RegistryNodeID},
		Run: func(ctx context.Context) (ports.NodeCatalog, error) {
			registry, err := graft.Dep[*Registry](ctx)
			if err != nil {
				return nil, err
			}
			return registry, nil
		},
	})

	graft.Register(graft.Node[*Generator]{
		ID:        GeneratorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RegistryNodeID},
		Run: func(ctx context.Context) (*Generator, error) {
			registry, err := graft.Dep[*Registry](ctx)
			if err != nil {
				return nil, err
			}
			return NewGenerator(registry), nil
		},
	})
}
