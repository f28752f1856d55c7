package naga

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/glaze/internal/adapters/logger"
	"go.trai.ch/glaze/internal/core/ports"
)

// NodeID is the unique identifier for the shader compiler Graft node.
const NodeID graft.ID = "adapter.compiler"

func init() {
	graft.Register(graft.Node[ports.ShaderCompiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ShaderCompiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCompiler(log), nil
		},
	})
}
