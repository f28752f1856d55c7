package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/glaze/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/digest"    //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/naga"      //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/engine/codegen"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			codegen.GeneratorNodeID,
			digest.NodeID,
			naga.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			fs.ResolverNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	generator, err := graft.Dep[*codegen.Generator](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	compiler, err := graft.Dep[ports.ShaderCompiler](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.MaterialResolver](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, log, generator, hasher, compiler, tracer, w, resolver), nil
}
