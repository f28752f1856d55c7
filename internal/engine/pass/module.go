package pass

import (
	"context"
	"sync"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/engine/codegen"
	"go.trai.ch/zerr"
)

type moduleState uint8

const (
	moduleNew moduleState = iota
	moduleOpen
	moduleClosed
)

// Module owns the process-wide compilation resources. Init must run once
// before the cache is used and Exit once after every pass is released.
type Module struct {
	generator *codegen.Generator
	hasher    ports.Hasher
	compiler  ports.ShaderCompiler
	tracer    ports.Tracer
	logger    ports.Logger
	store     ports.SourceStore
	opts      Options

	mu    sync.Mutex
	state moduleState
	cache *Cache
}

// NewModule creates a module. store may be nil.
func NewModule(
	generator *codegen.Generator,
	hasher ports.Hasher,
	compiler ports.ShaderCompiler,
	tracer ports.Tracer,
	logger ports.Logger,
	store ports.SourceStore,
	opts Options,
) *Module {
	if opts.Engine == "" {
		opts.Engine = domain.EngineEEVEE
	}
	return &Module{
		generator: generator,
		hasher:    hasher,
		compiler:  compiler,
		tracer:    tracer,
		logger:    logger,
		store:     store,
		opts:      opts,
	}
}

func lifecycleError(op string, state moduleState) error {
	names := map[moduleState]string{moduleNew: "new", moduleOpen: "open", moduleClosed: "closed"}
	err := zerr.Wrap(domain.ErrLifecycle, "invalid module transition")
	return zerr.With(zerr.With(err, "op", op), "state", names[state])
}

// Init creates the cache and compiles the warm-up shader.
// A compile failure is returned and leaves the module uninitialized.
// Calling Init twice panics.
func (m *Module) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != moduleNew {
		panic(lifecycleError("Init", m.state))
	}

	c := newCache(context.WithoutCancel(ctx), m)
	fallback, err := m.warmUp(ctx, c)
	if err != nil {
		c.alive.Store(false)
		return zerr.Wrap(err, "failed to compile warm-up shader")
	}
	c.fallback = fallback

	m.cache = c
	m.state = moduleOpen
	m.logger.Debug("pass module initialized")
	return nil
}

// warmUp compiles a flat magenta material, which also primes the compiler.
func (m *Module) warmUp(ctx context.Context, c *Cache) (*domain.Shader, error) {
	g := domain.NewNodeGraph()
	err := g.AddNode(&domain.Node{
		Name:    domain.NewInternedString("fallback"),
		Kind:    codegen.KindRGB,
		Inputs:  []domain.Socket{domain.NewSocket("color", domain.SocketColor, domain.RGBA(1, 0, 1, 1))},
		Outputs: []domain.Socket{domain.NewSocket("color", domain.SocketColor, domain.Value{})},
	})
	if err != nil {
		return nil, err
	}

	src, err := m.generator.Generate(g, m.opts.Engine, nil, true)
	if err != nil {
		return nil, err
	}
	info := &domain.ShaderCreateInfo{
		Name:      "fallback",
		Key:       m.hasher.PassKey(src, true),
		Engine:    src.Engine,
		Target:    m.opts.Target,
		Sources:   src.Stages,
		Resources: src.Resources,
		Optimize:  true,
	}

	ctx, span := m.tracer.Start(ctx, "warm-up")
	defer span.End()
	shader, err := m.compiler.Compile(ctx, info)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	shader.ID = c.nextID.Add(1)
	return shader, nil
}

// Cache returns the pass cache. It panics outside of the Init/Exit window.
func (m *Module) Cache() *Cache {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != moduleOpen {
		panic(lifecycleError("Cache", m.state))
	}
	return m.cache
}

// Exit waits for background compilations and destroys every remaining pass.
// Passes still referenced are reclaimed with a warning. Calling Exit
// before Init or twice panics.
func (m *Module) Exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != moduleOpen {
		panic(lifecycleError("Exit", m.state))
	}
	m.cache.close()
	m.cache = nil
	m.state = moduleClosed
	m.logger.Debug("pass module closed")
}
