package pass

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/engine/codegen"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// CompileMode selects the compilation started when a pass is created.
type CompileMode uint8

const (
	// CompileNone creates the pass without compiling it.
	CompileNone CompileMode = iota
	// CompileSync compiles before GetOrCreate returns.
	CompileSync
	// CompileAsync starts a background compilation.
	CompileAsync
)

// Options configures a Cache.
type Options struct {
	// Engine is used for the warm-up shader.
	Engine domain.Engine
	// Target is the compiled output format.
	Target domain.Target
	// TwoTier generates the optimized source next to every unoptimized pass.
	TwoTier bool
	// Workers bounds concurrent background compilations.
	Workers int
}

// Request describes the pass a caller wants.
type Request struct {
	// Name labels the pass and its shaders. Defaults to the pass key.
	Name     string
	Graph    *domain.NodeGraph
	Engine   domain.Engine
	Finalize codegen.FinalizeFunc
	Optimize bool
	Compile  CompileMode
}

// Stats counts registry activity.
type Stats struct {
	Hits   uint64
	Misses uint64
	Live   int
}

// Cache is the registry of passes. It is created and torn down by Module.
type Cache struct {
	generator *codegen.Generator
	hasher    ports.Hasher
	compiler  ports.ShaderCompiler
	tracer    ports.Tracer
	logger    ports.Logger
	store     ports.SourceStore
	opts      Options

	// ctx is the context background compilations run under.
	ctx   context.Context
	alive atomic.Bool

	mu     sync.Mutex
	passes map[domain.PassKey]*Pass
	group  singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	nextID atomic.Uint64

	jobs errgroup.Group
	sem  *semaphore.Weighted

	fallback *domain.Shader
}

func newCache(ctx context.Context, m *Module) *Cache {
	workers := m.opts.Workers
	if workers < 1 {
		workers = 1
	}
	c := &Cache{
		generator: m.generator,
		hasher:    m.hasher,
		compiler:  m.compiler,
		tracer:    m.tracer,
		logger:    m.logger,
		store:     m.store,
		opts:      m.opts,
		ctx:       ctx,
		passes:    make(map[domain.PassKey]*Pass),
		sem:       semaphore.NewWeighted(int64(workers)),
	}
	c.alive.Store(true)
	return c
}

// check panics when the cache is used outside of its module lifetime.
func (c *Cache) check(op string) {
	if c == nil || !c.alive.Load() {
		panic(zerr.With(zerr.Wrap(domain.ErrLifecycle, "pass cache is closed"), "op", op))
	}
}

// GetOrCreate returns the pass for the request, creating it on first use.
// Generation errors are returned before the registry is touched.
// Concurrent requests for one key share a single pass, and only the
// creating request starts the compilation asked for.
// The returned pass is acquired once; the caller must Release it.
func (c *Cache) GetOrCreate(ctx context.Context, req Request) (*Pass, error) {
	c.check("GetOrCreate")

	ctx, span := c.tracer.Start(ctx, "generate",
		ports.WithAttribute("engine", string(req.Engine)),
		ports.WithAttribute("optimize", req.Optimize),
	)
	src, err := c.generator.Generate(req.Graph, req.Engine, req.Finalize, req.Optimize)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	key := c.hasher.PassKey(src, req.Optimize)
	span.SetAttribute("pass", key.String())
	span.End()

	for {
		created := false
		v, err, _ := c.group.Do(key.String(), func() (any, error) {
			p, isNew, err := c.lookupOrCreate(ctx, key, src, req)
			created = isNew
			return p, err
		})
		if err != nil {
			return nil, err
		}
		p := v.(*Pass)
		if !created {
			c.hits.Add(1)
		}
		if p.retain() {
			return p, nil
		}
		// The pass was destroyed between lookup and retain; look it up again.
	}
}

func (c *Cache) lookupOrCreate(
	ctx context.Context,
	key domain.PassKey,
	src *domain.GeneratedSource,
	req Request,
) (*Pass, bool, error) {
	c.mu.Lock()
	if p, ok := c.passes[key]; ok {
		c.mu.Unlock()
		return p, false, nil
	}
	c.mu.Unlock()

	name := req.Name
	if name == "" {
		name = "pass-" + key.String()
	}
	p := &Pass{key: key, name: name, optimize: req.Optimize, source: src}

	if !req.Optimize && c.opts.TwoTier {
		opt, err := c.generator.Generate(req.Graph, req.Engine, req.Finalize, true)
		if err != nil {
			return nil, false, err
		}
		if !opt.Equal(src) {
			p.optimized = opt
			p.optimizeRequested = true
		}
	}

	if c.store != nil {
		if digest, err := c.store.Put(key, src); err != nil {
			c.logger.Warn("could not dump generated source for pass " + key.String() + ": " + err.Error())
		} else {
			c.logger.Debug("dumped pass " + key.String() + " as " + digest)
		}
	}

	c.mu.Lock()
	c.passes[key] = p
	c.mu.Unlock()
	c.misses.Add(1)
	c.logger.Debug("created pass " + key.String())

	switch req.Compile {
	case CompileSync:
		c.compileSync(ctx, p, name)
	case CompileAsync:
		c.beginAsync(p, name)
	case CompileNone:
	}
	return p, true, nil
}

// retain increments the reference count unless the pass is already destroyed.
func (p *Pass) retain() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return false
	}
	p.refs++
	p.orphaned = false
	return true
}

// Acquire adds a reference to p. Acquiring a destroyed pass panics.
func (c *Cache) Acquire(p *Pass) {
	c.check("Acquire")
	if !p.retain() {
		panic(zerr.With(zerr.Wrap(domain.ErrPassReleased, ""), "pass", p.key.String()))
	}
}

// Release drops a reference to p. The last release destroys the pass and
// its shader, unless a compilation is in flight: the pass is then kept as an
// orphan until TryFinalize or Sweep observes the job's end.
// Releasing more often than acquiring panics.
func (c *Cache) Release(p *Pass) {
	c.check("Release")

	c.mu.Lock()
	defer c.mu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refs <= 0 || p.destroyed {
		panic(zerr.With(zerr.Wrap(domain.ErrPassReleased, ""), "pass", p.key.String()))
	}
	p.refs--
	if p.refs > 0 {
		return
	}
	if p.job != nil {
		p.orphaned = true
		return
	}
	c.destroyLocked(p)
}

// destroyLocked removes p from the registry. Both c.mu and p.mu must be held.
func (c *Cache) destroyLocked(p *Pass) {
	if c.passes[p.key] == p {
		delete(c.passes, p.key)
	}
	p.destroyed = true
	p.orphaned = false
	p.job = nil
	p.shader.Store(nil)
	c.logger.Debug("destroyed pass " + p.key.String())
}

// Sweep destroys orphaned passes whose compilation has ended and returns how many it reclaimed.
// A pass waiting on FinalizeCompilation is left alone; finalizing reclaims it.
func (c *Cache) Sweep() int {
	c.check("Sweep")
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, p := range c.passes {
		p.mu.Lock()
		if p.orphaned && p.refs == 0 && (p.job == nil || p.job.state.Terminal()) {
			c.destroyLocked(p)
			n++
		}
		p.mu.Unlock()
	}
	return n
}

// ShouldOptimize reports whether p runs an unoptimized shader while an
// optimized variant is wanted and no compilation is pending.
func (c *Cache) ShouldOptimize(p *Pass) bool {
	c.check("ShouldOptimize")
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shouldOptimizeLocked()
}

func (p *Pass) shouldOptimizeLocked() bool {
	return p.optimizeRequested &&
		p.job == nil &&
		!p.liveOptimized &&
		p.shader.Load() != nil
}

// ShaderOf returns the live shader of p, or nil if none is installed.
// Swaps are atomic: readers see either the previous or the next shader.
func (c *Cache) ShaderOf(p *Pass) *domain.Shader {
	c.check("ShaderOf")
	return p.shader.Load()
}

// Log returns the compiler output of the last finalized compilation.
// It is non-empty after a failure.
func (c *Cache) Log(p *Pass) string {
	c.check("Log")
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.log
}

// Status summarizes p for display.
func (c *Cache) Status(p *Pass) domain.PassStatus {
	c.check("Status")
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.job != nil:
		return domain.PassCompiling
	case p.shader.Load() != nil:
		return domain.PassReady
	case p.failed:
		return domain.PassFailed
	default:
		return domain.PassIdle
	}
}

// Refs returns the reference count of p.
func (c *Cache) Refs(p *Pass) int {
	c.check("Refs")
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refs
}

// Lookup returns the live pass registered under key without acquiring it.
func (c *Cache) Lookup(key domain.PassKey) (*Pass, bool) {
	c.check("Lookup")
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.passes[key]
	return p, ok
}

// Len returns the number of registered passes.
func (c *Cache) Len() int {
	c.check("Len")
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.passes)
}

// Stats returns registry counters.
func (c *Cache) Stats() Stats {
	c.check("Stats")
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Live:   c.Len(),
	}
}

// Fallback returns the warm-up shader to draw with while a pass has no shader.
func (c *Cache) Fallback() *domain.Shader {
	c.check("Fallback")
	return c.fallback
}

// close waits for background compilations and destroys every remaining pass.
func (c *Cache) close() {
	_ = c.jobs.Wait()

	c.mu.Lock()
	leftover := 0
	for _, p := range c.passes {
		p.mu.Lock()
		c.destroyLocked(p)
		p.mu.Unlock()
		leftover++
	}
	c.mu.Unlock()

	if leftover > 0 {
		c.logger.Warn(fmt.Sprintf("reclaimed %d passes still alive at exit", leftover))
	}
	c.alive.Store(false)
}
