package pass

import (
	"context"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compile compiles p on the calling goroutine and installs the shader.
// It reports whether a shader was produced. Compiling while another
// compilation of p is pending panics.
func (c *Cache) Compile(ctx context.Context, p *Pass, name string) bool {
	c.check("Compile")
	return c.compileSync(ctx, p, name)
}

func (c *Cache) compileSync(ctx context.Context, p *Pass, name string) bool {
	j := c.begin(p, name, false)
	shader, err := c.run(ctx, p, j.info)
	c.complete(p, j, shader, err)
	c.finalize(p)
	return p.shader.Load() != nil
}

// BeginCompilation returns the descriptor of the variant that would be
// compiled next and marks p as compiling. The caller compiles it and hands
// the result to FinalizeCompilation.
func (c *Cache) BeginCompilation(p *Pass, name string) *domain.ShaderCreateInfo {
	c.check("BeginCompilation")
	return c.begin(p, name, true).info
}

// FinalizeCompilation ends a compilation started with BeginCompilation.
// A nil shader marks the compilation as failed. It reports whether shader was installed.
func (c *Cache) FinalizeCompilation(p *Pass, shader *domain.Shader) bool {
	c.check("FinalizeCompilation")

	p.mu.Lock()
	j, destroyed := p.job, p.destroyed
	p.mu.Unlock()
	if destroyed {
		panic(zerr.With(zerr.Wrap(domain.ErrPassReleased, ""), "pass", p.key.String()))
	}
	if j == nil || !j.custom {
		panic(zerr.With(zerr.Wrap(domain.ErrNoCustomCompilation, ""), "pass", p.key.String()))
	}

	var err error
	if shader == nil {
		err = zerr.With(zerr.Wrap(domain.ErrCompileFailed, ""), "reason", "custom compilation produced no shader")
	}
	c.complete(p, j, shader, err)
	c.finalize(p)
	return shader != nil && p.shader.Load() == shader
}

// begin starts a job on p for the variant selected now.
func (c *Cache) begin(p *Pass, name string, custom bool) *job {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.job != nil {
		panic(zerr.With(zerr.Wrap(domain.ErrCompileInFlight, ""), "pass", p.key.String()))
	}
	if p.destroyed {
		panic(zerr.With(zerr.Wrap(domain.ErrPassReleased, ""), "pass", p.key.String()))
	}

	upgrade := p.shouldOptimizeLocked()
	src, optimize := p.source, p.optimize
	if upgrade {
		src, optimize = p.optimized, true
	}
	if name == "" {
		name = p.name
	}

	j := &job{
		info: &domain.ShaderCreateInfo{
			Name:      name,
			Key:       p.key,
			Engine:    src.Engine,
			Target:    c.opts.Target,
			Sources:   src.Stages,
			Resources: src.Resources,
			Optimize:  optimize,
		},
		custom:  custom,
		upgrade: upgrade,
		state:   domain.JobPending,
	}
	p.job = j
	return j
}

// run invokes the compiler inside a span.
func (c *Cache) run(ctx context.Context, p *Pass, info *domain.ShaderCreateInfo) (*domain.Shader, error) {
	ctx, span := c.tracer.Start(ctx, "compile",
		ports.WithAttribute("pass", p.key.String()),
		ports.WithAttribute("optimize", info.Optimize),
		ports.WithAttribute("target", string(info.Target)),
	)
	defer span.End()

	shader, err := c.compiler.Compile(ctx, info)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if shader.Info != "" {
		_, _ = span.Write([]byte(shader.Info))
	}
	return shader, nil
}

// complete records the outcome of j. The result is installed by finalize.
func (c *Cache) complete(p *Pass, j *job, shader *domain.Shader, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil || shader == nil {
		j.state = domain.JobFailed
		j.log = "compilation failed"
		if err != nil {
			j.log = err.Error()
		}
		return
	}
	shader.ID = c.nextID.Add(1)
	j.state = domain.JobSucceeded
	j.shader = shader
	j.log = shader.Info
}

// finalize installs the result of a terminal job and reports whether there was one.
// An orphaned pass is destroyed once its job is finalized.
func (c *Cache) finalize(p *Pass) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	j := p.job
	if j == nil || !j.state.Terminal() {
		return false
	}
	p.job = nil
	p.log = j.log

	switch {
	case j.state == domain.JobSucceeded:
		p.shader.Store(j.shader)
		p.liveOptimized = j.info.Optimize
		p.failed = false
	case j.upgrade:
		// The unoptimized shader stays live; the upgrade is not retried.
		p.optimizeRequested = false
		c.logger.Warn("optimized recompile of pass " + p.key.String() + " failed, keeping unoptimized shader")
	default:
		p.shader.Store(nil)
		p.liveOptimized = false
		p.failed = true
	}

	if p.orphaned && p.refs == 0 {
		c.destroyLocked(p)
	}
	return true
}
