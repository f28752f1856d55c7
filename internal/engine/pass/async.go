package pass

import (
	"go.trai.ch/glaze/internal/core/ports"
)

// BeginAsyncCompile starts compiling p in the background and returns immediately.
// Poll TryFinalize to install the result. Starting while another
// compilation of p is pending panics.
func (c *Cache) BeginAsyncCompile(p *Pass, name string) {
	c.check("BeginAsyncCompile")
	c.beginAsync(p, name)
}

func (c *Cache) beginAsync(p *Pass, name string) {
	j := c.begin(p, name, false)
	c.logger.Debug("queued compilation of pass " + p.key.String())

	c.jobs.Go(func() error {
		if err := c.sem.Acquire(c.ctx, 1); err != nil {
			c.complete(p, j, nil, err)
			return nil
		}
		defer c.sem.Release(1)

		shader, err := c.run(c.ctx, p, j.info)
		c.complete(p, j, shader, err)
		return nil
	})
}

// TryFinalize polls the background compilation of p without blocking.
// It returns true exactly once per compilation, when the job has ended,
// and installs the shader on success. Callers tell success from failure by
// ShaderOf. Later polls return false.
func (c *Cache) TryFinalize(p *Pass) bool {
	c.check("TryFinalize")

	p.mu.Lock()
	custom := p.job != nil && p.job.custom
	p.mu.Unlock()
	if custom {
		return false
	}

	_, span := c.tracer.Start(c.ctx, "finalize", ports.WithAttribute("pass", p.key.String()))
	defer span.End()

	done := c.finalize(p)
	span.SetAttribute("finalized", done)
	return done
}
