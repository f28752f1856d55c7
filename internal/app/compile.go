package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/engine/pass"
	"go.trai.ch/glaze/internal/ui/style"
	"go.trai.ch/zerr"
)

// CompileOptions configures the Compile command.
type CompileOptions struct {
	Overrides
	// OutDir receives the compiled artifacts. Empty skips writing.
	OutDir string
}

type compileJob struct {
	material *domain.Material
	pass     *pass.Pass
	done     bool
}

// Compile compiles every material in paths, which may name files,
// directories or glob patterns. Materials compile concurrently
// on the background pool; an unoptimized first tier is upgraded before the
// artifacts are written.
func (a *App) Compile(ctx context.Context, paths []string, opts CompileOptions) error {
	s, err := a.settings(opts.Overrides)
	if err != nil {
		return err
	}
	paths, err = a.resolver.Resolve(paths)
	if err != nil {
		return err
	}
	cache, shutdown, err := a.open(ctx, s)
	if err != nil {
		return err
	}
	defer shutdown()

	jobs := make([]*compileJob, 0, len(paths))
	defer func() {
		for _, j := range jobs {
			cache.Release(j.pass)
		}
	}()

	for _, path := range paths {
		m, err := a.loadMaterial(path, s)
		if err != nil {
			return err
		}
		p, err := cache.GetOrCreate(ctx, pass.Request{
			Name:     m.Name,
			Graph:    m.Graph,
			Engine:   m.Engine,
			Optimize: s.Optimize,
			Compile:  pass.CompileAsync,
		})
		if err != nil {
			return zerr.With(err, "material", m.Name)
		}
		jobs = append(jobs, &compileJob{material: m, pass: p})
	}

	if err := a.waitAll(ctx, cache, jobs); err != nil {
		return err
	}

	failed := 0
	for _, j := range jobs {
		if cache.ShouldOptimize(j.pass) {
			cache.Compile(ctx, j.pass, j.material.Name)
		}
		if !a.report(cache, j, opts.OutDir) {
			failed++
		}
	}

	stats := cache.Stats()
	a.logger.Debug(fmt.Sprintf("pass cache: %d hits, %d misses, %d live", stats.Hits, stats.Misses, stats.Live))
	if failed > 0 {
		err := zerr.Wrap(ErrMaterialsFailed, fmt.Sprintf("%d of %d", failed, len(jobs)))
		return zerr.With(err, "failed", failed)
	}
	return nil
}

// waitAll polls until every job has finalized.
func (a *App) waitAll(ctx context.Context, cache *pass.Cache, jobs []*compileJob) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		pending := 0
		for _, j := range jobs {
			if j.done {
				continue
			}
			if cache.TryFinalize(j.pass) || cache.Status(j.pass) != domain.PassCompiling {
				j.done = true
				continue
			}
			pending++
		}
		if pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// report prints the outcome of one job and writes its artifacts.
func (a *App) report(cache *pass.Cache, j *compileJob, outDir string) bool {
	name := j.material.Name
	shader := cache.ShaderOf(j.pass)
	if shader == nil {
		_, _ = fmt.Fprintf(a.out, "%s %s %s\n", style.Cross, name, style.Muted.Render(j.pass.Key().String()))
		for line := range strings.Lines(cache.Log(j.pass)) {
			_, _ = fmt.Fprintf(a.out, "    %s", line)
		}
		_, _ = fmt.Fprintln(a.out)
		if fb := cache.Fallback(); fb != nil {
			a.logger.Warn(fmt.Sprintf("%s: using fallback shader %s", name, fb.Label))
		}
		return false
	}

	variant := "fast"
	if shader.Optimized {
		variant = "optimized"
	}
	_, _ = fmt.Fprintf(a.out, "%s %s %s %s %s\n",
		style.Check, name, style.Muted.Render(j.pass.Key().String()), shader.Target, variant)
	if shader.Info != "" {
		a.logger.Info(shader.Info)
	}

	if outDir == "" {
		return true
	}
	files, err := writeArtifacts(outDir, name, shader)
	if err != nil {
		a.logger.Error(err)
		return false
	}
	for _, f := range files {
		_, _ = fmt.Fprintf(a.out, "    %s\n", f)
	}
	return true
}
