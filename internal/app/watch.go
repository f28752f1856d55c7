package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/glaze/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/engine/pass"
	"go.trai.ch/glaze/internal/ui/style"
	"go.trai.ch/zerr"
)

// WatchOptions configures the Watch command.
type WatchOptions struct {
	Overrides
	// Debounce coalesces bursts of file events. Zero uses the watcher default.
	Debounce time.Duration
}

// session tracks the live pass of a watched material.
type session struct {
	cache    *pass.Cache
	settings *domain.Settings
	name     string
	current  *pass.Pass
	reported bool
}

// Watch compiles the material at path and recompiles it whenever the file
// changes. Fast shaders come first; optimized upgrades replace them in the
// background. It returns when ctx is canceled.
func (a *App) Watch(ctx context.Context, path string, opts WatchOptions) error {
	s, err := a.settings(opts.Overrides)
	if err != nil {
		return err
	}
	cache, shutdown, err := a.open(ctx, s)
	if err != nil {
		return err
	}
	defer shutdown()

	sess := &session{cache: cache, settings: s}
	defer sess.release()
	if err := a.reload(ctx, sess, path); err != nil {
		a.logger.Error(err)
	}

	if err := a.watcher.Start(ctx, path); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	defer func() { _ = a.watcher.Stop() }()

	changed := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(opts.Debounce, func([]string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	go func() {
		for ev := range a.watcher.Events() {
			if ev.Operation == ports.OpRemove {
				continue
			}
			debouncer.Add(ev.Path)
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := a.reload(ctx, sess, path); err != nil {
				a.logger.Error(err)
			}
		case <-ticker.C:
			a.poll(sess)
		}
	}
}

// reload loads the material and swaps in its pass. The previous pass is
// released; if it is still compiling the next poll reclaims it.
func (a *App) reload(ctx context.Context, sess *session, path string) error {
	m, err := a.loadMaterial(path, sess.settings)
	if err != nil {
		return err
	}
	p, err := sess.cache.GetOrCreate(ctx, pass.Request{
		Name:     m.Name,
		Graph:    m.Graph,
		Engine:   m.Engine,
		Optimize: sess.settings.Optimize,
		Compile:  pass.CompileAsync,
	})
	if err != nil {
		return zerr.With(err, "material", m.Name)
	}

	if sess.current == p {
		sess.cache.Release(p)
		return nil
	}
	sess.release()
	sess.current = p
	sess.name = m.Name
	sess.reported = false
	a.logger.Info(fmt.Sprintf("compiling %s", m.Name))
	return nil
}

// poll installs finished compilations and starts pending optimized upgrades.
// Passes released while compiling are reclaimed here once their job ends.
func (a *App) poll(sess *session) {
	if n := sess.cache.Sweep(); n > 0 {
		a.logger.Debug(fmt.Sprintf("swept %d orphaned passes", n))
	}
	p := sess.current
	if p == nil {
		return
	}
	c := sess.cache

	finalized := c.TryFinalize(p)
	if !finalized && sess.reported {
		return
	}
	switch c.Status(p) {
	case domain.PassCompiling:
		return
	case domain.PassReady:
		shader := c.ShaderOf(p)
		variant := "fast"
		if shader.Optimized {
			variant = "optimized"
		}
		_, _ = fmt.Fprintf(a.out, "%s %s %s %s\n", style.Check, sess.name, style.Muted.Render(p.Key().String()), variant)
	case domain.PassFailed:
		_, _ = fmt.Fprintf(a.out, "%s %s %s\n%s\n", style.Cross, sess.name, style.Muted.Render(p.Key().String()), c.Log(p))
	case domain.PassIdle:
		return
	}
	sess.reported = true

	if c.ShouldOptimize(p) {
		c.BeginAsyncCompile(p, sess.name)
		sess.reported = false
	}
}

func (s *session) release() {
	if s.current != nil {
		s.cache.Release(s.current)
		s.current = nil
	}
}
