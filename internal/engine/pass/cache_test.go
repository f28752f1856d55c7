package pass_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/engine/pass"
	"go.uber.org/mock/gomock"
)

func TestCache_GetOrCreateSync(t *testing.T) {
	mod, c, m := openModule(t, pass.Options{Target: domain.TargetSPIRV})
	m.compiler.EXPECT().Compile(gomock.Any(), named("grey", false)).DoAndReturn(compiled).Times(1)

	p, err := c.GetOrCreate(context.Background(), pass.Request{
		Name:    "grey",
		Graph:   colorGraph(t, 0.8, 0.8, 0.8),
		Engine:  domain.EngineEEVEE,
		Compile: pass.CompileSync,
	})
	require.NoError(t, err)

	shader := c.ShaderOf(p)
	require.NotNil(t, shader)
	assert.Equal(t, "grey", shader.Label)
	assert.Equal(t, domain.TargetSPIRV, shader.Target)
	assert.NotZero(t, shader.ID)
	assert.Equal(t, domain.PassReady, c.Status(p))
	assert.Equal(t, 1, c.Refs(p))
	assert.Contains(t, p.Source().Stages[domain.StageFragment], "vec4<f32>(0.8, 0.8, 0.8, 1.0)")
	assert.Equal(t, pass.Stats{Hits: 0, Misses: 1, Live: 1}, c.Stats())

	c.Release(p)
	assert.Equal(t, 0, c.Len())
	mod.Exit()
}

func TestCache_SameContentSharesPass(t *testing.T) {
	mod, c, m := openModule(t, pass.Options{})
	m.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(compiled).Times(1)

	req := pass.Request{Graph: colorGraph(t, 0.2, 0.4, 0.6), Engine: domain.EngineEEVEE, Compile: pass.CompileSync}
	first, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)

	req.Graph = colorGraph(t, 0.2, 0.4, 0.6)
	second, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 2, c.Refs(first))
	assert.Equal(t, pass.Stats{Hits: 1, Misses: 1, Live: 1}, c.Stats())

	req.Graph = colorGraph(t, 0.1, 0.1, 0.1)
	req.Compile = pass.CompileNone
	other, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.NotEqual(t, first.Key(), other.Key())
	assert.Equal(t, domain.PassIdle, c.Status(other))

	c.Release(first)
	c.Release(second)
	c.Release(other)
	mod.Exit()
}

func TestCache_ConcurrentGetOrCreate(t *testing.T) {
	const callers = 16

	mod, c, m := openModule(t, pass.Options{})
	m.compiler.EXPECT().Compile(gomock.Any(), named("shared", false)).DoAndReturn(compiled).Times(1)

	passes := make([]*pass.Pass, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Go(func() {
			p, err := c.GetOrCreate(context.Background(), pass.Request{
				Name:    "shared",
				Graph:   colorGraph(t, 0.8, 0.8, 0.8),
				Engine:  domain.EngineEEVEE,
				Compile: pass.CompileSync,
			})
			assert.NoError(t, err)
			passes[i] = p
		})
	}
	wg.Wait()

	for _, p := range passes {
		assert.Same(t, passes[0], p)
	}
	assert.Equal(t, callers, c.Refs(passes[0]))
	assert.Equal(t, 1, c.Len())
	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(callers-1), stats.Hits)
	assert.NotNil(t, c.ShaderOf(passes[0]))

	for _, p := range passes {
		c.Release(p)
	}
	assert.Equal(t, 0, c.Len())
	mod.Exit()
}

func TestCache_GraphErrorCreatesNoPass(t *testing.T) {
	mod, c, _ := openModule(t, pass.Options{})

	p, err := c.GetOrCreate(context.Background(), pass.Request{
		Graph:   cycleGraph(t),
		Engine:  domain.EngineEEVEE,
		Compile: pass.CompileSync,
	})

	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrCyclicGraph)
	assert.True(t, domain.IsGraphError(err))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, pass.Stats{}, c.Stats())
	mod.Exit()
}

func TestCache_ReferenceCounting(t *testing.T) {
	mod, c, _ := openModule(t, pass.Options{})
	req := pass.Request{Graph: colorGraph(t, 1, 0, 0), Engine: domain.EngineEEVEE}

	p, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)
	c.Acquire(p)
	c.Acquire(p)
	assert.Equal(t, 3, c.Refs(p))

	c.Release(p)
	c.Release(p)
	found, ok := c.Lookup(p.Key())
	require.True(t, ok)
	assert.Same(t, p, found)

	c.Release(p)
	_, ok = c.Lookup(p.Key())
	assert.False(t, ok)
	assert.Nil(t, c.ShaderOf(p))

	requirePanicsWith(t, domain.ErrPassReleased, func() { c.Release(p) })
	requirePanicsWith(t, domain.ErrPassReleased, func() { c.Acquire(p) })

	again, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)
	assert.NotSame(t, p, again)
	assert.Equal(t, p.Key(), again.Key())
	assert.Equal(t, uint64(2), c.Stats().Misses)

	c.Release(again)
	mod.Exit()
}

func TestCache_LookupBetweenAcquireAndRelease(t *testing.T) {
	mod, c, _ := openModule(t, pass.Options{})
	req := pass.Request{Graph: colorGraph(t, 0, 1, 0), Engine: domain.EngineEEVEE}

	p, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)
	c.Acquire(p)

	shared, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, p, shared)
	assert.Equal(t, 3, c.Refs(p))

	c.Release(p)
	c.Release(p)
	assert.Equal(t, 1, c.Len())
	c.Release(shared)
	assert.Equal(t, 0, c.Len())
	mod.Exit()
}

func TestCache_SourceDump(t *testing.T) {
	mod, m := newModule(t, pass.Options{}, true)
	m.compiler.EXPECT().Compile(gomock.Any(), named("fallback", true)).DoAndReturn(compiled)
	require.NoError(t, mod.Init(context.Background()))
	c := mod.Cache()

	m.store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ domain.PassKey, src *domain.GeneratedSource) (string, error) {
			assert.Contains(t, src.Stages[domain.StageFragment], "fs_main")
			return "sha256:abc", nil
		},
	).Times(1)

	req := pass.Request{Graph: colorGraph(t, 0.5, 0.5, 0.5), Engine: domain.EngineEEVEE}
	first, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)
	second, err := c.GetOrCreate(context.Background(), req)
	require.NoError(t, err)

	c.Release(first)
	c.Release(second)
	mod.Exit()
}

func TestCache_Fallback(t *testing.T) {
	mod, c, _ := openModule(t, pass.Options{Target: domain.TargetGLSL})

	fb := c.Fallback()
	require.NotNil(t, fb)
	assert.Equal(t, "fallback", fb.Label)
	assert.True(t, fb.Optimized)
	assert.Equal(t, domain.TargetGLSL, fb.Target)
	mod.Exit()
}
