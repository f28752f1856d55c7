package pass_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/glaze/internal/adapters/digest"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/core/ports/mocks"
	"go.trai.ch/glaze/internal/engine/codegen"
	"go.trai.ch/glaze/internal/engine/pass"
	"go.uber.org/mock/gomock"
)

type passTestMocks struct {
	compiler *mocks.MockShaderCompiler
	logger   *mocks.MockLogger
	tracer   *mocks.MockTracer
	store    *mocks.MockSourceStore
}

// infoMatcher matches a ShaderCreateInfo by name and optimize flag.
type infoMatcher struct {
	name     string
	optimize bool
}

func (m infoMatcher) Matches(x any) bool {
	info, ok := x.(*domain.ShaderCreateInfo)
	return ok && info.Name == m.name && info.Optimize == m.optimize
}

func (m infoMatcher) String() string {
	return fmt.Sprintf("is create info %q (optimize=%v)", m.name, m.optimize)
}

func named(name string, optimize bool) gomock.Matcher {
	return infoMatcher{name: name, optimize: optimize}
}

func compiled(_ context.Context, info *domain.ShaderCreateInfo) (*domain.Shader, error) {
	return &domain.Shader{
		Label:     info.Name,
		Engine:    info.Engine,
		Target:    info.Target,
		Optimized: info.Optimize,
		Artifacts: map[domain.Stage][]byte{domain.StageFragment: []byte("ok")},
	}, nil
}

// newModule builds a module with mocked collaborators. The warm-up compile is
// expected once; Init is left to the caller.
func newModule(t *testing.T, opts pass.Options, withStore bool) (*pass.Module, passTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := passTestMocks{
		compiler: mocks.NewMockShaderCompiler(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
	}

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).Return(0, nil).AnyTimes()
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	m.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	var store ports.SourceStore
	if withStore {
		m.store = mocks.NewMockSourceStore(ctrl)
		store = m.store
	}

	generator := codegen.NewGenerator(codegen.DefaultRegistry())
	mod := pass.NewModule(generator, digest.NewHasher(), m.compiler, m.tracer, m.logger, store, opts)
	return mod, m
}

// openModule builds and initializes a module.
func openModule(t *testing.T, opts pass.Options) (*pass.Module, *pass.Cache, passTestMocks) {
	t.Helper()
	mod, m := newModule(t, opts, false)
	m.compiler.EXPECT().Compile(gomock.Any(), named("fallback", true)).DoAndReturn(compiled)
	require.NoError(t, mod.Init(context.Background()))
	return mod, mod.Cache(), m
}

func colorGraph(t *testing.T, r, g, b float64) *domain.NodeGraph {
	t.Helper()
	n, err := codegen.DefaultRegistry().Instantiate("color", codegen.KindRGB)
	require.NoError(t, err)
	n.Inputs[0].Default = domain.RGBA(r, g, b, 1)
	graph := domain.NewNodeGraph()
	require.NoError(t, graph.AddNode(n))
	return graph
}

func cycleGraph(t *testing.T) *domain.NodeGraph {
	t.Helper()
	r := codegen.DefaultRegistry()
	graph := domain.NewNodeGraph()
	for _, name := range []string{"A", "B"} {
		n, err := r.Instantiate(name, codegen.KindMath)
		require.NoError(t, err)
		require.NoError(t, graph.AddNode(n))
	}
	require.NoError(t, graph.Connect("A", "value", "B", "a"))
	require.NoError(t, graph.Connect("B", "value", "A", "a"))
	return graph
}

// requirePanicsWith runs fn and checks that it panics with an error matching target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}
