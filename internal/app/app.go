// Package app implements the application layer for glaze.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/glaze/internal/adapters/cas" //nolint:depguard // Wired in app layer
	"go.trai.ch/glaze/internal/adapters/telemetry"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/engine/codegen"
	"go.trai.ch/glaze/internal/engine/pass"
	"go.trai.ch/zerr"
)

// pollInterval is how often pending background compilations are polled.
const pollInterval = 20 * time.Millisecond

// ErrMaterialsFailed is returned by Compile when at least one material did
// not compile. Each failure has already been printed with its log.
var ErrMaterialsFailed = zerr.New("materials failed to compile")

// App represents the main application logic.
type App struct {
	loader    ports.ConfigLoader
	logger    ports.Logger
	generator *codegen.Generator
	hasher    ports.Hasher
	compiler  ports.ShaderCompiler
	tracer    ports.Tracer
	watcher   ports.Watcher
	resolver  ports.MaterialResolver
	out       io.Writer
	otel      bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	generator *codegen.Generator,
	hasher ports.Hasher,
	compiler ports.ShaderCompiler,
	tracer ports.Tracer,
	watcher ports.Watcher,
	resolver ports.MaterialResolver,
) *App {
	return &App{
		loader:    loader,
		logger:    log,
		generator: generator,
		hasher:    hasher,
		compiler:  compiler,
		tracer:    tracer,
		watcher:   watcher,
		resolver:  resolver,
		out:       os.Stdout,
		otel:      true,
	}
}

// WithOutput redirects command output. Used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithoutOTel leaves the global tracer provider untouched. Used for testing.
func (a *App) WithoutOTel() *App {
	a.otel = false
	return a
}

// Overrides are command line values that take precedence over glaze.yaml.
// Zero values keep the file's setting.
type Overrides struct {
	Dir       string
	Engine    string
	Target    string
	Optimize  *bool
	NoTwoTier bool
	Workers   int
	DumpDir   string
}

// configurable is implemented by loggers that follow the log settings.
type configurable interface {
	Configure(s *domain.Settings) error
}

// settings loads glaze.yaml and applies o.
func (a *App) settings(o Overrides) (*domain.Settings, error) {
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	s, err := a.loader.LoadSettings(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}

	if o.Engine != "" {
		if s.Engine, err = domain.ParseEngine(o.Engine); err != nil {
			return nil, err
		}
	}
	if o.Target != "" {
		if s.Target, err = domain.ParseTarget(o.Target); err != nil {
			return nil, err
		}
	}
	if o.Optimize != nil {
		s.Optimize = *o.Optimize
	}
	if o.NoTwoTier {
		s.TwoTier = false
	}
	if o.Workers > 0 {
		s.Workers = o.Workers
	}
	if o.DumpDir != "" {
		s.DumpDir = o.DumpDir
	}

	if c, ok := a.logger.(configurable); ok {
		if err := c.Configure(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// open starts a pass module for s. The returned function shuts it down.
func (a *App) open(ctx context.Context, s *domain.Settings) (*pass.Cache, func(), error) {
	var shutdownOTel func()
	if a.otel {
		shutdownOTel = setupOTel(telemetry.NewBridge(a.logger))
	}

	var store ports.SourceStore
	if s.DumpDir != "" {
		st, err := cas.NewStore(s.DumpDir)
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to open source dump")
		}
		store = st
	}

	mod := pass.NewModule(a.generator, a.hasher, a.compiler, a.tracer, a.logger, store, pass.Options{
		Engine:  s.Engine,
		Target:  s.Target,
		TwoTier: s.TwoTier,
		Workers: s.Workers,
	})
	if err := mod.Init(ctx); err != nil {
		if shutdownOTel != nil {
			shutdownOTel()
		}
		return nil, nil, err
	}

	return mod.Cache(), func() {
		mod.Exit()
		if shutdownOTel != nil {
			shutdownOTel()
		}
	}, nil
}

// setupOTel installs an SDK tracer provider that reports spans through bridge.
func setupOTel(bridge *telemetry.Bridge) func() {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	return func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	}
}

// loadMaterial reads a material and resolves its engine against s.
func (a *App) loadMaterial(path string, s *domain.Settings) (*domain.Material, error) {
	m, err := a.loader.LoadMaterial(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load material")
	}
	if m.Engine == "" {
		m.Engine = s.Engine
	}
	return m, nil
}

// extension is the artifact file extension per target and stage.
func extension(target domain.Target, stage domain.Stage) string {
	switch target {
	case domain.TargetGLSL:
		switch stage {
		case domain.StageVertex:
			return "vert"
		case domain.StageFragment:
			return "frag"
		default:
			return "comp"
		}
	case domain.TargetMSL:
		return "metal"
	case domain.TargetHLSL:
		return "hlsl"
	default:
		return "spv"
	}
}

// writeArtifacts writes every stage of shader to dir as <name>.<stage>.<ext>.
func writeArtifacts(dir, name string, shader *domain.Shader) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
	}

	stages := make([]domain.Stage, 0, len(shader.Artifacts))
	for st := range shader.Artifacts {
		stages = append(stages, st)
	}
	slices.Sort(stages)

	files := make([]string, 0, len(stages))
	for _, st := range stages {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s.%s", name, st, extension(shader.Target, st)))
		if err := os.WriteFile(path, shader.Artifacts[st], 0o600); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", path)
		}
		files = append(files, path)
	}
	return files, nil
}
