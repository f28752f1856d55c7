package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/glaze/internal/adapters/telemetry"
	"go.trai.ch/glaze/internal/app"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(t *testing.T) (*app.Components, *mocks.MockConfigLoader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	a := app.New(loader, log, nil, mocks.NewMockHasher(ctrl), mocks.NewMockShaderCompiler(ctrl),
		telemetry.NewNoOpTracer(), mocks.NewMockWatcher(ctrl), mocks.NewMockMaterialResolver(ctrl))
	return &app.Components{App: a, Logger: log}, loader, log
}

func TestRun_Success(t *testing.T) {
	components, _, _ := newComponents(t)
	provider := func(context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	assert.Equal(t, 0, run(context.Background(), []string{"version"}, stderr, provider))
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, run(context.Background(), []string{"version"}, stderr, provider))
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	components, loader, log := newComponents(t)
	loader.EXPECT().LoadSettings(".").Return(nil, errors.New("load failed"))
	log.EXPECT().Error(gomock.Any()).Times(1)

	provider := func(context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exit := run(context.Background(), []string{"compile", "a.yaml"}, stderr, provider, func(a *app.App) {
		a.WithoutOTel()
	})
	assert.Equal(t, 1, exit)
}

func TestRun_CompileFailureIsNotLoggedTwice(t *testing.T) {
	components, loader, _ := newComponents(t)
	loader.EXPECT().LoadSettings(".").Return(nil, app.ErrMaterialsFailed)

	provider := func(context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exit := run(context.Background(), []string{"compile", "a.yaml"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exit)
}

func TestRun_ShaderCompileErrorIsLogged(t *testing.T) {
	components, loader, log := newComponents(t)
	loader.EXPECT().LoadSettings(".").Return(nil, domain.Wrap(domain.ErrCompileFailed, errors.New("no adapter")))
	log.EXPECT().Error(gomock.Cond(func(x any) bool {
		err, ok := x.(error)
		return ok && errors.Is(err, domain.ErrCompileFailed)
	})).Times(1)

	provider := func(context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exit := run(context.Background(), []string{"compile", "a.yaml"}, new(bytes.Buffer), provider, func(a *app.App) {
		a.WithoutOTel()
	})
	assert.Equal(t, 1, exit)
}
