package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/glaze/cmd/glaze/commands"
	"go.trai.ch/glaze/internal/app"
	"go.trai.ch/glaze/internal/build"
)

type mockApp struct {
	compileFunc func(ctx context.Context, paths []string, opts app.CompileOptions) error
	inspectFunc func(ctx context.Context, path string, opts app.InspectOptions) error
	watchFunc   func(ctx context.Context, path string, opts app.WatchOptions) error
}

func (m *mockApp) Compile(ctx context.Context, paths []string, opts app.CompileOptions) error {
	if m.compileFunc != nil {
		return m.compileFunc(ctx, paths, opts)
	}
	return nil
}

func (m *mockApp) Inspect(ctx context.Context, path string, opts app.InspectOptions) error {
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, path, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, path string, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, path, opts)
	}
	return nil
}

func TestCommands_Compile(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.CompileOptions
		var paths []string
		mock := &mockApp{
			compileFunc: func(_ context.Context, p []string, opts app.CompileOptions) error {
				paths = p
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile", "a.yaml", "b.yaml",
			"-o", "out", "-t", "msl", "-e", "compositor", "-O", "-j", "4", "--no-two-tier", "--dump-dir", "dump", "-C", "proj"})
		require.NoError(t, cli.Execute(context.Background()))

		assert.Equal(t, []string{"a.yaml", "b.yaml"}, paths)
		assert.Equal(t, "out", captured.OutDir)
		assert.Equal(t, "msl", captured.Target)
		assert.Equal(t, "compositor", captured.Engine)
		require.NotNil(t, captured.Optimize)
		assert.True(t, *captured.Optimize)
		assert.Equal(t, 4, captured.Workers)
		assert.True(t, captured.NoTwoTier)
		assert.Equal(t, "dump", captured.DumpDir)
		assert.Equal(t, "proj", captured.Dir)
	})

	t.Run("unset optimize keeps settings", func(t *testing.T) {
		var captured app.CompileOptions
		mock := &mockApp{
			compileFunc: func(_ context.Context, _ []string, opts app.CompileOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile", "a.yaml"})
		require.NoError(t, cli.Execute(context.Background()))
		assert.Nil(t, captured.Optimize)
		assert.Equal(t, ".", captured.Dir)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile", "a.yaml"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("shows usage when no materials provided", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"compile"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "Usage:")
	})
}

func TestCommands_Inspect(t *testing.T) {
	var captured app.InspectOptions
	var path string
	mock := &mockApp{
		inspectFunc: func(_ context.Context, p string, opts app.InspectOptions) error {
			path = p
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"inspect", "glass.yaml", "--stage", "fragment"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "glass.yaml", path)
	assert.Equal(t, "fragment", captured.Stage)

	cli = commands.New(mock)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"inspect"})
	assert.Error(t, cli.Execute(context.Background()))
}

func TestCommands_Watch(t *testing.T) {
	var captured app.WatchOptions
	mock := &mockApp{
		watchFunc: func(_ context.Context, _ string, opts app.WatchOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"watch", "glass.yaml", "--debounce", "250ms", "-t", "glsl"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, 250*time.Millisecond, captured.Debounce)
	assert.Equal(t, "glsl", captured.Target)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, strings.HasPrefix(buf.String(), "glaze version "+build.Version))
}
