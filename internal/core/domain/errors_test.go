package domain_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestIsGraphError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"cycle with metadata", zerr.With(zerr.Wrap(domain.ErrCyclicGraph, ""), "cycle", "A -> B -> A"), true},
		{"wrapped by caller", zerr.Wrap(zerr.With(zerr.Wrap(domain.ErrMissingSocket, ""), "node", "n"), "failed to load material"), true},
		{"kind outside its engine", zerr.With(zerr.Wrap(domain.ErrKindUnavailable, ""), "engine", "eevee"), true},
		{"compile failure", domain.Wrap(domain.ErrCompileFailed, errors.New("parse error")), false},
		{"lifecycle", domain.ErrLifecycle, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsGraphError(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	err := domain.Wrap(domain.ErrConfigReadFailed, os.ErrNotExist)

	assert.EqualError(t, err, "failed to read config file: file does not exist")
	assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)

	annotated := zerr.With(err, "path", "glaze.yaml")
	assert.ErrorIs(t, annotated, domain.ErrConfigReadFailed)
	assert.EqualError(t, annotated, err.Error())
}

func TestSentinelMetadataKeepsIdentity(t *testing.T) {
	g := domain.NewNodeGraph()
	err := g.Connect("a", "color", "b", "color")

	assert.ErrorIs(t, err, domain.ErrMissingNode)
	assert.EqualError(t, err, domain.ErrMissingNode.Error())
}
