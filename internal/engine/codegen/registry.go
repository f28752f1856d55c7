package codegen

import (
	"slices"
	"sync"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.NodeCatalog = (*Registry)(nil)

// Registry maps node kinds to their code generators.
type Registry struct {
	mu    sync.RWMutex
	kinds map[domain.NodeKind]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[domain.NodeKind]Kind)}
}

// DefaultRegistry returns a registry holding every built-in kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindValue, valueKind{})
	r.Register(KindRGB, rgbKind{})
	r.Register(KindMath, mathKind{})
	r.Register(KindMix, mixKind{})
	r.Register(KindInvert, invertKind{})
	r.Register(KindGamma, gammaKind{})
	r.Register(KindImageTexture, imageTextureKind{})
	r.Register(KindVolumeAbsorption, volumeAbsorptionKind{})
	r.Register(KindOutputMaterial, outputMaterialKind{})
	r.Register(KindSplit, splitKind{})
	return r
}

// Register adds or replaces the generator for kind.
func (r *Registry) Register(kind domain.NodeKind, k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind] = k
}

// Lookup returns the generator for kind.
func (r *Registry) Lookup(kind domain.NodeKind) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[kind]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownNodeKind, ""), "kind", string(kind))
	}
	return k, nil
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []domain.NodeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.NodeKind, 0, len(r.kinds))
	for kind := range r.kinds {
		out = append(out, kind)
	}
	slices.Sort(out)
	return out
}

// Instantiate creates a node of kind carrying the sockets and defaults the kind declares.
func (r *Registry) Instantiate(name string, kind domain.NodeKind) (*domain.Node, error) {
	k, err := r.Lookup(kind)
	if err != nil {
		return nil, zerr.With(err, "node", name)
	}
	return &domain.Node{
		Name:    domain.NewInternedString(name),
		Kind:    kind,
		Inputs:  slices.Clone(k.Inputs()),
		Outputs: []domain.Socket{k.Output()},
		Params:  make(map[string]string),
	}, nil
}
