// Package pass owns compiled shader passes: the registry deduplicating them
// by content, the compiler driver and the module lifetime around both.
package pass

import (
	"sync"
	"sync/atomic"

	"go.trai.ch/glaze/internal/core/domain"
)

// Pass is a compiled shader unit derived from one node graph and its compile settings.
// Callers hold it between GetOrCreate or Acquire and the matching Release.
type Pass struct {
	key      domain.PassKey
	name     string
	optimize bool
	source   *domain.GeneratedSource
	// optimized is the folded variant of source for the second compile tier.
	optimized *domain.GeneratedSource

	shader atomic.Pointer[domain.Shader]

	mu                sync.Mutex
	refs              int
	destroyed         bool
	orphaned          bool
	optimizeRequested bool
	liveOptimized     bool
	failed            bool
	log               string
	job               *job
}

// Key returns the content key the pass is registered under.
func (p *Pass) Key() domain.PassKey {
	return p.key
}

// Name returns the label given at creation.
func (p *Pass) Name() string {
	return p.name
}

// Source returns the generated source the pass was created from.
func (p *Pass) Source() *domain.GeneratedSource {
	return p.source
}

// OptimizedSource returns the second tier source, or nil if there is none.
func (p *Pass) OptimizedSource() *domain.GeneratedSource {
	return p.optimized
}

// job is one compilation of a pass.
type job struct {
	info *domain.ShaderCreateInfo
	// custom jobs are finished by the caller through FinalizeCompilation.
	custom  bool
	upgrade bool

	state  domain.JobState
	shader *domain.Shader
	log    string
}
