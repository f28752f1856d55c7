package domain

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Stage is a shader pipeline stage.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
	// StageCompute is the compute stage.
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// Frequency is how often a resource changes. Each frequency owns one bind group.
type Frequency uint8

const (
	// FrequencyMaterial resources change per material.
	FrequencyMaterial Frequency = iota
	// FrequencyPass resources change per render pass.
	FrequencyPass
	// FrequencyObject resources change per drawn object.
	FrequencyObject
)

func (f Frequency) String() string {
	switch f {
	case FrequencyMaterial:
		return "material"
	case FrequencyPass:
		return "pass"
	case FrequencyObject:
		return "object"
	default:
		return "frequency(" + strconv.Itoa(int(f)) + ")"
	}
}

// Group returns the bind group index of f.
func (f Frequency) Group() uint32 {
	return uint32(f)
}

// ResourceKind is the kind of binding a resource needs.
type ResourceKind uint8

const (
	// ResourceUniform is a uniform buffer.
	ResourceUniform ResourceKind = iota
	// ResourceTexture is a sampled texture.
	ResourceTexture
	// ResourceSampler is a sampler.
	ResourceSampler
	// ResourceImage is a write-only storage texture.
	ResourceImage
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceUniform:
		return "uniform"
	case ResourceTexture:
		return "texture"
	case ResourceSampler:
		return "sampler"
	case ResourceImage:
		return "image"
	default:
		return "resource(" + strconv.Itoa(int(k)) + ")"
	}
}

// Resource is one declared binding of a generated shader.
type Resource struct {
	Name      string
	Kind      ResourceKind
	Frequency Frequency
	Slot      uint32
	// Type is the WGSL type of the binding.
	Type string
}

// MaterialFlags describe properties of a material derived from its nodes.
type MaterialFlags uint32

const (
	// FlagVolumeAbsorption is set when the material absorbs light in a volume.
	FlagVolumeAbsorption MaterialFlags = 1 << iota
	// FlagTransparent is set when the output alpha is not constant one.
	FlagTransparent
	// FlagUsesTextures is set when the material samples at least one texture.
	FlagUsesTextures
	// FlagCompute is set for compute passes.
	FlagCompute
)

var flagNames = []struct {
	flag MaterialFlags
	name string
}{
	{FlagVolumeAbsorption, "volume_absorption"},
	{FlagTransparent, "transparent"},
	{FlagUsesTextures, "uses_textures"},
	{FlagCompute, "compute"},
}

// Has reports whether all bits of f2 are set.
func (f MaterialFlags) Has(f2 MaterialFlags) bool {
	return f&f2 == f2
}

func (f MaterialFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// GeneratedSource is the output of the code generator.
type GeneratedSource struct {
	Engine    Engine
	Stages    map[Stage]string
	Resources []Resource
	Flags     MaterialFlags
}

// StageList returns the stages present in the source, in pipeline order.
func (s *GeneratedSource) StageList() []Stage {
	stages := make([]Stage, 0, len(s.Stages))
	for st := range s.Stages {
		stages = append(stages, st)
	}
	slices.Sort(stages)
	return stages
}

// ResourcesOf yields the resources bound at frequency f, in declaration order.
func (s *GeneratedSource) ResourcesOf(f Frequency) iter.Seq[Resource] {
	return func(yield func(Resource) bool) {
		for _, r := range s.Resources {
			if r.Frequency == f && !yield(r) {
				return
			}
		}
	}
}

// Validate checks that binding slots are unique per frequency.
func (s *GeneratedSource) Validate() error {
	type slot struct {
		f    Frequency
		slot uint32
	}
	seen := make(map[slot]string, len(s.Resources))
	for _, r := range s.Resources {
		k := slot{r.Frequency, r.Slot}
		if other, dup := seen[k]; dup {
			err := zerr.With(zerr.Wrap(ErrDuplicateBinding, ""), "frequency", r.Frequency.String())
			err = zerr.With(err, "slot", r.Slot)
			return zerr.With(err, "resources", other+", "+r.Name)
		}
		seen[k] = r.Name
	}
	return nil
}

// Equal reports whether two sources are identical.
func (s *GeneratedSource) Equal(other *GeneratedSource) bool {
	if s.Engine != other.Engine || s.Flags != other.Flags || len(s.Stages) != len(other.Stages) {
		return false
	}
	for st, src := range s.Stages {
		if other.Stages[st] != src {
			return false
		}
	}
	return slices.Equal(s.Resources, other.Resources)
}
