package codegen

import (
	"strings"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/zerr"
)

// FinalizeFunc wraps the generated body in engine specific entry points and
// returns the source of every stage.
type FinalizeFunc func(b *Builder, result Operand) (map[domain.Stage]string, error)

// FinalizerFor returns the default finalizer of engine.
func FinalizerFor(engine domain.Engine) (FinalizeFunc, error) {
	switch engine {
	case domain.EngineEEVEE:
		return SurfaceFinalizer, nil
	case domain.EngineCompositor:
		return ComputeFinalizer, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownEngine, ""), "engine", string(engine))
	}
}

// SurfaceFinalizer emits a fullscreen triangle vertex stage and a fragment
// stage writing the result to location 0.
func SurfaceFinalizer(b *Builder, result Operand) (map[domain.Stage]string, error) {
	var vs strings.Builder
	b.WriteHeader(&vs)
	vs.WriteString("@vertex\n")
	vs.WriteString("fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {\n")
	vs.WriteString(indent + "var pos = array<vec2<f32>, 3>(vec2<f32>(-1.0, -1.0), vec2<f32>(3.0, -1.0), vec2<f32>(-1.0, 3.0));\n")
	vs.WriteString(indent + "return vec4<f32>(pos[idx], 0.0, 1.0);\n")
	vs.WriteString("}\n")

	var fs strings.Builder
	b.WriteHeader(&fs)
	b.WriteDeclarations(&fs)
	b.WriteHelpers(&fs)
	fs.WriteString("@fragment\n")
	fs.WriteString("fn fs_main() -> @location(0) vec4<f32> {\n")
	b.WriteBody(&fs)
	fs.WriteString(indent + "return " + toVec4(result) + ";\n")
	fs.WriteString("}\n")

	return map[domain.Stage]string{
		domain.StageVertex:   vs.String(),
		domain.StageFragment: fs.String(),
	}, nil
}

// ComputeFinalizer emits a compute stage storing the result into the
// output_img storage texture, one invocation per pixel.
func ComputeFinalizer(b *Builder, result Operand) (map[domain.Stage]string, error) {
	b.SetFlag(domain.FlagCompute)
	img := b.Bind("output_img", domain.ResourceImage, domain.FrequencyPass, "texture_storage_2d<rgba8unorm, write>")

	var cs strings.Builder
	b.WriteHeader(&cs)
	b.WriteDeclarations(&cs)
	b.WriteHelpers(&cs)
	cs.WriteString("@compute @workgroup_size(8, 8, 1)\n")
	cs.WriteString("fn cs_main(@builtin(global_invocation_id) gid: vec3<u32>) {\n")
	b.WriteBody(&cs)
	cs.WriteString(indent + "textureStore(" + img + ", vec2<i32>(gid.xy), " + toVec4(result) + ");\n")
	cs.WriteString("}\n")

	return map[domain.Stage]string{
		domain.StageCompute: cs.String(),
	}, nil
}
