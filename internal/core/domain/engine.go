package domain

import "go.trai.ch/zerr"

// Engine tags the render pipeline that consumes a pass.
type Engine string

const (
	// EngineEEVEE renders surfaces with a vertex and a fragment stage.
	EngineEEVEE Engine = "eevee"
	// EngineCompositor runs per-pixel compute operations.
	EngineCompositor Engine = "compositor"
)

// ParseEngine validates an engine tag.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(s); e {
	case EngineEEVEE, EngineCompositor:
		return e, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownEngine, ""), "engine", s)
	}
}

// Target is the output format of the shader compiler.
type Target string

const (
	TargetSPIRV Target = "spirv"
	TargetGLSL  Target = "glsl"
	TargetMSL   Target = "msl"
	TargetHLSL  Target = "hlsl"
)

// ParseTarget validates a compiler target.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetSPIRV, TargetGLSL, TargetMSL, TargetHLSL:
		return t, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedTarget, ""), "target", s)
	}
}
