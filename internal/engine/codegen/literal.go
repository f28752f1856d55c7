package codegen

import (
	"strconv"
	"strings"

	"go.trai.ch/glaze/internal/core/domain"
)

// Literal renders v as a WGSL constant of type t.
func Literal(t domain.SocketType, v domain.Value) string {
	switch t {
	case domain.SocketFloat:
		return formatFloat(v[0])
	case domain.SocketVector:
		return "vec3<f32>(" + joinFloats(v[:3]) + ")"
	default:
		return "vec4<f32>(" + joinFloats(v[:4]) + ")"
	}
}

// formatFloat prints f at f32 precision and always keeps a decimal point.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(float64(float32(f)), 'f', -1, 32)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func joinFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, ", ")
}

// toVec4 converts an expression of type t to the vec4<f32> written by entry points.
func toVec4(op Operand) string {
	switch op.Type {
	case domain.SocketFloat:
		return "vec4<f32>(vec3<f32>(" + op.Expr + "), 1.0)"
	case domain.SocketVector:
		return "vec4<f32>(" + op.Expr + ", 1.0)"
	default:
		return op.Expr
	}
}
