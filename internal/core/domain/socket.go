package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// SocketType is the data type carried by a node socket.
type SocketType uint8

const (
	// SocketFloat carries a scalar.
	SocketFloat SocketType = iota + 1
	// SocketVector carries a 3-component vector.
	SocketVector
	// SocketColor carries an RGBA color.
	SocketColor
	// SocketShader carries a closure, lowered to its radiance.
	SocketShader
	// SocketString carries text. It has no shader representation.
	SocketString
	// SocketObject references scene data. It has no shader representation.
	SocketObject
)

var socketTypeNames = map[SocketType]string{
	SocketFloat:  "float",
	SocketVector: "vector",
	SocketColor:  "color",
	SocketShader: "shader",
	SocketString: "string",
	SocketObject: "object",
}

func (t SocketType) String() string {
	if name, ok := socketTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseSocketType resolves a socket type from its name.
func ParseSocketType(name string) (SocketType, error) {
	for t, n := range socketTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, zerr.With(zerr.Wrap(ErrUnsupportedType, ""), "socket_type", name)
}

// WGSL returns the shader type used for values of t.
func (t SocketType) WGSL() (string, error) {
	switch t {
	case SocketFloat:
		return "f32", nil
	case SocketVector:
		return "vec3<f32>", nil
	case SocketColor, SocketShader:
		return "vec4<f32>", nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedType, ""), "socket_type", t.String())
	}
}

// Arity is the number of components a value of t holds.
func (t SocketType) Arity() int {
	switch t {
	case SocketFloat:
		return 1
	case SocketVector:
		return 3
	case SocketColor, SocketShader:
		return 4
	default:
		return 0
	}
}

// Value is a constant socket value. Only the first Arity components are meaningful.
type Value [4]float64

// Scalar returns a Value holding f in its first component.
func Scalar(f float64) Value {
	return Value{f}
}

// RGBA returns a color Value.
func RGBA(r, g, b, a float64) Value {
	return Value{r, g, b, a}
}

// Socket is a typed input or output of a node.
type Socket struct {
	Name    InternedString
	Type    SocketType
	Default Value
}

// NewSocket creates a socket with the given default.
func NewSocket(name string, t SocketType, def Value) Socket {
	return Socket{Name: NewInternedString(name), Type: t, Default: def}
}
