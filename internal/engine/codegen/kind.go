// Package codegen turns material node graphs into WGSL source and a binding layout.
package codegen

import (
	"go.trai.ch/glaze/internal/core/domain"
)

// Built-in node kinds.
const (
	KindValue            domain.NodeKind = "value"
	KindRGB              domain.NodeKind = "rgb"
	KindMath             domain.NodeKind = "math"
	KindMix              domain.NodeKind = "mix"
	KindInvert           domain.NodeKind = "invert"
	KindGamma            domain.NodeKind = "gamma"
	KindImageTexture     domain.NodeKind = "image_texture"
	KindVolumeAbsorption domain.NodeKind = "volume_absorption"
	KindOutputMaterial   domain.NodeKind = "output_material"
	KindSplit            domain.NodeKind = "split"
)

// Kind generates code for one node kind.
type Kind interface {
	// Inputs declares the input sockets in evaluation order.
	Inputs() []domain.Socket
	// Output declares the single output socket.
	Output() domain.Socket
	// Emit returns the expression computing the node from its inputs.
	// It may register helpers and resources on b.
	Emit(b *Builder, n *domain.Node, args []Operand) (string, error)
}

// Folder is implemented by kinds that can be evaluated at generation time
// when every input is constant.
type Folder interface {
	Fold(n *domain.Node, args []domain.Value) (domain.Value, error)
}

// Flagger is implemented by kinds that contribute material flags.
// It runs for folded nodes too.
type Flagger interface {
	Flags(n *domain.Node, args []Operand) domain.MaterialFlags
}

// Operand is the value feeding an input socket.
type Operand struct {
	Expr  string
	Type  domain.SocketType
	Const bool
	// Value is set when Const is true.
	Value domain.Value
	// Linked is set when the operand arrives through a link.
	Linked bool
}

// Constant returns an operand holding a literal.
func Constant(t domain.SocketType, v domain.Value) Operand {
	return Operand{Expr: Literal(t, v), Type: t, Const: true, Value: v}
}
