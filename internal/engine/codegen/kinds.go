package codegen

import (
	"fmt"
	"math"
	"strings"

	"go.trai.ch/glaze/internal/core/domain"
)

func call(name string, args []Operand) string {
	exprs := make([]string, len(args))
	for i, a := range args {
		exprs[i] = a.Expr
	}
	return name + "(" + strings.Join(exprs, ", ") + ")"
}

func params(sockets []domain.Socket) []Param {
	out := make([]Param, len(sockets))
	for i, s := range sockets {
		typ, _ := s.Type.WGSL()
		out[i] = Param{Name: s.Name.String(), Type: typ}
	}
	return out
}

// helperCall registers a helper taking the kind's inputs and returns a call to it.
func helperCall(b *Builder, k Kind, name, body string, args []Operand) string {
	ret, _ := k.Output().Type.WGSL()
	return call(b.Helper(name, params(k.Inputs()), ret, body), args)
}

var (
	valueInputs = []domain.Socket{
		domain.NewSocket("value", domain.SocketFloat, domain.Scalar(0)),
	}
	valueOutput = domain.NewSocket("value", domain.SocketFloat, domain.Value{})
)

type valueKind struct{}

func (valueKind) Inputs() []domain.Socket { return valueInputs }
func (valueKind) Output() domain.Socket   { return valueOutput }

func (k valueKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	return helperCall(b, k, "node_value", "return value;", args), nil
}

func (valueKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	return args[0], nil
}

var (
	rgbInputs = []domain.Socket{
		domain.NewSocket("color", domain.SocketColor, domain.RGBA(0.5, 0.5, 0.5, 1)),
	}
	rgbOutput = domain.NewSocket("color", domain.SocketColor, domain.Value{})
)

type rgbKind struct{}

func (rgbKind) Inputs() []domain.Socket { return rgbInputs }
func (rgbKind) Output() domain.Socket   { return rgbOutput }

func (k rgbKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	return helperCall(b, k, "node_rgb", "return color;", args), nil
}

func (rgbKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	return args[0], nil
}

var (
	mathInputs = []domain.Socket{
		domain.NewSocket("a", domain.SocketFloat, domain.Scalar(0.5)),
		domain.NewSocket("b", domain.SocketFloat, domain.Scalar(0.5)),
	}
	mathOutput = domain.NewSocket("value", domain.SocketFloat, domain.Value{})
)

type mathOp struct {
	body string
	eval func(a, b float64) float64
}

var mathOps = map[string]mathOp{
	"add":      {"return a + b;", func(a, b float64) float64 { return a + b }},
	"subtract": {"return a - b;", func(a, b float64) float64 { return a - b }},
	"multiply": {"return a * b;", func(a, b float64) float64 { return a * b }},
	"divide": {"return select(0.0, a / b, b != 0.0);", func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}},
	"power":   {"return pow(a, b);", math.Pow},
	"minimum": {"return min(a, b);", math.Min},
	"maximum": {"return max(a, b);", math.Max},
}

type mathKind struct{}

func (mathKind) Inputs() []domain.Socket { return mathInputs }
func (mathKind) Output() domain.Socket   { return mathOutput }

func (mathKind) operation(n *domain.Node) (string, mathOp, error) {
	name := n.Param("operation", "add")
	op, ok := mathOps[name]
	if !ok {
		return "", mathOp{}, paramError(n, "operation", name)
	}
	return name, op, nil
}

func (k mathKind) Emit(b *Builder, n *domain.Node, args []Operand) (string, error) {
	name, op, err := k.operation(n)
	if err != nil {
		return "", err
	}
	return helperCall(b, k, "node_math_"+name, op.body, args), nil
}

func (k mathKind) Fold(n *domain.Node, args []domain.Value) (domain.Value, error) {
	_, op, err := k.operation(n)
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Scalar(op.eval(args[0][0], args[1][0])), nil
}

var (
	mixInputs = []domain.Socket{
		domain.NewSocket("fac", domain.SocketFloat, domain.Scalar(0.5)),
		domain.NewSocket("a", domain.SocketColor, domain.RGBA(0.5, 0.5, 0.5, 1)),
		domain.NewSocket("b", domain.SocketColor, domain.RGBA(0.5, 0.5, 0.5, 1)),
	}
	mixOutput = domain.NewSocket("color", domain.SocketColor, domain.Value{})
)

type mixKind struct{}

func (mixKind) Inputs() []domain.Socket { return mixInputs }
func (mixKind) Output() domain.Socket   { return mixOutput }

func (k mixKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	return helperCall(b, k, "node_mix", "return a + (b - a) * clamp(fac, 0.0, 1.0);", args), nil
}

func (mixKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	fac := clamp01(args[0][0])
	var out domain.Value
	for i := range out {
		out[i] = args[1][i] + (args[2][i]-args[1][i])*fac
	}
	return out, nil
}

var (
	invertInputs = []domain.Socket{
		domain.NewSocket("fac", domain.SocketFloat, domain.Scalar(1)),
		domain.NewSocket("color", domain.SocketColor, domain.RGBA(0, 0, 0, 1)),
	}
	invertOutput = domain.NewSocket("color", domain.SocketColor, domain.Value{})
)

type invertKind struct{}

func (invertKind) Inputs() []domain.Socket { return invertInputs }
func (invertKind) Output() domain.Socket   { return invertOutput }

func (k invertKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	body := "let inv = vec3<f32>(1.0) - color.rgb;\n" +
		"return vec4<f32>(color.rgb + (inv - color.rgb) * fac, color.a);"
	return helperCall(b, k, "node_invert", body, args), nil
}

func (invertKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	fac, c := args[0][0], args[1]
	out := c
	for i := range 3 {
		out[i] = c[i] + ((1-c[i])-c[i])*fac
	}
	return out, nil
}

var (
	gammaInputs = []domain.Socket{
		domain.NewSocket("color", domain.SocketColor, domain.RGBA(1, 1, 1, 1)),
		domain.NewSocket("gamma", domain.SocketFloat, domain.Scalar(1)),
	}
	gammaOutput = domain.NewSocket("color", domain.SocketColor, domain.Value{})
)

type gammaKind struct{}

func (gammaKind) Inputs() []domain.Socket { return gammaInputs }
func (gammaKind) Output() domain.Socket   { return gammaOutput }

func (k gammaKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	body := "return vec4<f32>(pow(max(color.rgb, vec3<f32>(0.0)), vec3<f32>(gamma)), color.a);"
	return helperCall(b, k, "node_gamma", body, args), nil
}

func (gammaKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	c, g := args[0], args[1][0]
	out := c
	for i := range 3 {
		out[i] = math.Pow(math.Max(c[i], 0), g)
	}
	return out, nil
}

var (
	imageTextureInputs = []domain.Socket{
		domain.NewSocket("vector", domain.SocketVector, domain.Value{}),
	}
	imageTextureOutput = domain.NewSocket("color", domain.SocketColor, domain.Value{})
)

// imageTextureKind samples a texture bound in the material group. It never folds.
type imageTextureKind struct{}

func (imageTextureKind) Inputs() []domain.Socket { return imageTextureInputs }
func (imageTextureKind) Output() domain.Socket   { return imageTextureOutput }

func (imageTextureKind) Emit(b *Builder, n *domain.Node, args []Operand) (string, error) {
	idx := b.CountResources(domain.ResourceTexture)
	tex := b.Bind(fmt.Sprintf("tex%d", idx), domain.ResourceTexture, domain.FrequencyMaterial, "texture_2d<f32>")
	samp := b.Bind(fmt.Sprintf("samp%d", idx), domain.ResourceSampler, domain.FrequencyMaterial, "sampler")
	if image := n.Param("image", ""); image != "" {
		b.Statement(fmt.Sprintf("// %s: %q", tex, image))
	}
	return fmt.Sprintf("textureSampleLevel(%s, %s, (%s).xy, 0.0)", tex, samp, args[0].Expr), nil
}

func (imageTextureKind) Flags(_ *domain.Node, _ []Operand) domain.MaterialFlags {
	return domain.FlagUsesTextures
}

var (
	volumeAbsorptionInputs = []domain.Socket{
		domain.NewSocket("color", domain.SocketColor, domain.RGBA(0.8, 0.8, 0.8, 1)),
		domain.NewSocket("density", domain.SocketFloat, domain.Scalar(1)),
	}
	volumeAbsorptionOutput = domain.NewSocket("volume", domain.SocketShader, domain.Value{})
)

type volumeAbsorptionKind struct{}

func (volumeAbsorptionKind) Inputs() []domain.Socket { return volumeAbsorptionInputs }
func (volumeAbsorptionKind) Output() domain.Socket   { return volumeAbsorptionOutput }

func (k volumeAbsorptionKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	body := "return vec4<f32>(exp(-(vec3<f32>(1.0) - color.rgb) * density), 1.0);"
	return helperCall(b, k, "node_volume_absorption", body, args), nil
}

func (volumeAbsorptionKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	c, d := args[0], args[1][0]
	return domain.RGBA(
		math.Exp(-(1-c[0])*d),
		math.Exp(-(1-c[1])*d),
		math.Exp(-(1-c[2])*d),
		1,
	), nil
}

// Flags reports absorption only when it can have a visible effect:
// a non-zero density and a color that is not white.
func (volumeAbsorptionKind) Flags(_ *domain.Node, args []Operand) domain.MaterialFlags {
	color, density := args[0], args[1]
	hasDensity := density.Linked || density.Value[0] != 0
	absorbs := color.Linked || color.Value[0] != 1 || color.Value[1] != 1 || color.Value[2] != 1
	if hasDensity && absorbs {
		return domain.FlagVolumeAbsorption
	}
	return 0
}

var (
	outputMaterialInputs = []domain.Socket{
		domain.NewSocket("surface", domain.SocketColor, domain.RGBA(0, 0, 0, 1)),
		domain.NewSocket("volume", domain.SocketShader, domain.RGBA(1, 1, 1, 1)),
		domain.NewSocket("alpha", domain.SocketFloat, domain.Scalar(1)),
	}
	outputMaterialOutput = domain.NewSocket("result", domain.SocketShader, domain.Value{})
)

type outputMaterialKind struct{}

func (outputMaterialKind) Inputs() []domain.Socket { return outputMaterialInputs }
func (outputMaterialKind) Output() domain.Socket   { return outputMaterialOutput }

func (k outputMaterialKind) Emit(b *Builder, _ *domain.Node, args []Operand) (string, error) {
	body := "return vec4<f32>(surface.rgb * volume.rgb, alpha);"
	return helperCall(b, k, "node_output_material", body, args), nil
}

func (outputMaterialKind) Fold(_ *domain.Node, args []domain.Value) (domain.Value, error) {
	s, v, a := args[0], args[1], args[2][0]
	return domain.RGBA(s[0]*v[0], s[1]*v[1], s[2]*v[2], a), nil
}

func (outputMaterialKind) Flags(_ *domain.Node, args []Operand) domain.MaterialFlags {
	alpha := args[2]
	if alpha.Linked || alpha.Value[0] != 1 {
		return domain.FlagTransparent
	}
	return 0
}

func clamp01(f float64) float64 {
	return math.Min(math.Max(f, 0), 1)
}
