package codegen

import (
	"fmt"
	"math"
	"strconv"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/zerr"
)

var splitOutput = domain.NewSocket("image", domain.SocketColor, domain.Value{})

// splitKind shows two compositor images side by side. Pixels at or past the
// split line along the axis come from the first image, the rest from the
// second. The ratio is a uniform so moving the line needs no recompile; the
// factor param only records its initial value.
type splitKind struct{}

func (splitKind) Inputs() []domain.Socket { return nil }
func (splitKind) Output() domain.Socket   { return splitOutput }

func (splitKind) axis(n *domain.Node) (string, error) {
	axis := n.Param("axis", "x")
	if axis != "x" && axis != "y" {
		return "", paramError(n, "axis", axis)
	}
	return axis, nil
}

func (splitKind) factor(n *domain.Node) (float64, error) {
	raw := n.Param("factor", "0.5")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, paramError(n, "factor", raw)
	}
	return clamp01(f), nil
}

func (k splitKind) Emit(b *Builder, n *domain.Node, _ []Operand) (string, error) {
	if b.Engine() != domain.EngineCompositor {
		err := zerr.With(zerr.Wrap(domain.ErrKindUnavailable, ""), "node", n.Name.String())
		return "", zerr.With(err, "engine", string(b.Engine()))
	}
	axis, err := k.axis(n)
	if err != nil {
		return "", err
	}
	factor, err := k.factor(n)
	if err != nil {
		return "", err
	}

	suffix := ""
	if idx := b.CountResources(domain.ResourceUniform); idx > 0 {
		suffix = strconv.Itoa(idx)
	}
	ratio := b.Bind("split_ratio"+suffix, domain.ResourceUniform, domain.FrequencyObject, "f32")
	first := b.Bind("first_image_tx"+suffix, domain.ResourceTexture, domain.FrequencyPass, "texture_2d<f32>")
	second := b.Bind("second_image_tx"+suffix, domain.ResourceTexture, domain.FrequencyPass, "texture_2d<f32>")

	b.Statement(fmt.Sprintf("// %s: %s", ratio, Literal(domain.SocketFloat, domain.Scalar(factor))))
	for _, img := range []struct{ tx, param string }{{first, "first_image"}, {second, "second_image"}} {
		if name := n.Param(img.param, ""); name != "" {
			b.Statement(fmt.Sprintf("// %s: %q", img.tx, name))
		}
	}

	body := fmt.Sprintf("let edge = f32(textureDimensions(%s).%s) * clamp(%s, 0.0, 1.0);\n", first, axis, ratio) +
		"let pos = vec2<i32>(texel);\n" +
		fmt.Sprintf("return select(textureLoad(%s, pos, 0), textureLoad(%s, pos, 0), edge <= f32(texel.%s));", second, first, axis)
	fn := b.Helper("node_split_"+axis+suffix, []Param{{Name: "texel", Type: "vec2<u32>"}}, "vec4<f32>", body)
	return fn + "(gid.xy)", nil
}

func (splitKind) Flags(_ *domain.Node, _ []Operand) domain.MaterialFlags {
	return domain.FlagUsesTextures
}

func paramError(n *domain.Node, param, value string) error {
	err := zerr.With(zerr.Wrap(domain.ErrInvalidParam, ""), "node", n.Name.String())
	return zerr.With(zerr.With(err, "param", param), "value", value)
}
