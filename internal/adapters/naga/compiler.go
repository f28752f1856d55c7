// Package naga compiles generated WGSL with the pure Go naga translator.
package naga

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ShaderCompiler = (*Compiler)(nil)

// Compiler implements ports.ShaderCompiler on top of naga.
type Compiler struct {
	logger ports.Logger
}

// NewCompiler creates a new Compiler.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile translates every stage of info to info.Target. An empty target means SPIR-V.
func (c *Compiler) Compile(ctx context.Context, info *domain.ShaderCreateInfo) (*domain.Shader, error) {
	target := info.Target
	if target == "" {
		target = domain.TargetSPIRV
	}
	if _, err := domain.ParseTarget(string(target)); err != nil {
		return nil, err
	}

	stages := make([]domain.Stage, 0, len(info.Sources))
	for st := range info.Sources {
		stages = append(stages, st)
	}
	slices.Sort(stages)

	shader := &domain.Shader{
		Label:     info.Name,
		Engine:    info.Engine,
		Target:    target,
		Optimized: info.Optimize,
		Artifacts: make(map[domain.Stage][]byte, len(stages)),
	}
	var notes []string
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, note, err := compileStage(info.Sources[st], st, target, info.Optimize)
		if err != nil {
			err = domain.Wrap(domain.ErrCompileFailed, err)
			err = zerr.With(err, "stage", st.String())
			return nil, zerr.With(err, "pass", info.Key.String())
		}
		shader.Artifacts[st] = out
		if note != "" {
			notes = append(notes, fmt.Sprintf("%s: %s", st, note))
		}
		c.logger.Debug(fmt.Sprintf("compiled %s stage of %s to %s (%d bytes)", st, info.Name, target, len(out)))
	}
	shader.Info = strings.Join(notes, "\n")
	return shader, nil
}

func compileStage(src string, stage domain.Stage, target domain.Target, optimize bool) ([]byte, string, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, "", err
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, "", err
	}
	if optimize {
		if err := validate(module); err != nil {
			return nil, "", err
		}
	}

	switch target {
	case domain.TargetSPIRV:
		out, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3, Debug: !optimize})
		return out, "", err
	case domain.TargetGLSL:
		opts := glsl.DefaultOptions()
		if stage == domain.StageCompute {
			opts.LangVersion = glsl.Version430
		}
		if !optimize {
			opts.WriterFlags |= glsl.WriterFlagDebugInfo
		}
		out, tinfo, err := glsl.Compile(module, opts)
		if err != nil {
			return nil, "", err
		}
		var note string
		if len(tinfo.UsedExtensions) > 0 {
			note = "extensions " + strings.Join(tinfo.UsedExtensions, ", ")
		}
		return []byte(out), note, nil
	case domain.TargetMSL:
		opts := msl.DefaultOptions()
		opts.FakeMissingBindings = true
		out, _, err := msl.Compile(module, opts)
		return []byte(out), "", err
	case domain.TargetHLSL:
		out, _, err := hlsl.Compile(module, hlsl.DefaultOptions())
		return []byte(out), "", err
	default:
		return nil, "", zerr.With(zerr.Wrap(domain.ErrUnsupportedTarget, ""), "target", string(target))
	}
}

func validate(module *ir.Module) error {
	issues, err := naga.Validate(module)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.Message
	}
	return zerr.New("validation: " + strings.Join(msgs, "; "))
}
