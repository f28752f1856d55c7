package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/ui/style"
)

// InspectOptions configures the Inspect command.
type InspectOptions struct {
	Overrides
	// Stage limits the printed source to one stage. Empty prints all.
	Stage string
}

// Inspect generates the source of one material and prints its WGSL,
// binding layout, flags and pass key without compiling it.
func (a *App) Inspect(ctx context.Context, path string, opts InspectOptions) error {
	s, err := a.settings(opts.Overrides)
	if err != nil {
		return err
	}
	m, err := a.loadMaterial(path, s)
	if err != nil {
		return err
	}

	_, span := a.tracer.Start(ctx, "generate", ports.WithAttribute("material", m.Name))
	src, err := a.generator.Generate(m.Graph, m.Engine, nil, s.Optimize)
	if err != nil {
		span.RecordError(err)
		span.End()
		return err
	}
	span.End()
	key := a.hasher.PassKey(src, s.Optimize)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", style.Heading.Render(m.Name), style.Muted.Render(key.String()), src.Engine)
	fmt.Fprintf(&b, "flags: %s\n", src.Flags)
	if len(src.Resources) > 0 {
		b.WriteString("bindings:\n")
		for _, r := range src.Resources {
			fmt.Fprintf(&b, "  @group(%d) @binding(%d) %-12s %-8s %s\n",
				r.Frequency.Group(), r.Slot, r.Name, r.Kind, style.Muted.Render(r.Type))
		}
	}

	for _, st := range src.StageList() {
		if opts.Stage != "" && opts.Stage != st.String() {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", style.Heading.Render("// "+st.String()))
		b.WriteString(src.Stages[st])
	}

	_, err = fmt.Fprint(a.out, b.String())
	return err
}
