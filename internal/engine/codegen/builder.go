package codegen

import (
	"fmt"
	"strings"

	"go.trai.ch/glaze/internal/core/domain"
)

const indent = "    "

// Builder collects the pieces of one generated shader: helper functions in
// first-use order, the statement body, declared resources and material flags.
type Builder struct {
	engine    domain.Engine
	helpers   []string
	seen      map[string]struct{}
	body      []string
	resources []domain.Resource
	slots     map[domain.Frequency]uint32
	flags     domain.MaterialFlags
}

func newBuilder(engine domain.Engine) *Builder {
	return &Builder{
		engine: engine,
		seen:   make(map[string]struct{}),
		slots:  make(map[domain.Frequency]uint32),
	}
}

// Engine returns the engine the shader is generated for.
func (b *Builder) Engine() domain.Engine {
	return b.engine
}

// Helper registers a helper function once and returns its name.
func (b *Builder) Helper(name string, params []Param, ret, body string) string {
	if _, ok := b.seen[name]; ok {
		return name
	}
	b.seen[name] = struct{}{}

	decls := make([]string, len(params))
	for i, p := range params {
		decls[i] = p.Name + ": " + p.Type
	}

	var fn strings.Builder
	fmt.Fprintf(&fn, "fn %s(%s) -> %s {\n", name, strings.Join(decls, ", "), ret)
	for _, line := range strings.Split(body, "\n") {
		fn.WriteString(indent + line + "\n")
	}
	fn.WriteString("}\n")
	b.helpers = append(b.helpers, fn.String())
	return name
}

// Param is a helper function parameter.
type Param struct {
	Name string
	Type string
}

// Bind declares a resource in the next free slot of its frequency and returns its name.
func (b *Builder) Bind(name string, kind domain.ResourceKind, freq domain.Frequency, typ string) string {
	slot := b.slots[freq]
	b.slots[freq] = slot + 1
	b.resources = append(b.resources, domain.Resource{
		Name:      name,
		Kind:      kind,
		Frequency: freq,
		Slot:      slot,
		Type:      typ,
	})
	return name
}

// CountResources returns how many resources of kind have been declared.
func (b *Builder) CountResources(kind domain.ResourceKind) int {
	n := 0
	for _, r := range b.resources {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// SetFlag marks a material property.
func (b *Builder) SetFlag(f domain.MaterialFlags) {
	b.flags |= f
}

// Statement appends a raw statement to the body.
func (b *Builder) Statement(stmt string) {
	b.body = append(b.body, stmt)
}

func (b *Builder) let(name, expr string) {
	b.Statement("let " + name + " = " + expr + ";")
}

// WriteHeader writes the banner every generated module starts with.
func (b *Builder) WriteHeader(w *strings.Builder) {
	fmt.Fprintf(w, "// Generated by glaze. Engine: %s.\n\n", b.engine)
}

// WriteDeclarations writes one binding declaration per resource.
func (b *Builder) WriteDeclarations(w *strings.Builder) {
	if len(b.resources) == 0 {
		return
	}
	for _, r := range b.resources {
		space := ""
		if r.Kind == domain.ResourceUniform {
			space = "<uniform>"
		}
		fmt.Fprintf(w, "@group(%d) @binding(%d) var%s %s: %s;\n", r.Frequency.Group(), r.Slot, space, r.Name, r.Type)
	}
	w.WriteString("\n")
}

// WriteHelpers writes every registered helper followed by a blank line.
func (b *Builder) WriteHelpers(w *strings.Builder) {
	for _, h := range b.helpers {
		w.WriteString(h)
		w.WriteString("\n")
	}
}

// WriteBody writes the statements at one level of indentation.
func (b *Builder) WriteBody(w *strings.Builder) {
	for _, stmt := range b.body {
		w.WriteString(indent + stmt + "\n")
	}
}
