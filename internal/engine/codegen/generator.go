package codegen

import (
	"strconv"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/zerr"
)

// Generator emits WGSL for material node graphs.
type Generator struct {
	registry *Registry
}

// NewGenerator creates a generator dispatching on the kinds in registry.
func NewGenerator(registry *Registry) *Generator {
	return &Generator{registry: registry}
}

// Generate emits the source of every stage for the subgraph feeding the graph output.
// A nil finalize selects the default finalizer of engine.
// With optimize set, nodes whose inputs are all constant are evaluated here
// and emit no code. The graph is only read.
func (g *Generator) Generate(
	graph *domain.NodeGraph,
	engine domain.Engine,
	finalize FinalizeFunc,
	optimize bool,
) (*domain.GeneratedSource, error) {
	if finalize == nil {
		f, err := FinalizerFor(engine)
		if err != nil {
			return nil, err
		}
		finalize = f
	}

	order, err := graph.Upstream()
	if err != nil {
		return nil, err
	}

	b := newBuilder(engine)
	values := make(map[domain.InternedString]Operand, len(order))

	for i, name := range order {
		n, _ := graph.Node(name)
		kind, err := g.registry.Lookup(n.Kind)
		if err != nil {
			return nil, zerr.With(err, "node", name.String())
		}
		if err := checkSockets(&n, kind); err != nil {
			return nil, err
		}

		args, err := g.arguments(graph, &n, kind, values)
		if err != nil {
			return nil, err
		}

		if f, ok := kind.(Flagger); ok {
			b.SetFlag(f.Flags(&n, args))
		}

		out := kind.Output().Type
		if folder, ok := kind.(Folder); ok && optimize && allConst(args) {
			consts := make([]domain.Value, len(args))
			for j, a := range args {
				consts[j] = a.Value
			}
			v, err := folder.Fold(&n, consts)
			if err != nil {
				return nil, err
			}
			values[name] = Constant(out, v)
			continue
		}

		expr, err := kind.Emit(b, &n, args)
		if err != nil {
			return nil, err
		}
		tmp := "tmp" + strconv.Itoa(i)
		b.let(tmp, expr)
		values[name] = Operand{Expr: tmp, Type: out}
	}

	output, _ := graph.Output()
	stages, err := finalize(b, values[output])
	if err != nil {
		return nil, err
	}

	src := &domain.GeneratedSource{
		Engine:    engine,
		Stages:    stages,
		Resources: b.resources,
		Flags:     b.flags,
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return src, nil
}

func (g *Generator) arguments(
	graph *domain.NodeGraph,
	n *domain.Node,
	kind Kind,
	values map[domain.InternedString]Operand,
) ([]Operand, error) {
	decls := kind.Inputs()
	args := make([]Operand, len(decls))
	for i, decl := range decls {
		link, linked := graph.LinkTo(n.Name, decl.Name)
		if !linked {
			sock, _ := n.Input(decl.Name)
			args[i] = Constant(decl.Type, sock.Default)
			continue
		}

		upstream, _ := graph.Node(link.From)
		upKind, err := g.registry.Lookup(upstream.Kind)
		if err != nil {
			return nil, zerr.With(err, "node", link.From.String())
		}
		if upKind.Output().Name != link.FromSocket {
			err := zerr.With(zerr.Wrap(domain.ErrMissingSocket, ""), "node", link.From.String())
			return nil, zerr.With(err, "socket", link.FromSocket.String())
		}
		op := values[link.From]
		op.Linked = true
		args[i] = op
	}
	return args, nil
}

// checkSockets verifies that n carries exactly the sockets its kind declares.
func checkSockets(n *domain.Node, kind Kind) error {
	for _, sockets := range [][]domain.Socket{n.Inputs, n.Outputs} {
		for _, s := range sockets {
			if _, err := s.Type.WGSL(); err != nil {
				return zerr.With(zerr.With(err, "node", n.Name.String()), "socket", s.Name.String())
			}
		}
	}

	decls := kind.Inputs()
	for _, s := range n.Inputs {
		if !declared(decls, s.Name) {
			return socketError(domain.ErrMissingSocket, n, s.Name)
		}
	}
	for _, decl := range decls {
		s, ok := n.Input(decl.Name)
		if !ok {
			return socketError(domain.ErrMissingSocket, n, decl.Name)
		}
		if s.Type != decl.Type {
			return socketError(domain.ErrSocketTypeMismatch, n, decl.Name)
		}
	}

	out := kind.Output()
	s, ok := n.Output(out.Name)
	if !ok {
		return socketError(domain.ErrMissingSocket, n, out.Name)
	}
	if s.Type != out.Type {
		return socketError(domain.ErrSocketTypeMismatch, n, out.Name)
	}
	return nil
}

func declared(decls []domain.Socket, name domain.InternedString) bool {
	for _, d := range decls {
		if d.Name == name {
			return true
		}
	}
	return false
}

func socketError(base error, n *domain.Node, socket domain.InternedString) error {
	return zerr.With(zerr.With(zerr.Wrap(base, ""), "node", n.Name.String()), "socket", socket.String())
}

func allConst(args []Operand) bool {
	for _, a := range args {
		if !a.Const {
			return false
		}
	}
	return true
}
