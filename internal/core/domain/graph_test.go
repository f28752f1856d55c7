package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/zerr"
)

func passthrough(name string) *domain.Node {
	return &domain.Node{
		Name:    domain.NewInternedString(name),
		Kind:    "invert",
		Inputs:  []domain.Socket{domain.NewSocket("color", domain.SocketColor, domain.RGBA(0, 0, 0, 1))},
		Outputs: []domain.Socket{domain.NewSocket("color", domain.SocketColor, domain.Value{})},
	}
}

func names(ids []domain.InternedString) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestNodeGraph_AddNode(t *testing.T) {
	g := domain.NewNodeGraph()
	require.NoError(t, g.AddNode(passthrough("a")))

	err := g.AddNode(passthrough("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNodeAlreadyExists)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "a", zErr.Metadata()["node"])
}

func TestNodeGraph_AddNodeCopiesInput(t *testing.T) {
	g := domain.NewNodeGraph()
	n := passthrough("a")
	require.NoError(t, g.AddNode(n))

	n.Inputs[0].Default = domain.RGBA(1, 1, 1, 1)

	stored, ok := g.Node(domain.NewInternedString("a"))
	require.True(t, ok)
	assert.Equal(t, domain.RGBA(0, 0, 0, 1), stored.Inputs[0].Default)
}

func TestNodeGraph_Connect(t *testing.T) {
	value := &domain.Node{
		Name:    domain.NewInternedString("v"),
		Kind:    "value",
		Outputs: []domain.Socket{domain.NewSocket("value", domain.SocketFloat, domain.Value{})},
	}

	tests := []struct {
		name     string
		from     string
		fromSock string
		to       string
		toSock   string
		wantErr  error
	}{
		{"ok", "a", "color", "b", "color", nil},
		{"missing source node", "x", "color", "b", "color", domain.ErrMissingNode},
		{"missing target node", "a", "color", "x", "color", domain.ErrMissingNode},
		{"missing output socket", "a", "alpha", "b", "color", domain.ErrMissingSocket},
		{"missing input socket", "a", "color", "b", "alpha", domain.ErrMissingSocket},
		{"type mismatch", "v", "value", "b", "color", domain.ErrSocketTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewNodeGraph()
			require.NoError(t, g.AddNode(passthrough("a")))
			require.NoError(t, g.AddNode(passthrough("b")))
			require.NoError(t, g.AddNode(value))

			err := g.Connect(tt.from, tt.fromSock, tt.to, tt.toSock)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNodeGraph_ConnectTwiceIntoSameInput(t *testing.T) {
	g := domain.NewNodeGraph()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddNode(passthrough(n)))
	}
	require.NoError(t, g.Connect("a", "color", "c", "color"))

	err := g.Connect("b", "color", "c", "color")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputAlreadyLinked)
}

func TestNodeGraph_Output(t *testing.T) {
	g := domain.NewNodeGraph()
	_, ok := g.Output()
	assert.False(t, ok)

	require.NoError(t, g.AddNode(passthrough("a")))
	require.NoError(t, g.AddNode(passthrough("b")))

	out, ok := g.Output()
	require.True(t, ok)
	assert.Equal(t, "b", out.String())

	require.NoError(t, g.SetOutput("a"))
	out, _ = g.Output()
	assert.Equal(t, "a", out.String())

	err := g.SetOutput("missing")
	assert.ErrorIs(t, err, domain.ErrMissingNode)
}

func TestNodeGraph_Upstream(t *testing.T) {
	// a -> b -> c, d unrelated
	g := domain.NewNodeGraph()
	for _, n := range []string{"a", "b", "d", "c"} {
		require.NoError(t, g.AddNode(passthrough(n)))
	}
	require.NoError(t, g.Connect("a", "color", "b", "color"))
	require.NoError(t, g.Connect("b", "color", "c", "color"))

	order, err := g.Upstream()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(order))
}

func TestNodeGraph_UpstreamDiamond(t *testing.T) {
	// src feeds left and right, both feed mix. Inputs are visited in socket order.
	mix := &domain.Node{
		Name: domain.NewInternedString("mix"),
		Kind: "mix",
		Inputs: []domain.Socket{
			domain.NewSocket("a", domain.SocketColor, domain.Value{}),
			domain.NewSocket("b", domain.SocketColor, domain.Value{}),
		},
		Outputs: []domain.Socket{domain.NewSocket("color", domain.SocketColor, domain.Value{})},
	}

	g := domain.NewNodeGraph()
	for _, n := range []string{"src", "right", "left"} {
		require.NoError(t, g.AddNode(passthrough(n)))
	}
	require.NoError(t, g.AddNode(mix))
	require.NoError(t, g.Connect("src", "color", "left", "color"))
	require.NoError(t, g.Connect("src", "color", "right", "color"))
	require.NoError(t, g.Connect("right", "color", "mix", "b"))
	require.NoError(t, g.Connect("left", "color", "mix", "a"))

	order, err := g.Upstream()
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "left", "right", "mix"}, names(order))
}

func TestNodeGraph_UpstreamCycle(t *testing.T) {
	g := domain.NewNodeGraph()
	require.NoError(t, g.AddNode(passthrough("A")))
	require.NoError(t, g.AddNode(passthrough("B")))
	require.NoError(t, g.Connect("A", "color", "B", "color"))
	require.NoError(t, g.Connect("B", "color", "A", "color"))

	_, err := g.Upstream()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCyclicGraph)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "B -> A -> B", zErr.Metadata()["cycle"])
}

func TestNodeGraph_UpstreamEmpty(t *testing.T) {
	_, err := domain.NewNodeGraph().Upstream()
	assert.ErrorIs(t, err, domain.ErrEmptyGraph)
}

func TestNodeGraph_Clone(t *testing.T) {
	g := domain.NewNodeGraph()
	require.NoError(t, g.AddNode(passthrough("a")))
	require.NoError(t, g.AddNode(passthrough("b")))
	require.NoError(t, g.Connect("a", "color", "b", "color"))

	c := g.Clone()
	require.NoError(t, c.AddNode(passthrough("c")))

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, slices.Collect(g.Links()), slices.Collect(c.Links()))
}
