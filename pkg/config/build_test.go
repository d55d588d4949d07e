package config

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridflow/internal/testutil"
	"github.com/specialistvlad/gridflow/pkg/graph"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type echoModule struct {
	seenArgs map[string]map[string]cty.Value
}

func (m *echoModule) Register(r *registry.Registry) {
	r.Register("echo", &registry.Definition{
		DefaultUnit: node.CPU,
		New: func(spec registry.Spec) (node.Node, error) {
			m.seenArgs[spec.Name] = spec.Arguments
			return node.NewFunc(spec.Name, spec.Unit, func(context.Context, node.Node) error { return nil }), nil
		},
	})
}

func newEchoRegistry() (*registry.Registry, *echoModule) {
	m := &echoModule{seenArgs: make(map[string]map[string]cty.Value)}
	return registry.New(m), m
}

func TestBuild_WiresNodesAndEdges(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	reg, mod := newEchoRegistry()
	model := &Model{
		Nodes: []*NodeDecl{
			{Kind: "echo", Name: "a", Arguments: map[string]cty.Value{"delay": cty.StringVal("1ms")}},
			{Kind: "echo", Name: "b", Unit: "gpu"},
		},
		Edges: []*EdgeDecl{{From: "a", To: "b"}},
	}

	g, err := Build(ctx, model, reg)
	require.NoError(t, err)

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, node.CPU, nodes[0].ComputeUnit())
	assert.Equal(t, node.GPU, nodes[1].ComputeUnit())
	require.Len(t, g.Edges(), 1)
	assert.Same(t, nodes[0].Output(), nodes[1].Input())
	assert.Equal(t, graph.DefaultBufferSize, nodes[1].Input().Size())
	assert.Equal(t, cty.StringVal("1ms"), mod.seenArgs["a"]["delay"])
}

func TestBuild_AppliesSettings(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	reg, _ := newEchoRegistry()
	model := &Model{Settings: Settings{Workers: 6, Scheduler: "ordered"}}

	g, err := Build(ctx, model, reg)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Workers())

	g, err = Build(ctx, model, reg, graph.WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Workers(), "caller options win over file settings")
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   *Model
		wantErr error
		wantMsg string
	}{
		{
			name:    "duplicate node",
			model:   &Model{Nodes: []*NodeDecl{{Kind: "echo", Name: "a"}, {Kind: "echo", Name: "a", Source: "two.hcl"}}},
			wantErr: ErrDuplicateNode,
			wantMsg: "two.hcl",
		},
		{
			name:    "unknown edge source",
			model:   &Model{Nodes: []*NodeDecl{{Kind: "echo", Name: "a"}}, Edges: []*EdgeDecl{{From: "ghost", To: "a"}}},
			wantErr: ErrUnknownNode,
			wantMsg: "ghost",
		},
		{
			name:    "unknown edge target",
			model:   &Model{Nodes: []*NodeDecl{{Kind: "echo", Name: "a"}}, Edges: []*EdgeDecl{{From: "a", To: "ghost"}}},
			wantErr: ErrUnknownNode,
			wantMsg: "ghost",
		},
		{
			name:    "unknown kind",
			model:   &Model{Nodes: []*NodeDecl{{Kind: "sharpen", Name: "a"}}},
			wantErr: registry.ErrUnknownKind,
		},
		{
			name:    "bad unit",
			model:   &Model{Nodes: []*NodeDecl{{Kind: "echo", Name: "a", Unit: "fpga"}}},
			wantMsg: "unknown compute unit",
		},
		{
			name:    "negative workers",
			model:   &Model{Settings: Settings{Workers: -4}},
			wantErr: ErrNegativeWorkers,
			wantMsg: "-4",
		},
		{
			name:    "bad scheduler",
			model:   &Model{Settings: Settings{Scheduler: "fastest"}},
			wantMsg: "unknown scheduler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testutil.LoggedContext()
			reg, _ := newEchoRegistry()
			_, err := Build(ctx, tt.model, reg)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestModel_Merge(t *testing.T) {
	m := &Model{Settings: Settings{Workers: 2, Scheduler: "default"}, Nodes: []*NodeDecl{{Name: "a"}}}
	m.Merge(&Model{Settings: Settings{Workers: 4}, Nodes: []*NodeDecl{{Name: "b"}}, Edges: []*EdgeDecl{{From: "a", To: "b"}}})
	m.Merge(nil)

	assert.Equal(t, 4, m.Settings.Workers)
	assert.Equal(t, "default", m.Settings.Scheduler)
	assert.Len(t, m.Nodes, 2)
	assert.Len(t, m.Edges, 1)
}
