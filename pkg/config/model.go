package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified representation of one or more graph definition files.
type Model struct {
	Settings Settings
	Nodes    []*NodeDecl
	Edges    []*EdgeDecl
}

// Settings are run-level options declared in a definition file. Zero values
// mean "not set".
type Settings struct {
	Workers   int
	Scheduler string
}

// NodeDecl is the format-agnostic representation of a `node` block.
type NodeDecl struct {
	Kind string
	Name string
	// Unit is the raw compute unit name; empty means the kind's default.
	Unit      string
	Arguments map[string]cty.Value
	// Source is the file the declaration came from, for error messages.
	Source string
}

// EdgeDecl is the format-agnostic representation of an `edge` block.
type EdgeDecl struct {
	From   string
	To     string
	Source string
}

// Merge folds other into m. Nodes and edges are appended; non-zero settings
// in other win.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if other.Settings.Workers != 0 {
		m.Settings.Workers = other.Settings.Workers
	}
	if other.Settings.Scheduler != "" {
		m.Settings.Scheduler = other.Settings.Scheduler
	}
	m.Nodes = append(m.Nodes, other.Nodes...)
	m.Edges = append(m.Edges, other.Edges...)
}
