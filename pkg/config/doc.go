// Package config holds the format-agnostic description of a graph and turns
// it into a runnable graph.Graph.
//
// Format-specific loaders (HCL, YAML) translate files into a Model. Build then
// resolves each node declaration through a registry, wires the declared edges
// and applies the settings.
package config
