// Package yamladapter loads graph definitions written in YAML.
//
//	settings:
//	  workers: 4
//	  scheduler: ordered
//	nodes:
//	  - kind: blur
//	    name: pre
//	    unit: cpu
//	    arguments:
//	      delay: 10ms
//	edges:
//	  - from: pre
//	    to: cls
package yamladapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/internal/fsutil"
	"github.com/specialistvlad/gridflow/pkg/config"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

type document struct {
	Settings struct {
		Workers   int    `yaml:"workers"`
		Scheduler string `yaml:"scheduler"`
	} `yaml:"settings"`
	Nodes []struct {
		Kind      string         `yaml:"kind"`
		Name      string         `yaml:"name"`
		Unit      string         `yaml:"unit,omitempty"`
		Arguments map[string]any `yaml:"arguments,omitempty"`
	} `yaml:"nodes"`
	Edges []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"edges"`
}

// Load parses every .yaml and .yml file under paths and merges them into one
// model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		fileModel, err := l.LoadBytes(ctx, src, file)
		if err != nil {
			return nil, err
		}
		model.Merge(fileModel)
	}

	logger.Debug("YAML loading complete.", "nodes", len(model.Nodes), "edges", len(model.Edges))
	return model, nil
}

// LoadBytes parses a single in-memory YAML document. filename is used for
// error messages only.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	model := &config.Model{}
	model.Settings.Workers = doc.Settings.Workers
	model.Settings.Scheduler = doc.Settings.Scheduler

	for i, n := range doc.Nodes {
		if n.Kind == "" || n.Name == "" {
			return nil, fmt.Errorf("node #%d in %s: 'kind' and 'name' are required", i, filename)
		}
		decl := &config.NodeDecl{Kind: n.Kind, Name: n.Name, Unit: n.Unit, Source: filename}
		if n.Arguments != nil {
			decl.Arguments = make(map[string]cty.Value, len(n.Arguments))
			for k, v := range n.Arguments {
				val, err := toCty(v)
				if err != nil {
					return nil, fmt.Errorf("argument '%s' of node '%s' in %s: %w", k, n.Name, filename, err)
				}
				decl.Arguments[k] = val
			}
		}
		model.Nodes = append(model.Nodes, decl)
	}

	for i, e := range doc.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("edge #%d in %s: 'from' and 'to' are required", i, filename)
		}
		model.Edges = append(model.Edges, &config.EdgeDecl{From: e.From, To: e.To, Source: filename})
	}

	ctxlog.FromContext(ctx).Debug("Translated YAML document.", "file", filename, "nodes", len(model.Nodes), "edges", len(model.Edges))
	return model, nil
}

// toCty converts a value produced by the YAML decoder into a cty.Value.
func toCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case uint64:
		return cty.NumberUIntVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			val, err := toCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = val
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make(map[string]cty.Value, len(t))
		for _, k := range keys {
			val, err := toCty(t[k])
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = val
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported YAML value of type %T", v)
}
