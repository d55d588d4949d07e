// Package hcladapter loads graph definitions written in HCL.
//
//	settings {
//	  workers   = 4
//	  scheduler = "ordered"
//	}
//
//	node "blur" "pre" {
//	  unit = "cpu"
//	  arguments {
//	    delay = "10ms"
//	  }
//	}
//
//	edge {
//	  from = "pre"
//	  to   = "cls"
//	}
package hcladapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/internal/fsutil"
	"github.com/specialistvlad/gridflow/pkg/config"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Settings []*settingsBlock `hcl:"settings,block"`
	Nodes    []*nodeBlock     `hcl:"node,block"`
	Edges    []*edgeBlock     `hcl:"edge,block"`
	Remain   hcl.Body         `hcl:",remain"`
}

type settingsBlock struct {
	Workers   *int    `hcl:"workers,optional"`
	Scheduler *string `hcl:"scheduler,optional"`
}

type nodeBlock struct {
	Kind      string          `hcl:"kind,label"`
	Name      string          `hcl:"name,label"`
	Unit      *string         `hcl:"unit,optional"`
	Arguments *argumentsBlock `hcl:"arguments,block"`
}

type argumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type edgeBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// Load parses every .hcl file under paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		fileModel, err := l.LoadBytes(ctx, src, file)
		if err != nil {
			return nil, err
		}
		model.Merge(fileModel)
	}

	logger.Debug("HCL loading complete.", "nodes", len(model.Nodes), "edges", len(model.Edges))
	return model, nil
}

// LoadBytes parses a single in-memory HCL document. filename is used for
// diagnostics only.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, hclFile.Body)
}

// decode translates one parsed file body into a model.
func (l *Loader) decode(ctx context.Context, file string, body hcl.Body) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	model := &config.Model{}
	for _, s := range root.Settings {
		if s.Workers != nil {
			model.Settings.Workers = *s.Workers
		}
		if s.Scheduler != nil {
			model.Settings.Scheduler = *s.Scheduler
		}
	}

	for _, n := range root.Nodes {
		decl := &config.NodeDecl{Kind: n.Kind, Name: n.Name, Source: file}
		if n.Unit != nil {
			decl.Unit = *n.Unit
		}
		if n.Arguments != nil {
			args, err := evalArguments(n.Arguments.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate arguments of node '%s' in %s: %w", n.Name, file, err)
			}
			decl.Arguments = args
		}
		logger.Debug("Translated node block.", "kind", decl.Kind, "name", decl.Name, "arguments", len(decl.Arguments))
		model.Nodes = append(model.Nodes, decl)
	}

	for _, e := range root.Edges {
		model.Edges = append(model.Edges, &config.EdgeDecl{From: e.From, To: e.To, Source: file})
	}
	return model, nil
}

// evalArguments evaluates every attribute of an arguments block. Only
// literal expressions are supported: there are no variables or functions in
// scope.
func evalArguments(body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		out[name] = val
	}
	return out, nil
}
