package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/gridflow/pkg/config"
	"github.com/specialistvlad/gridflow/pkg/hcladapter"
	"github.com/specialistvlad/gridflow/pkg/yamladapter"
)

// multiLoader runs several loaders over the same paths and merges the
// results in order.
type multiLoader []config.Loader

func (m multiLoader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	model := &config.Model{}
	for _, l := range m {
		part, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		model.Merge(part)
	}
	return model, nil
}

// loaderFor picks a loader from the extension of path. Directories, and
// anything else without a known extension, are read with both formats.
func loaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hcladapter.NewLoader()
	case ".yaml", ".yml":
		return yamladapter.NewLoader()
	default:
		return multiLoader{hcladapter.NewLoader(), yamladapter.NewLoader()}
	}
}
