package app

import (
	"github.com/specialistvlad/gridflow/modules/blur"
	"github.com/specialistvlad/gridflow/modules/classify"
	"github.com/specialistvlad/gridflow/modules/edgedetect"
	"github.com/specialistvlad/gridflow/pkg/registry"
)

// coreModules is the list of node modules registered when NewApp is given
// none.
var coreModules = []registry.Module{
	&blur.Module{},
	&classify.Module{},
	&edgedetect.Module{},
}
