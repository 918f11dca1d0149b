package app

import (
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/modules/homectl"
	"github.com/vk/servicecore/modules/restcommand"
	"github.com/vk/servicecore/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the servicecore binary.
var coreModules = []registry.Module{
	&homectl.Module{},
	&restcommand.Module{},
	&socketio.Module{},
}
