package internal

import (
	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// AppContext aggregates everything the CLI needs once the container has been
// built: the instance manager and the controllers to mount as subcommands.
type AppContext struct {
	manager     *application.InstanceManager
	controllers *[]entities.Controller
}

// NewAppContext creates the application context.
func NewAppContext(
	manager *application.InstanceManager,
	controllers *[]entities.Controller,
) *AppContext {
	return &AppContext{
		manager:     manager,
		controllers: controllers,
	}
}

// GetManager returns the instance manager.
func (it *AppContext) GetManager() *application.InstanceManager {
	return it.manager
}

// GetControllers returns all registered controllers.
func (it *AppContext) GetControllers() []entities.Controller {
	return *it.controllers
}
