package controllers

import (
	"go.uber.org/dig"

	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	constructors := []interface{}{
		NewCreateController,
		NewImportController,
		NewEnableController,
		NewDisableController,
		NewRenameController,
		NewDetachController,
		NewListController,
		NewUpdateController,
		NewInstanceFacade,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return container.Provide(NewControllers)
}

// NewControllers aggregates all controllers into a slice for the AppContext.
func NewControllers(
	createController *CreateController,
	importController *ImportController,
	enableController *EnableController,
	disableController *DisableController,
	renameController *RenameController,
	detachController *DetachController,
	listController *ListController,
	updateController *UpdateController,
) *[]entities.Controller {
	return &[]entities.Controller{
		createController,
		importController,
		enableController,
		disableController,
		renameController,
		detachController,
		listController,
		updateController,
	}
}
