package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// RenameController handles the "rename" subcommand.
type RenameController struct {
	manager *application.InstanceManager
}

// NewRenameController creates a new RenameController.
func NewRenameController(manager *application.InstanceManager) *RenameController {
	return &RenameController{manager: manager}
}

// GetBind returns the Cobra command metadata for the rename controller.
func (it *RenameController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "rename <name> <new-name>",
		Short: "Rename a registered instance",
		Long: `Rename a registered instance.

An enabled instance is disabled, renamed, and re-enabled, so its
server process restarts once under the new identity. Callers see a
brief service interruption.`,
	}
}

// Execute runs the rename operation.
func (it *RenameController) Execute(_ *cobra.Command, args []string) {
	if len(args) != 2 {
		logger.Error("Usage: gamehostd rename <name> <new-name>")
		return
	}

	if err := it.manager.RenameInstance(context.Background(), args[0], args[1]); err != nil {
		logger.Errorf("Rename failed: %v", err)
	}
}

// DetachController handles the "detach" subcommand.
type DetachController struct {
	manager *application.InstanceManager
}

// NewDetachController creates a new DetachController.
func NewDetachController(manager *application.InstanceManager) *DetachController {
	return &DetachController{manager: manager}
}

// GetBind returns the Cobra command metadata for the detach controller.
func (it *DetachController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "detach <name>",
		Short: "Unregister an instance, keeping its files",
		Long: `Unregister a disabled instance without touching its on-disk data.

The directory remains manually manageable afterwards. Enabled
instances must be disabled first.`,
	}
}

// Execute runs the detach operation.
func (it *DetachController) Execute(_ *cobra.Command, args []string) {
	if len(args) != 1 {
		logger.Error("Usage: gamehostd detach <name>")
		return
	}

	if err := it.manager.DetachInstance(args[0]); err != nil {
		logger.Errorf("Detach failed: %v", err)
	}
}
