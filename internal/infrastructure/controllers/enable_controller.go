package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// EnableController handles the "enable" subcommand.
type EnableController struct {
	manager *application.InstanceManager
}

// NewEnableController creates a new EnableController.
func NewEnableController(manager *application.InstanceManager) *EnableController {
	return &EnableController{manager: manager}
}

// GetBind returns the Cobra command metadata for the enable controller.
func (it *EnableController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "enable <name>",
		Short: "Start an instance's server process",
		Long: `Start the supervised server process of a registered instance.

Enabling an already-enabled instance is a successful no-op.`,
	}
}

// Execute runs the enable operation.
func (it *EnableController) Execute(_ *cobra.Command, args []string) {
	if len(args) != 1 {
		logger.Error("Usage: gamehostd enable <name>")
		return
	}

	if err := it.manager.SetInstanceEnabled(context.Background(), args[0], true); err != nil {
		logger.Errorf("Enable failed: %v", err)
	}
}

// DisableController handles the "disable" subcommand.
type DisableController struct {
	manager *application.InstanceManager
}

// NewDisableController creates a new DisableController.
func NewDisableController(manager *application.InstanceManager) *DisableController {
	return &DisableController{manager: manager}
}

// GetBind returns the Cobra command metadata for the disable controller.
func (it *DisableController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "disable <name>",
		Short: "Stop an instance's server process",
		Long: `Stop the supervised server process of a registered instance.

Disabling an already-disabled instance is a successful no-op.`,
	}
}

// Execute runs the disable operation.
func (it *DisableController) Execute(_ *cobra.Command, args []string) {
	if len(args) != 1 {
		logger.Error("Usage: gamehostd disable <name>")
		return
	}

	if err := it.manager.SetInstanceEnabled(context.Background(), args[0], false); err != nil {
		logger.Errorf("Disable failed: %v", err)
	}
}
