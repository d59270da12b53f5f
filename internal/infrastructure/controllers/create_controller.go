package controllers

import (
	"context"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostforge/gamehostd/config"
	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// CreateController handles the "create" subcommand.
type CreateController struct {
	manager  *application.InstanceManager
	settings *config.Settings
}

// NewCreateController creates a new CreateController.
func NewCreateController(manager *application.InstanceManager, settings *config.Settings) *CreateController {
	return &CreateController{manager: manager, settings: settings}
}

// GetBind returns the Cobra command metadata for the create controller.
func (it *CreateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "create <name> [path]",
		Short: "Create and register a new instance",
		Long: `Create and register a new game-server instance.

The directory is created when missing and the instance starts out
disabled, with its configuration loaded from the directory's
gamehost.yaml document. When no path is given, the instance lives
under the configured instances root.`,
	}
}

// Execute runs the create operation.
func (it *CreateController) Execute(_ *cobra.Command, args []string) {
	if len(args) < 1 || len(args) > 2 {
		logger.Error("Usage: gamehostd create <name> [path]")
		return
	}

	name := args[0]
	path := filepath.Join(it.settings.InstancesRoot, name)
	if len(args) == 2 {
		path = args[1]
	}

	if err := it.manager.CreateInstance(context.Background(), name, path); err != nil {
		logger.Errorf("Create failed: %v", err)
	}
}
