package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// ImportController handles the "import" subcommand.
type ImportController struct {
	manager *application.InstanceManager
}

// NewImportController creates a new ImportController.
func NewImportController(manager *application.InstanceManager) *ImportController {
	return &ImportController{manager: manager}
}

// GetBind returns the Cobra command metadata for the import controller.
func (it *ImportController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "import <path>",
		Short: "Register a pre-existing instance directory",
		Long: `Register a pre-existing instance layout without touching its data.

The directory must carry a gamehost.yaml document; the instance name
is the directory's base name.`,
	}
}

// Execute runs the import operation.
func (it *ImportController) Execute(_ *cobra.Command, args []string) {
	if len(args) != 1 {
		logger.Error("Usage: gamehostd import <path>")
		return
	}

	if err := it.manager.ImportInstance(context.Background(), args[0]); err != nil {
		logger.Errorf("Import failed: %v", err)
	}
}
