package controllers

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	manager *application.InstanceManager
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(manager *application.InstanceManager) *UpdateController {
	return &UpdateController{manager: manager}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update <name>",
		Short: "Run the update pipeline on an instance",
		Long: `Advance the instance's working tree, run its post-merge tasks in
document order, and reconcile the filesystem.

The first failing task aborts the run, leaving the tree at the
merged-but-unintegrated state for inspection. Side effects of tasks
that already ran are not rolled back.`,
	}
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Int("task-timeout-ms", 0, "Per-task timeout in milliseconds (0 = unbounded)")
	cmd.Flags().Bool("release", false, "Merge to the latest release tag instead of the remote head")
}

// Execute runs the update pipeline.
func (it *UpdateController) Execute(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		logger.Error("Usage: gamehostd update <name>")
		return
	}

	timeoutMillis, _ := cmd.Flags().GetInt("task-timeout-ms")
	toRelease, _ := cmd.Flags().GetBool("release")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	report, err := it.manager.UpdateInstance(context.Background(), args[0], commands.UpdateOptions{
		TaskTimeout: time.Duration(timeoutMillis) * time.Millisecond,
		ToRelease:   toRelease,
		DryRun:      dryRun,
	})
	if err != nil {
		logger.Errorf("Update failed (%s): %v", reportState(report), err)
		return
	}
	if report != nil && report.State == commands.StateCommitted {
		logger.Infof("Update committed: %s", report.NewRevision)
	}
}

func reportState(report *commands.UpdateReport) string {
	if report == nil {
		return commands.StateIdle.String()
	}
	return report.State.String()
}
