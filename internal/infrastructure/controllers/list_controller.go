package controllers

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	manager *application.InstanceManager
}

// NewListController creates a new ListController.
func NewListController(manager *application.InstanceManager) *ListController {
	return &ListController{manager: manager}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List registered instances",
		Long:  `List every registered instance with its state and working directory.`,
	}
}

// Execute prints the registry snapshot.
func (it *ListController) Execute(_ *cobra.Command, _ []string) {
	instances := it.manager.List()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tPID\tPATH")
	for _, inst := range instances {
		state := "disabled"
		pid := "-"
		if inst.Enabled {
			state = "enabled"
			if inst.Process != nil {
				pid = fmt.Sprintf("%d", inst.Process.PID())
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", inst.Name, state, pid, inst.Path)
	}
	_ = w.Flush()
}
