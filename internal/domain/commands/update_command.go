package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/domain/repositories"
)

// UpdateState tracks where a pipeline invocation is, or how it ended.
type UpdateState int

const (
	StateIdle UpdateState = iota
	StateMerging
	StateRunningTasks
	StateReconciling
	StateCommitted
	StateAborted
)

// String returns the human-readable label for the state.
func (s UpdateState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMerging:
		return "merging"
	case StateRunningTasks:
		return "running-tasks"
	case StateReconciling:
		return "reconciling"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// UpdateOptions holds runtime options for a single pipeline invocation.
type UpdateOptions struct {
	TaskTimeout time.Duration // per-task; zero or less means unbounded
	ToRelease   bool          // merge to the latest release tag instead of the remote head
	DryRun      bool          // report the merge target without touching the tree
}

// UpdateReport describes the outcome of one pipeline invocation.
type UpdateReport struct {
	State       UpdateState
	OldRevision string
	NewRevision string
	FailedTask  string // name of the task that aborted the run, if any
	TaskResults []entities.TaskResult
}

// Update is the interface for the instance update pipeline.
type Update interface {
	Execute(ctx context.Context, instance *entities.Instance, opts UpdateOptions) (*UpdateReport, error)
}

// UpdateCommand drives one instance update: merge the working tree forward,
// run the configured post-merge tasks in document order, then reconcile the
// filesystem. The first task failure aborts the run, leaving the tree at the
// merged-but-unintegrated state; side effects of tasks that already ran are
// not rolled back.
type UpdateCommand struct {
	vcs    repositories.VersionControlRepository
	runner *TaskRunner
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(vcs repositories.VersionControlRepository, runner *TaskRunner) *UpdateCommand {
	return &UpdateCommand{vcs: vcs, runner: runner}
}

// Execute runs the pipeline for the given instance. The caller holds the
// instance lock for the whole invocation.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	instance *entities.Instance,
	opts UpdateOptions,
) (*UpdateReport, error) {
	cfg := instance.RepoConfig
	workdir := instance.Path
	report := &UpdateReport{State: StateIdle}

	oldRevision, err := it.vcs.HeadRevision(ctx, workdir)
	if err != nil {
		return report, fmt.Errorf("failed to read current revision of %q: %w", instance.Name, err)
	}
	report.OldRevision = oldRevision

	target := ""
	if opts.ToRelease {
		tag, tagErr := it.vcs.LatestReleaseTag(ctx, workdir)
		if tagErr != nil {
			return report, fmt.Errorf("failed to resolve release tag for %q: %w", instance.Name, tagErr)
		}
		target = tag
	}

	if opts.DryRun {
		logger.Infof("[%s] [DRY RUN] Would merge %s onto revision %s",
			instance.Name, mergeTargetLabel(target), shortRevision(oldRevision))
		return report, nil
	}

	report.State = StateMerging
	newRevision, mergeErr := it.vcs.Merge(ctx, workdir, target)
	if mergeErr != nil {
		report.State = StateAborted
		return report, fmt.Errorf("merge failed for %q: %w", instance.Name, mergeErr)
	}
	report.NewRevision = newRevision
	logger.Infof("[%s] Merged %s: %s -> %s",
		instance.Name, mergeTargetLabel(target),
		shortRevision(oldRevision), shortRevision(newRevision))

	report.State = StateRunningTasks
	if taskErr := it.runTasks(ctx, instance, cfg, opts, report); taskErr != nil {
		report.State = StateAborted
		return report, taskErr
	}

	report.State = StateReconciling
	if reconcileErr := it.reconcile(ctx, workdir, cfg, newRevision); reconcileErr != nil {
		report.State = StateAborted
		return report, fmt.Errorf(
			"reconciliation failed for %q, working tree needs manual inspection: %w",
			instance.Name, reconcileErr,
		)
	}

	report.State = StateCommitted
	logger.Infof("[%s] Update committed at revision %s", instance.Name, shortRevision(newRevision))

	it.generateChangelog(ctx, instance, cfg, opts, oldRevision, newRevision)

	return report, nil
}

// runTasks executes the post-merge tasks in document order, stopping at the
// first failure.
func (it *UpdateCommand) runTasks(
	ctx context.Context,
	instance *entities.Instance,
	cfg entities.RepoConfig,
	opts UpdateOptions,
	report *UpdateReport,
) error {
	for _, task := range cfg.PostMergeTasks {
		logger.Infof("[%s] Running post-merge task %q", instance.Name, task.Name)

		result, runErr := it.runner.Run(ctx, task, instance.Path, opts.TaskTimeout)
		report.TaskResults = append(report.TaskResults, result)

		if runErr != nil {
			report.FailedTask = task.Name
			return fmt.Errorf("post-merge task %q failed: %w", task.Name, runErr)
		}
	}
	return nil
}

// reconcile realizes the merged revision on disk while honoring static
// directories and artifact link indirection, then stages the configured
// paths back to the remote.
func (it *UpdateCommand) reconcile(
	ctx context.Context,
	workdir string,
	cfg entities.RepoConfig,
	revision string,
) error {
	previousLinks, prepareErr := prepareArtifactLinks(workdir, cfg.DLLPaths)
	if prepareErr != nil {
		return prepareErr
	}

	if realizeErr := it.vcs.Realize(ctx, workdir, revision, cfg.StaticDirectories); realizeErr != nil {
		return fmt.Errorf("failed to realize revision %s: %w", shortRevision(revision), realizeErr)
	}

	if installErr := installArtifactLinks(workdir, cfg.DLLPaths, revision, previousLinks); installErr != nil {
		return installErr
	}

	if len(cfg.PathsToStage) == 0 {
		return nil
	}

	message := fmt.Sprintf("chore(update): advance working tree to %s", shortRevision(revision))
	pushed, pushErr := it.vcs.CommitAndPush(ctx, workdir, cfg.PathsToStage, message)
	if pushErr != nil {
		return fmt.Errorf("failed to stage paths back to remote: %w", pushErr)
	}
	if pushed {
		logger.Debugf("Staged %d path(s) back to the remote", len(cfg.PathsToStage))
	}
	return nil
}

// generateChangelog runs the configured changelog script with the old and
// new revisions appended to its arguments. Failures are logged, never fatal:
// the update is already committed.
func (it *UpdateCommand) generateChangelog(
	ctx context.Context,
	instance *entities.Instance,
	cfg entities.RepoConfig,
	opts UpdateOptions,
	oldRevision, newRevision string,
) {
	if !cfg.ChangelogSupported {
		return
	}

	args := strings.Fields(cfg.ChangelogArgs)
	args = append(args, oldRevision, newRevision)

	task := entities.TaskSpec{
		Name:    "changelog",
		Command: cfg.ChangelogScriptPath,
		Args:    args,
	}

	if _, err := it.runner.Run(ctx, task, instance.Path, opts.TaskTimeout); err != nil {
		logger.Warnf("[%s] Changelog generation failed: %v", instance.Name, err)
	}
}

func mergeTargetLabel(target string) string {
	if target == "" {
		return "remote head"
	}
	return "tag " + target
}
