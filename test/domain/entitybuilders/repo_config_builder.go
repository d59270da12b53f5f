//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/hostforge/gamehostd/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// RepoConfigBuilder helps create test repo configurations with a fluent
// interface.
type RepoConfigBuilder struct {
	*testkit.BaseBuilder
	config entities.RepoConfig
}

// NewRepoConfigBuilder creates a new builder with an all-default config.
func NewRepoConfigBuilder() *RepoConfigBuilder {
	return &RepoConfigBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		config:      entities.RepoConfig{},
	}
}

// WithChangelog enables changelog support with the given script and args.
func (b *RepoConfigBuilder) WithChangelog(script, args string) *RepoConfigBuilder {
	b.config.ChangelogSupported = true
	b.config.ChangelogScriptPath = script
	b.config.ChangelogArgs = args
	return b
}

// WithPipDependencies sets the changelog runtime dependencies.
func (b *RepoConfigBuilder) WithPipDependencies(deps ...string) *RepoConfigBuilder {
	b.config.PipDependencies = deps
	return b
}

// WithTasks sets the post-merge task list, in execution order.
func (b *RepoConfigBuilder) WithTasks(tasks ...entities.TaskSpec) *RepoConfigBuilder {
	b.config.PostMergeTasks = tasks
	return b
}

// WithPathsToStage sets the paths staged back to the remote.
func (b *RepoConfigBuilder) WithPathsToStage(paths ...string) *RepoConfigBuilder {
	b.config.PathsToStage = paths
	return b
}

// WithStaticDirectories sets the update-excluded subtrees.
func (b *RepoConfigBuilder) WithStaticDirectories(dirs ...string) *RepoConfigBuilder {
	b.config.StaticDirectories = dirs
	return b
}

// WithDLLPaths sets the artifact paths requiring link indirection.
func (b *RepoConfigBuilder) WithDLLPaths(paths ...string) *RepoConfigBuilder {
	b.config.DLLPaths = paths
	return b
}

// WithServer sets the server launch command.
func (b *RepoConfigBuilder) WithServer(command string, args ...string) *RepoConfigBuilder {
	b.config.ServerCommand = command
	b.config.ServerArgs = args
	return b
}

// Build creates the config (satisfies testkit.Builder interface).
func (b *RepoConfigBuilder) Build() interface{} {
	return b.BuildRepoConfig()
}

// BuildRepoConfig creates the config with a concrete return type.
func (b *RepoConfigBuilder) BuildRepoConfig() entities.RepoConfig {
	return b.config
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepoConfigBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.config = entities.RepoConfig{}
	return b
}

// Clone creates a deep copy of the RepoConfigBuilder.
func (b *RepoConfigBuilder) Clone() testkit.Builder {
	return &RepoConfigBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		config:      b.config,
	}
}
