//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/hostforge/gamehostd/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// TaskSpecBuilder helps create test task specs with a fluent interface.
type TaskSpecBuilder struct {
	*testkit.BaseBuilder
	name    string
	command string
	args    []string
	isShell bool
}

// NewTaskSpecBuilder creates a new task spec builder with sensible defaults.
func NewTaskSpecBuilder() *TaskSpecBuilder {
	return &TaskSpecBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-task",
		command:     "true",
		args:        []string{},
		isShell:     false,
	}
}

// WithName sets the task name.
func (b *TaskSpecBuilder) WithName(name string) *TaskSpecBuilder {
	b.name = name
	return b
}

// WithCommand sets the executable or shell target.
func (b *TaskSpecBuilder) WithCommand(command string) *TaskSpecBuilder {
	b.command = command
	return b
}

// WithArgs sets the argument list.
func (b *TaskSpecBuilder) WithArgs(args ...string) *TaskSpecBuilder {
	b.args = args
	return b
}

// AsShell marks the task for shell interpretation.
func (b *TaskSpecBuilder) AsShell() *TaskSpecBuilder {
	b.isShell = true
	return b
}

// Build creates the task spec (satisfies testkit.Builder interface).
func (b *TaskSpecBuilder) Build() interface{} {
	return b.BuildTaskSpec()
}

// BuildTaskSpec creates the task spec with a concrete return type.
func (b *TaskSpecBuilder) BuildTaskSpec() entities.TaskSpec {
	return entities.TaskSpec{
		Name:    b.name,
		Command: b.command,
		Args:    b.args,
		IsShell: b.isShell,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *TaskSpecBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-task"
	b.command = "true"
	b.args = []string{}
	b.isShell = false
	return b
}

// Clone creates a deep copy of the TaskSpecBuilder.
func (b *TaskSpecBuilder) Clone() testkit.Builder {
	args := make([]string, len(b.args))
	copy(args, b.args)
	return &TaskSpecBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		command:     b.command,
		args:        args,
		isShell:     b.isShell,
	}
}
