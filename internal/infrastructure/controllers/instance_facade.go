package controllers

import (
	"context"

	"github.com/hostforge/gamehostd/internal/application"
)

// InstanceFacade is the remote-facing lifecycle surface. Every mutating
// method returns the empty string on success and a human-readable message on
// failure; remote callers distinguish outcomes only by non-emptiness. A
// transport mounts this facade; none is bundled here.
type InstanceFacade struct {
	manager *application.InstanceManager
}

// NewInstanceFacade creates a new InstanceFacade.
func NewInstanceFacade(manager *application.InstanceManager) *InstanceFacade {
	return &InstanceFacade{manager: manager}
}

// CreateInstance registers a new disabled instance at path.
func (it *InstanceFacade) CreateInstance(ctx context.Context, name, path string) string {
	return message(it.manager.CreateInstance(ctx, name, path))
}

// ImportInstance registers a pre-existing instance layout.
func (it *InstanceFacade) ImportInstance(ctx context.Context, path string) string {
	return message(it.manager.ImportInstance(ctx, path))
}

// InstanceEnabled reports the enabled flag; the second return is non-empty
// when the instance is not registered.
func (it *InstanceFacade) InstanceEnabled(name string) (bool, string) {
	enabled, err := it.manager.InstanceEnabled(name)
	return enabled, message(err)
}

// SetInstanceEnabled starts or stops the instance's server process.
func (it *InstanceFacade) SetInstanceEnabled(ctx context.Context, name string, enabled bool) string {
	return message(it.manager.SetInstanceEnabled(ctx, name, enabled))
}

// RenameInstance renames an instance; an enabled instance restarts once
// under its new identity, a brief service interruption.
func (it *InstanceFacade) RenameInstance(ctx context.Context, name, newName string) string {
	return message(it.manager.RenameInstance(ctx, name, newName))
}

// DetachInstance unregisters a disabled instance, leaving its files.
func (it *InstanceFacade) DetachInstance(name string) string {
	return message(it.manager.DetachInstance(name))
}

func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
