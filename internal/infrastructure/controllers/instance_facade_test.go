//go:build unit

package controllers_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/infrastructure/controllers"
	testdoubles "github.com/hostforge/gamehostd/test"
)

func newFacade() *controllers.InstanceFacade {
	manager := application.NewInstanceManager(
		&testdoubles.SpyProcessRepository{},
		&testdoubles.StubRepoConfigRepository{},
		&testdoubles.MemoryStateRepository{},
		&testdoubles.SpyUpdate{Report: &commands.UpdateReport{State: commands.StateCommitted}},
		commands.NewTaskRunner(),
	)
	return controllers.NewInstanceFacade(manager)
}

func TestInstanceFacade(t *testing.T) {
	t.Parallel()

	t.Run("should return the empty string on success", func(t *testing.T) {
		t.Parallel()

		// given
		facade := newFacade()
		path := filepath.Join(t.TempDir(), "valheim-main")

		// when
		result := facade.CreateInstance(context.Background(), "valheim-main", path)

		// then
		assert.Empty(t, result)
	})

	t.Run("should return a human-readable message on failure", func(t *testing.T) {
		t.Parallel()

		// given
		facade := newFacade()

		// when
		result := facade.SetInstanceEnabled(context.Background(), "ghost", true)

		// then
		assert.NotEmpty(t, result)
		assert.Contains(t, result, "ghost")
	})

	t.Run("should expose the enabled flag alongside the message", func(t *testing.T) {
		t.Parallel()

		// given
		facade := newFacade()
		path := filepath.Join(t.TempDir(), "valheim-main")
		require.Empty(t, facade.CreateInstance(context.Background(), "valheim-main", path))

		// when
		enabled, message := facade.InstanceEnabled("valheim-main")
		_, missingMessage := facade.InstanceEnabled("ghost")

		// then
		assert.False(t, enabled)
		assert.Empty(t, message)
		assert.NotEmpty(t, missingMessage)
	})

	t.Run("should drive the full lifecycle through string results", func(t *testing.T) {
		t.Parallel()

		// given
		facade := newFacade()
		path := filepath.Join(t.TempDir(), "valheim-main")
		require.Empty(t, facade.CreateInstance(context.Background(), "valheim-main", path))

		// when / then
		assert.Empty(t, facade.SetInstanceEnabled(context.Background(), "valheim-main", true))
		assert.NotEmpty(t, facade.DetachInstance("valheim-main"), "enabled instances cannot detach")
		assert.Empty(t, facade.SetInstanceEnabled(context.Background(), "valheim-main", false))
		assert.Empty(t, facade.RenameInstance(context.Background(), "valheim-main", "valheim-next"))
		assert.Empty(t, facade.DetachInstance("valheim-next"))
	})
}
