package repositories

import (
	"go.uber.org/dig"

	"github.com/hostforge/gamehostd/config"
	domainRepos "github.com/hostforge/gamehostd/internal/domain/repositories"
	gitRepo "github.com/hostforge/gamehostd/internal/infrastructure/repositories/git"
	processRepo "github.com/hostforge/gamehostd/internal/infrastructure/repositories/process"
	stateRepo "github.com/hostforge/gamehostd/internal/infrastructure/repositories/state"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(gitRepo.NewGitVersionControlRepository); err != nil {
		return err
	}
	if err := container.Provide(processRepo.NewExecProcessRepository); err != nil {
		return err
	}
	if err := container.Provide(func(settings *config.Settings) domainRepos.StateRepository {
		return stateRepo.NewYAMLStateRepository(settings.StateFile)
	}); err != nil {
		return err
	}
	if err := container.Provide(config.NewRepoConfigLoader); err != nil {
		return err
	}
	if err := container.Provide(func(impl *config.RepoConfigLoader) domainRepos.RepoConfigRepository {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
