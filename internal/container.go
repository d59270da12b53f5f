package internal

import (
	"go.uber.org/dig"

	"github.com/hostforge/gamehostd/internal/application"
	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/infrastructure/controllers"
	"github.com/hostforge/gamehostd/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register all layers (bottom-up: infrastructure repos -> domain entities -> domain commands -> application -> controllers)
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := entities.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := application.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	// Register the main app context
	if err := container.Provide(NewAppContext); err != nil {
		return err
	}

	return nil
}
