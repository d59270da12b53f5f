package main

import (
	"os"
	"strings"

	"go.uber.org/dig"

	"github.com/hostforge/gamehostd/config"
	"github.com/hostforge/gamehostd/internal"
)

func injectAppContext() *internal.AppContext {
	container := dig.New()

	// Settings are needed by providers, so resolve the config path before
	// cobra parses flags.
	if err := container.Provide(func() (*config.Settings, error) {
		return config.LoadSettings(configPathFromArgs())
	}); err != nil {
		panic(err)
	}

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get the AppContext
	var appContext *internal.AppContext
	if err := container.Invoke(func(ac *internal.AppContext) {
		appContext = ac
	}); err != nil {
		panic(err)
	}

	return appContext
}

// configPathFromArgs pre-scans os.Args for --config/-c, which must be known
// before the container is built. Falls back to the GAMEHOSTD_CONFIG env var.
func configPathFromArgs() string {
	args := os.Args[1:]
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return os.Getenv("GAMEHOSTD_CONFIG")
}
