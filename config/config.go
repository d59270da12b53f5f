package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Settings holds daemon-level configuration, distinct from the per-instance
// documents handled by the RepoConfigLoader.
type Settings struct {
	// StateFile is where the instance registry snapshot lives.
	StateFile string
	// InstancesRoot is the default parent directory for created instances.
	InstancesRoot string
	// DefaultTaskTimeout bounds post-merge task execution when the caller
	// does not override it. Zero means unbounded.
	DefaultTaskTimeout time.Duration
	// LogLevel is a logrus level name.
	LogLevel string
}

// LoadSettings reads daemon settings from the given file, or from the
// standard locations when path is empty. A missing file in the standard
// locations yields defaults; an explicitly named file must exist.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("state_file", defaultPath("state.yaml"))
	v.SetDefault("instances_root", defaultPath("instances"))
	v.SetDefault("default_task_timeout_ms", 0)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("GAMEHOSTD")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gamehostd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gamehostd"))
		}
		v.AddConfigPath("/etc/gamehostd")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Settings{
		StateFile:          v.GetString("state_file"),
		InstancesRoot:      v.GetString("instances_root"),
		DefaultTaskTimeout: time.Duration(v.GetInt("default_task_timeout_ms")) * time.Millisecond,
		LogLevel:           v.GetString("log_level"),
	}, nil
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gamehostd", name)
	}
	return filepath.Join(home, ".local", "share", "gamehostd", name)
}
