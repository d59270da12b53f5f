package config

import (
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// RepoConfigFileName is the per-instance configuration document, expected at
// the root of every instance working directory.
const RepoConfigFileName = "gamehost.yaml"

// repoDocument captures the top-level sections as raw nodes so each one can
// be decoded independently: a type error in one section must not take the
// others down with it.
type repoDocument struct {
	Changelog         yaml.Node `yaml:"changelog"`
	PostMergeTasks    yaml.Node `yaml:"post_merge_tasks"`
	SynchronizePaths  yaml.Node `yaml:"synchronize_paths"`
	StaticDirectories yaml.Node `yaml:"static_directories"`
	DLLs              yaml.Node `yaml:"dlls"`
	Server            yaml.Node `yaml:"server"`
}

type changelogSection struct {
	Script          string    `yaml:"script"`
	Arguments       string    `yaml:"arguments"`
	PipDependancies yaml.Node `yaml:"pip_dependancies"`
}

type taskDocument struct {
	Name    *string   `yaml:"name"`
	Command *string   `yaml:"command"`
	Args    *[]string `yaml:"args"`
	IsShell *bool     `yaml:"isShell"`
}

type serverSection struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// RepoConfigLoader parses instance configuration documents. Loading never
// fails: a missing document or a malformed section degrades to defaults so
// a broken changelog block cannot disable post-merge tasks, and vice versa.
type RepoConfigLoader struct{}

// NewRepoConfigLoader creates a new loader.
func NewRepoConfigLoader() *RepoConfigLoader {
	return &RepoConfigLoader{}
}

// DocumentExists reports whether the instance directory carries a
// configuration document.
func (it *RepoConfigLoader) DocumentExists(instancePath string) bool {
	_, err := os.Stat(filepath.Join(instancePath, RepoConfigFileName))
	return err == nil
}

// Load reads and parses the document at the instance working directory.
func (it *RepoConfigLoader) Load(instancePath string) entities.RepoConfig {
	cfg := entities.RepoConfig{}

	docPath := filepath.Join(instancePath, RepoConfigFileName)
	data, err := os.ReadFile(docPath)
	if err != nil {
		logger.Debugf("No configuration document at %q, using defaults", docPath)
		return cfg
	}

	var doc repoDocument
	if unmarshalErr := yaml.Unmarshal(data, &doc); unmarshalErr != nil {
		logger.Warnf("Configuration document %q is not valid YAML, using defaults: %v",
			docPath, unmarshalErr)
		return cfg
	}

	it.loadChangelog(&doc.Changelog, &cfg)
	cfg.PostMergeTasks = it.loadTasks(&doc.PostMergeTasks)
	cfg.PathsToStage = decodeStringList(&doc.SynchronizePaths, "synchronize_paths")
	cfg.StaticDirectories = decodeStringList(&doc.StaticDirectories, "static_directories")
	cfg.DLLPaths = decodeStringList(&doc.DLLs, "dlls")
	it.loadServer(&doc.Server, &cfg)

	return cfg
}

// loadChangelog fills the changelog unit. The section is valid only with a
// non-empty script; pip dependencies failing to parse stay empty without
// disabling changelog support, since they are install-time only.
func (it *RepoConfigLoader) loadChangelog(node *yaml.Node, cfg *entities.RepoConfig) {
	if node.IsZero() {
		return
	}

	var section changelogSection
	if err := node.Decode(&section); err != nil {
		logger.Warnf("Malformed changelog section, changelog disabled: %v", err)
		return
	}
	if section.Script == "" {
		return
	}

	cfg.ChangelogSupported = true
	cfg.ChangelogScriptPath = section.Script
	cfg.ChangelogArgs = section.Arguments

	if section.PipDependancies.IsZero() {
		return
	}
	var deps []string
	if err := section.PipDependancies.Decode(&deps); err != nil {
		logger.Warnf("Malformed pip_dependancies list, ignoring: %v", err)
		return
	}
	cfg.PipDependencies = deps
}

// loadTasks decodes the post-merge task list in document order. A malformed
// entry is skipped; the remaining tasks still load.
func (it *RepoConfigLoader) loadTasks(node *yaml.Node) []entities.TaskSpec {
	if node.IsZero() {
		return nil
	}

	var items []yaml.Node
	if err := node.Decode(&items); err != nil {
		logger.Warnf("Malformed post_merge_tasks section, ignoring: %v", err)
		return nil
	}

	var tasks []entities.TaskSpec
	for i := range items {
		var raw taskDocument
		if err := items[i].Decode(&raw); err != nil {
			logger.Warnf("Skipping malformed task at index %d: %v", i, err)
			continue
		}

		var args []string
		if raw.Args != nil {
			args = *raw.Args
			if args == nil {
				args = []string{}
			}
		}
		task, err := entities.NewTaskSpec(
			stringValue(raw.Name), stringValue(raw.Command), args, raw.IsShell,
		)
		if err != nil {
			logger.Warnf("Skipping task at index %d: %v", i, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func (it *RepoConfigLoader) loadServer(node *yaml.Node, cfg *entities.RepoConfig) {
	if node.IsZero() {
		return
	}

	var section serverSection
	if err := node.Decode(&section); err != nil {
		logger.Warnf("Malformed server section, ignoring: %v", err)
		return
	}
	cfg.ServerCommand = section.Command
	cfg.ServerArgs = section.Args
}

func decodeStringList(node *yaml.Node, name string) []string {
	if node.IsZero() {
		return nil
	}

	var values []string
	if err := node.Decode(&values); err != nil {
		logger.Warnf("Malformed %s section, ignoring: %v", name, err)
		return nil
	}
	return values
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
