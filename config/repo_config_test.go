package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostforge/gamehostd/config"
)

func writeDocument(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, config.RepoConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

func TestRepoConfigLoaderLoad(t *testing.T) {
	t.Parallel()

	t.Run("should return defaults when the document is absent", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := t.TempDir()

		// when
		cfg := loader.Load(dir)

		// then
		assert.False(t, cfg.ChangelogSupported)
		assert.Empty(t, cfg.ChangelogScriptPath)
		assert.Empty(t, cfg.PostMergeTasks)
		assert.Empty(t, cfg.PathsToStage)
		assert.Empty(t, cfg.StaticDirectories)
		assert.Empty(t, cfg.DLLPaths)
	})

	t.Run("should load every section from a complete document", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
changelog:
  script: tools/changelog.py
  arguments: --format markdown
  pip_dependancies: [requests, jinja2]
post_merge_tasks:
  - name: build
    command: make
    args: [all]
    isShell: false
  - name: perms
    command: chmod +x server
    args: []
    isShell: true
synchronize_paths: [CHANGELOG.md]
static_directories: [data/saves]
dlls: [bin/game.dll]
server:
  command: ./server
  args: [--port, "7777"]
`)

		// when
		cfg := loader.Load(dir)

		// then
		assert.True(t, cfg.ChangelogSupported)
		assert.Equal(t, "tools/changelog.py", cfg.ChangelogScriptPath)
		assert.Equal(t, "--format markdown", cfg.ChangelogArgs)
		assert.Equal(t, []string{"requests", "jinja2"}, cfg.PipDependencies)
		require.Len(t, cfg.PostMergeTasks, 2)
		assert.Equal(t, "build", cfg.PostMergeTasks[0].Name)
		assert.False(t, cfg.PostMergeTasks[0].IsShell)
		assert.Equal(t, "perms", cfg.PostMergeTasks[1].Name)
		assert.True(t, cfg.PostMergeTasks[1].IsShell)
		assert.Equal(t, []string{"CHANGELOG.md"}, cfg.PathsToStage)
		assert.Equal(t, []string{"data/saves"}, cfg.StaticDirectories)
		assert.Equal(t, []string{"bin/game.dll"}, cfg.DLLPaths)
		assert.Equal(t, "./server", cfg.ServerCommand)
		assert.Equal(t, []string{"--port", "7777"}, cfg.ServerArgs)
	})

	t.Run("should be idempotent for a well-formed document", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
post_merge_tasks:
  - name: build
    command: make
    args: [all]
    isShell: false
static_directories: [data/saves, data/mods]
`)

		// when
		first := loader.Load(dir)
		second := loader.Load(dir)

		// then
		assert.True(t, first.Equal(second))
	})

	t.Run("should disable changelog when the section is absent", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
static_directories: [data/saves]
`)

		// when
		cfg := loader.Load(dir)

		// then
		assert.False(t, cfg.ChangelogSupported)
		assert.Empty(t, cfg.ChangelogScriptPath)
		assert.Empty(t, cfg.ChangelogArgs)
	})

	t.Run("should not let a malformed changelog section disable tasks", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
changelog: "this should be a mapping"
post_merge_tasks:
  - name: build
    command: make
    args: []
    isShell: false
`)

		// when
		cfg := loader.Load(dir)

		// then
		assert.False(t, cfg.ChangelogSupported)
		require.Len(t, cfg.PostMergeTasks, 1)
		assert.Equal(t, "build", cfg.PostMergeTasks[0].Name)
	})

	t.Run("should keep changelog support when pip dependencies are malformed", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
changelog:
  script: tools/changelog.py
  arguments: ""
  pip_dependancies: {not: a list}
`)

		// when
		cfg := loader.Load(dir)

		// then
		assert.True(t, cfg.ChangelogSupported)
		assert.Equal(t, "tools/changelog.py", cfg.ChangelogScriptPath)
		assert.Empty(t, cfg.PipDependencies)
	})

	t.Run("should skip malformed tasks and keep the rest in order", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
post_merge_tasks:
  - name: first
    command: "true"
    args: []
    isShell: false
  - name: broken
    command: make
  - name: last
    command: "true"
    args: []
    isShell: false
`)

		// when
		cfg := loader.Load(dir)

		// then
		require.Len(t, cfg.PostMergeTasks, 2)
		assert.Equal(t, "first", cfg.PostMergeTasks[0].Name)
		assert.Equal(t, "last", cfg.PostMergeTasks[1].Name)
	})

	t.Run("should ignore a malformed path list without failing the rest", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, `
synchronize_paths: {oops: true}
dlls: [bin/game.dll]
`)

		// when
		cfg := loader.Load(dir)

		// then
		assert.Empty(t, cfg.PathsToStage)
		assert.Equal(t, []string{"bin/game.dll"}, cfg.DLLPaths)
	})

	t.Run("should return defaults for an invalid YAML document", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		dir := writeDocument(t, "\t: not yaml: [")

		// when
		cfg := loader.Load(dir)

		// then
		assert.False(t, cfg.ChangelogSupported)
		assert.Empty(t, cfg.PostMergeTasks)
	})
}

func TestRepoConfigLoaderDocumentExists(t *testing.T) {
	t.Parallel()

	t.Run("should report true only when the document is present", func(t *testing.T) {
		t.Parallel()

		// given
		loader := config.NewRepoConfigLoader()
		with := writeDocument(t, "dlls: []\n")
		without := t.TempDir()

		// when / then
		assert.True(t, loader.DocumentExists(with))
		assert.False(t, loader.DocumentExists(without))
	})
}
