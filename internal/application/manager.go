package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/domain/repositories"
)

const pipInstallTimeout = 5 * time.Minute

// instanceLock is a reference-counted per-name mutex. The count tracks every
// caller that fetched the lock, so an entry leaves the map only once nobody
// can still be holding or waiting on it.
type instanceLock struct {
	sync.Mutex
	refs int
}

// InstanceManager is the registry of game-server instances. Every lifecycle
// operation and update pipeline run on an instance holds that instance's
// exclusive lock for its whole duration; unrelated instances never block
// each other.
type InstanceManager struct {
	mu        sync.Mutex // guards the two maps below, never held across blocking work
	instances map[string]*entities.Instance
	locks     map[string]*instanceLock

	procs   repositories.ProcessRepository
	configs repositories.RepoConfigRepository
	state   repositories.StateRepository
	update  commands.Update
	runner  *commands.TaskRunner
}

// NewInstanceManager creates an empty registry.
func NewInstanceManager(
	procs repositories.ProcessRepository,
	configs repositories.RepoConfigRepository,
	state repositories.StateRepository,
	update commands.Update,
	runner *commands.TaskRunner,
) *InstanceManager {
	return &InstanceManager{
		instances: make(map[string]*entities.Instance),
		locks:     make(map[string]*instanceLock),
		procs:     procs,
		configs:   configs,
		state:     state,
		update:    update,
		runner:    runner,
	}
}

// Restore reloads the persisted registry and restarts the instances that
// were enabled when the daemon last ran. Called once at startup, before the
// manager serves requests.
func (it *InstanceManager) Restore(ctx context.Context) error {
	records, err := it.state.Load()
	if err != nil {
		return fmt.Errorf("failed to load registry state: %w", err)
	}

	for _, record := range records {
		inst := &entities.Instance{
			Name:       record.Name,
			Path:       record.Path,
			RepoConfig: it.configs.Load(record.Path),
		}
		if registerErr := it.register(inst); registerErr != nil {
			return registerErr
		}

		if !record.Enabled {
			continue
		}

		// Reattach to a server that survived the previous run; start a
		// fresh one only when it died in the meantime.
		if handle, alive := it.procs.Attach(record.PID); alive {
			inst.Process = handle
			inst.Enabled = true
			logger.Debugf("Reattached instance %q to pid %d", record.Name, record.PID)
			continue
		}
		if enableErr := it.SetInstanceEnabled(ctx, record.Name, true); enableErr != nil {
			logger.Errorf("Failed to restart instance %q: %v", record.Name, enableErr)
		}
	}

	return nil
}

// CreateInstance registers a new disabled instance rooted at path, creating
// the directory when missing. It fails when the name is taken or the path is
// not writable.
func (it *InstanceManager) CreateInstance(ctx context.Context, name, path string) error {
	lock := it.lockFor(name)
	lock.Lock()
	defer it.unlock(name, lock)

	if it.lookup(name) != nil {
		return fmt.Errorf("%w: %q", entities.ErrInstanceExists, name)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid instance path %q: %w", path, err)
	}
	if usableErr := ensureUsableDirectory(abs); usableErr != nil {
		return fmt.Errorf("instance path %q is not usable: %w", path, usableErr)
	}

	inst := &entities.Instance{
		Name:       name,
		Path:       abs,
		RepoConfig: it.configs.Load(abs),
	}
	if registerErr := it.register(inst); registerErr != nil {
		return registerErr
	}
	it.persist()

	it.installPipDependencies(ctx, inst)

	logger.Infof("Created instance %q at %s", name, abs)
	return nil
}

// ImportInstance registers a pre-existing instance layout. The instance name
// is the directory base name. It fails when the directory does not carry a
// configuration document.
func (it *InstanceManager) ImportInstance(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid instance path %q: %w", path, err)
	}

	info, statErr := os.Stat(abs)
	if statErr != nil || !info.IsDir() {
		return fmt.Errorf("path %q is not an instance directory", path)
	}
	if !it.configs.DocumentExists(abs) {
		return fmt.Errorf("path %q is not recognized as an instance layout (no configuration document)", path)
	}

	name := filepath.Base(abs)
	lock := it.lockFor(name)
	lock.Lock()
	defer it.unlock(name, lock)

	if it.lookup(name) != nil {
		return fmt.Errorf("%w: %q", entities.ErrInstanceExists, name)
	}

	inst := &entities.Instance{
		Name:       name,
		Path:       abs,
		RepoConfig: it.configs.Load(abs),
	}
	if registerErr := it.register(inst); registerErr != nil {
		return registerErr
	}
	it.persist()

	it.installPipDependencies(ctx, inst)

	logger.Infof("Imported instance %q from %s", name, abs)
	return nil
}

// InstanceEnabled reports the current enabled flag. Pure read, no side
// effect.
func (it *InstanceManager) InstanceEnabled(name string) (bool, error) {
	lock := it.lockFor(name)
	lock.Lock()
	defer it.unlock(name, lock)

	inst := it.lookup(name)
	if inst == nil {
		return false, fmt.Errorf("%w: %q", entities.ErrInstanceNotFound, name)
	}
	return inst.Enabled, nil
}

// SetInstanceEnabled starts or stops the instance's server process.
// Idempotent: enabling an enabled instance or disabling a disabled one is a
// successful no-op.
func (it *InstanceManager) SetInstanceEnabled(ctx context.Context, name string, enabled bool) error {
	lock := it.lockFor(name)
	lock.Lock()
	defer it.unlock(name, lock)

	inst := it.lookup(name)
	if inst == nil {
		return fmt.Errorf("%w: %q", entities.ErrInstanceNotFound, name)
	}
	if inst.Enabled == enabled {
		return nil
	}

	if enabled {
		if err := it.startLocked(ctx, inst); err != nil {
			return err
		}
	} else {
		it.stopLocked(inst)
	}
	it.persist()
	return nil
}

// RenameInstance changes an instance's registry key. An enabled instance is
// disabled, renamed, and re-enabled, so its process restarts under the new
// identity; callers see a brief service interruption.
//
// Both name locks are held for the whole operation, taken in sorted order so
// two concurrent renames cannot deadlock. Reserving the new name before the
// server stops keeps concurrent operations on either name serialized against
// the rename.
func (it *InstanceManager) RenameInstance(ctx context.Context, name, newName string) error {
	if name == newName {
		lock := it.lockFor(name)
		lock.Lock()
		defer it.unlock(name, lock)

		if it.lookup(name) == nil {
			return fmt.Errorf("%w: %q", entities.ErrInstanceNotFound, name)
		}
		return fmt.Errorf("%w: %q", entities.ErrInstanceExists, newName)
	}

	first, second := name, newName
	if second < first {
		first, second = second, first
	}
	firstLock := it.lockFor(first)
	firstLock.Lock()
	defer it.unlock(first, firstLock)
	secondLock := it.lockFor(second)
	secondLock.Lock()
	defer it.unlock(second, secondLock)

	inst := it.lookup(name)
	if inst == nil {
		return fmt.Errorf("%w: %q", entities.ErrInstanceNotFound, name)
	}
	if it.lookup(newName) != nil {
		return fmt.Errorf("%w: %q", entities.ErrInstanceExists, newName)
	}

	wasEnabled := inst.Enabled
	if wasEnabled {
		it.stopLocked(inst)
	}

	it.mu.Lock()
	delete(it.instances, name)
	inst.Name = newName
	it.instances[newName] = inst
	it.mu.Unlock()

	if wasEnabled {
		if err := it.startLocked(ctx, inst); err != nil {
			it.persist()
			return fmt.Errorf("renamed %q to %q but failed to re-enable it: %w", name, newName, err)
		}
	}
	it.persist()

	logger.Infof("Renamed instance %q to %q", name, newName)
	return nil
}

// DetachInstance unregisters a disabled instance without touching its
// on-disk data; the directory remains manually manageable afterwards.
func (it *InstanceManager) DetachInstance(name string) error {
	lock := it.lockFor(name)
	lock.Lock()
	defer it.unlock(name, lock)

	inst := it.lookup(name)
	if inst == nil {
		return fmt.Errorf("%w: %q", entities.ErrInstanceNotFound, name)
	}
	if inst.Enabled {
		return fmt.Errorf("%w: %q must be disabled before detaching", entities.ErrInstanceEnabled, name)
	}

	it.mu.Lock()
	delete(it.instances, name)
	it.mu.Unlock()
	it.persist()

	logger.Infof("Detached instance %q (directory left in place)", name)
	return nil
}

// UpdateInstance runs the update pipeline on the instance. After a committed
// update the configuration document is reloaded, since the update may have
// changed it.
func (it *InstanceManager) UpdateInstance(
	ctx context.Context,
	name string,
	opts commands.UpdateOptions,
) (*commands.UpdateReport, error) {
	lock := it.lockFor(name)
	lock.Lock()
	defer it.unlock(name, lock)

	inst := it.lookup(name)
	if inst == nil {
		return nil, fmt.Errorf("%w: %q", entities.ErrInstanceNotFound, name)
	}

	report, err := it.update.Execute(ctx, inst, opts)
	if report != nil && report.State == commands.StateCommitted {
		inst.RepoConfig = it.configs.Load(inst.Path)
	}
	return report, err
}

// List returns a snapshot of the registry, sorted by name.
func (it *InstanceManager) List() []entities.Instance {
	it.mu.Lock()
	defer it.mu.Unlock()

	out := make([]entities.Instance, 0, len(it.instances))
	for _, inst := range it.instances {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// lockFor returns the per-instance mutex for name, creating it on first use
// and taking a reference. Every lockFor is paired with an unlock.
func (it *InstanceManager) lockFor(name string) *instanceLock {
	it.mu.Lock()
	defer it.mu.Unlock()

	lock, ok := it.locks[name]
	if !ok {
		lock = &instanceLock{}
		it.locks[name] = lock
	}
	lock.refs++
	return lock
}

// unlock releases the per-instance mutex and drops its reference. The map
// entry is removed once no instance is registered under the name and no
// caller holds or waits on the lock, so queries for unknown names leave
// nothing behind.
func (it *InstanceManager) unlock(name string, lock *instanceLock) {
	lock.Unlock()

	it.mu.Lock()
	defer it.mu.Unlock()
	lock.refs--
	if lock.refs == 0 && it.instances[name] == nil {
		delete(it.locks, name)
	}
}

func (it *InstanceManager) lookup(name string) *entities.Instance {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.instances[name]
}

// register adds the instance under mu; the collision check here is the
// single point enforcing one instance per name.
func (it *InstanceManager) register(inst *entities.Instance) error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if _, taken := it.instances[inst.Name]; taken {
		return fmt.Errorf("%w: %q", entities.ErrInstanceExists, inst.Name)
	}
	it.instances[inst.Name] = inst
	return nil
}

func (it *InstanceManager) startLocked(ctx context.Context, inst *entities.Instance) error {
	handle, err := it.procs.Start(ctx, inst)
	if err != nil {
		inst.Enabled = false
		return fmt.Errorf("failed to start server process for %q: %w", inst.Name, err)
	}
	inst.Process = handle
	inst.Enabled = true
	logger.Infof("Instance %q enabled (pid %d)", inst.Name, handle.PID())
	return nil
}

func (it *InstanceManager) stopLocked(inst *entities.Instance) {
	if inst.Process != nil {
		if err := it.procs.Stop(inst.Process); err != nil {
			logger.Warnf("Failed to stop server process for %q: %v", inst.Name, err)
		}
	}
	inst.Process = nil
	inst.Enabled = false
	logger.Infof("Instance %q disabled", inst.Name)
}

// persist writes the registry snapshot to the state file. Persistence is
// best-effort: the in-memory registry stays authoritative and a write
// failure is logged, not surfaced to the caller.
func (it *InstanceManager) persist() {
	it.mu.Lock()
	records := make([]entities.InstanceRecord, 0, len(it.instances))
	for _, inst := range it.instances {
		record := entities.InstanceRecord{
			Name:    inst.Name,
			Path:    inst.Path,
			Enabled: inst.Enabled,
		}
		if inst.Process != nil {
			record.PID = inst.Process.PID()
		}
		records = append(records, record)
	}
	it.mu.Unlock()

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	if err := it.state.Save(records); err != nil {
		logger.Warnf("Failed to persist registry state: %v", err)
	}
}

// installPipDependencies installs the changelog script's runtime
// requirements. Best-effort: the dependencies are informational and a
// failure never fails instance registration.
func (it *InstanceManager) installPipDependencies(ctx context.Context, inst *entities.Instance) {
	cfg := inst.RepoConfig
	if !cfg.ChangelogSupported || len(cfg.PipDependencies) == 0 {
		return
	}

	task := entities.TaskSpec{
		Name:    "pip-dependencies",
		Command: "pip",
		Args:    append([]string{"install"}, cfg.PipDependencies...),
	}
	if _, err := it.runner.Run(ctx, task, inst.Path, pipInstallTimeout); err != nil {
		logger.Warnf("Failed to install changelog dependencies for %q: %v", inst.Name, err)
	}
}

// ensureUsableDirectory creates the directory when missing and probes that
// it is writable.
func ensureUsableDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}

	probe := filepath.Join(path, ".gamehostd-probe")
	f, err := os.Create(probe)
	if err != nil {
		return err
	}
	_ = f.Close()
	return os.Remove(probe)
}
