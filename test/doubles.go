// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations, no mock frameworks.
package testdoubles

import (
	"context"
	"sync"

	"github.com/hostforge/gamehostd/internal/domain/commands"
	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/domain/repositories"
)

// ---------------------------------------------------------------------------
// SpyVersionControl
// ---------------------------------------------------------------------------

// SpyVersionControl implements repositories.VersionControlRepository as a
// configurable spy. Configure the response fields for the methods your test
// exercises, then inspect the call-tracking fields to verify behavior.
type SpyVersionControl struct {
	// --- HeadRevision ---
	HeadRev string
	HeadErr error

	// --- Merge ---
	MergeRev string
	MergeErr error
	// spy: targets that were requested
	MergeTargets []string

	// --- LatestReleaseTag ---
	Tag    string
	TagErr error

	// --- Realize ---
	RealizeErr error
	// RealizeFunc, when set, runs instead of the default no-op so a test can
	// materialize files on disk.
	RealizeFunc func(workdir, revision string, exclude []string) error
	// spy: inputs received
	RealizedRevisions  []string
	RealizedExclusions [][]string

	// --- CommitAndPush ---
	CommitResult bool
	CommitErr    error
	// spy: paths staged per call
	CommittedPaths [][]string
}

var _ repositories.VersionControlRepository = (*SpyVersionControl)(nil)

func (s *SpyVersionControl) HeadRevision(_ context.Context, _ string) (string, error) {
	return s.HeadRev, s.HeadErr
}

func (s *SpyVersionControl) Merge(_ context.Context, _ string, target string) (string, error) {
	s.MergeTargets = append(s.MergeTargets, target)
	return s.MergeRev, s.MergeErr
}

func (s *SpyVersionControl) LatestReleaseTag(_ context.Context, _ string) (string, error) {
	return s.Tag, s.TagErr
}

func (s *SpyVersionControl) Realize(_ context.Context, workdir, revision string, exclude []string) error {
	s.RealizedRevisions = append(s.RealizedRevisions, revision)
	s.RealizedExclusions = append(s.RealizedExclusions, exclude)
	if s.RealizeErr != nil {
		return s.RealizeErr
	}
	if s.RealizeFunc != nil {
		return s.RealizeFunc(workdir, revision, exclude)
	}
	return nil
}

func (s *SpyVersionControl) CommitAndPush(
	_ context.Context,
	_ string,
	paths []string,
	_ string,
) (bool, error) {
	s.CommittedPaths = append(s.CommittedPaths, paths)
	return s.CommitResult, s.CommitErr
}

// ---------------------------------------------------------------------------
// SpyProcessRepository
// ---------------------------------------------------------------------------

// FakeHandle is an inert process handle with a fixed pid.
type FakeHandle struct {
	Pid   int
	Alive bool
}

func (h *FakeHandle) PID() int      { return h.Pid }
func (h *FakeHandle) Running() bool { return h.Alive }

// SpyProcessRepository implements repositories.ProcessRepository without
// spawning anything. Each Start hands out a fresh pid.
type SpyProcessRepository struct {
	mu sync.Mutex

	StartErr error
	// spy: call counts and handles issued
	StartCount int
	StopCount  int
	nextPID    int

	// --- Attach ---
	AttachAlive bool

	// StopHook, when set, runs at the top of every Stop, letting a test
	// hold the caller inside its stop window.
	StopHook func()
}

var _ repositories.ProcessRepository = (*SpyProcessRepository)(nil)

func (s *SpyProcessRepository) Start(
	_ context.Context,
	_ *entities.Instance,
) (entities.ProcessHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.StartErr != nil {
		return nil, s.StartErr
	}
	s.StartCount++
	s.nextPID++
	return &FakeHandle{Pid: s.nextPID, Alive: true}, nil
}

func (s *SpyProcessRepository) Attach(pid int) (entities.ProcessHandle, bool) {
	if !s.AttachAlive {
		return nil, false
	}
	return &FakeHandle{Pid: pid, Alive: true}, true
}

func (s *SpyProcessRepository) Stop(handle entities.ProcessHandle) error {
	if s.StopHook != nil {
		s.StopHook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.StopCount++
	if fake, ok := handle.(*FakeHandle); ok {
		fake.Alive = false
	}
	return nil
}

// ---------------------------------------------------------------------------
// StubRepoConfigRepository
// ---------------------------------------------------------------------------

// StubRepoConfigRepository returns a fixed configuration for every instance.
type StubRepoConfigRepository struct {
	Config       entities.RepoConfig
	ExistsResult bool
}

var _ repositories.RepoConfigRepository = (*StubRepoConfigRepository)(nil)

func (s *StubRepoConfigRepository) Load(_ string) entities.RepoConfig {
	return s.Config
}

func (s *StubRepoConfigRepository) DocumentExists(_ string) bool {
	return s.ExistsResult
}

// ---------------------------------------------------------------------------
// MemoryStateRepository
// ---------------------------------------------------------------------------

// MemoryStateRepository keeps the registry snapshot in memory.
type MemoryStateRepository struct {
	mu sync.Mutex

	Records   []entities.InstanceRecord
	SaveErr   error
	LoadErr   error
	SaveCount int
}

var _ repositories.StateRepository = (*MemoryStateRepository)(nil)

func (s *MemoryStateRepository) Save(records []entities.InstanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Records = records
	s.SaveCount++
	return nil
}

func (s *MemoryStateRepository) Load() ([]entities.InstanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Records, s.LoadErr
}

// ---------------------------------------------------------------------------
// SpyUpdate
// ---------------------------------------------------------------------------

// SpyUpdate implements commands.Update with a canned report.
type SpyUpdate struct {
	Report *commands.UpdateReport
	Err    error
	// spy: instance names the pipeline ran for
	ExecutedFor []string
}

var _ commands.Update = (*SpyUpdate)(nil)

func (s *SpyUpdate) Execute(
	_ context.Context,
	instance *entities.Instance,
	_ commands.UpdateOptions,
) (*commands.UpdateReport, error) {
	s.ExecutedFor = append(s.ExecutedFor, instance.Name)
	return s.Report, s.Err
}
