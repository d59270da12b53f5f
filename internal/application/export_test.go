package application

// LockCount exposes the per-instance lock map size for testing.
func (it *InstanceManager) LockCount() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return len(it.locks)
}
