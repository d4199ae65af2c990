package store

import "sync"

var (
	defaultMu    sync.RWMutex
	defaultStore Store = NewMemory()
)

// Default returns the process-wide store. Until SetDefault is called
// it is an in-memory store, so stored signals work without setup but
// do not survive the process.
func Default() Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

// SetDefault installs st as the process-wide store and returns the
// previous one. The CLI calls this with the store configured in
// indulgent.yaml before running setup programs.
func SetDefault(st Store) Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultStore
	defaultStore = st
	return prev
}
