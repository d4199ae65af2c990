package reactive

import (
	"encoding/json"
	"log/slog"

	"github.com/indulgent-dev/indulgent/internal/errors"
	"github.com/indulgent-dev/indulgent/pkg/store"
)

// StoredOption configures a storage-backed signal.
type StoredOption func(*storedConfig)

type storedConfig struct {
	logger *slog.Logger
	sched  *Scheduler
}

// WithScheduler batches the signal's notifications on sched instead of
// the process-wide default.
func WithScheduler(sched *Scheduler) StoredOption {
	return func(c *storedConfig) {
		c.sched = sched
	}
}

// WithPersistLogger routes persistence failures to logger.
// Without it, write-back failures are silent; the construction-time
// decode error is always returned regardless.
func WithPersistLogger(logger *slog.Logger) StoredOption {
	return func(c *storedConfig) {
		c.logger = logger
	}
}

// NewStored creates a signal whose initial value is seeded from st
// under key and whose every change is written back as JSON.
//
// A missing key seeds from fallback. A present but undecodable value
// is a construction-time error: corrupt persisted data is surfaced,
// never silently replaced.
func NewStored[T any](st store.Store, key string, fallback T, opts ...StoredOption) (*Signal[T], error) {
	var cfg storedConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	raw, ok, err := st.Get(key)
	if err != nil {
		return nil, errors.New(errors.CodeStorageRead).WithPath(key).Wrap(err)
	}

	initial := fallback
	if ok {
		if err := json.Unmarshal(raw, &initial); err != nil {
			return nil, errors.New(errors.CodeStorageDecode).WithPath(key).Wrap(err)
		}
	}

	sig := NewSignalOn(cfg.sched, initial)
	sig.RegisterDependent(DependentFunc(func(v any) {
		data, err := json.Marshal(v)
		if err == nil {
			err = st.Set(key, data)
		}
		if err != nil && cfg.logger != nil {
			cfg.logger.Warn("stored signal persist failed", "key", key, "error", err)
		}
	}))

	return sig, nil
}
