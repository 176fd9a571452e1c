package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Snapshot is an immutable view of the registry at one point in time.
type Snapshot struct {
	datasets map[string]*Dataset
}

var emptySnapshot = &Snapshot{datasets: map[string]*Dataset{}}

// Dataset returns the dataset with the given id.
func (s *Snapshot) Dataset(id string) (*Dataset, bool) {
	ds, ok := s.datasets[id]
	return ds, ok
}

// List returns a summary of every dataset, ordered by id.
func (s *Snapshot) List() []Info {
	infos := make([]Info, 0, len(s.datasets))
	for _, id := range slices.Sorted(maps.Keys(s.datasets)) {
		infos = append(infos, s.datasets[id].Info())
	}
	return infos
}

// Len returns the number of datasets in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.datasets)
}

// with returns a copy of s that also holds ds.
func (s *Snapshot) with(ds *Dataset) *Snapshot {
	next := maps.Clone(s.datasets)
	next[ds.ID] = ds
	return &Snapshot{datasets: next}
}

// without returns a copy of s that no longer holds id.
func (s *Snapshot) without(id string) *Snapshot {
	next := maps.Clone(s.datasets)
	delete(next, id)
	return &Snapshot{datasets: next}
}

// Registry owns the loaded datasets.
//
// Add, Remove and Load are serialised and replace the current snapshot
// atomically, so a reader holding a snapshot never observes a dataset being
// added or removed half way.
type Registry struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	store   *Store
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore persists every change through store.
func WithStore(store *Store) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// WithLogger sets the logger used for load and change events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(emptySnapshot)
	return r
}

// Snapshot returns the current set of datasets.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// List returns a summary of every loaded dataset, ordered by id.
func (r *Registry) List() []Info {
	return r.Snapshot().List()
}

// Add loads a new dataset. The id must be valid and not already loaded.
// With a store configured the dataset is written to disk before it becomes
// visible to queries.
func (r *Registry) Add(id string, kind Kind, rows []Row) (*Dataset, error) {
	ds, err := New(id, kind, rows)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.current.Load()
	if _, exists := snap.Dataset(id); exists {
		return nil, fmt.Errorf("%w: %s", ErrDatasetExists, id)
	}
	if r.store != nil {
		if err := r.store.Save(ds); err != nil {
			return nil, fmt.Errorf("failed to persist dataset %s: %w", id, err)
		}
	}
	r.current.Store(snap.with(ds))
	r.logger.Info("dataset added", "id", id, "kind", kind, "rows", len(ds.Rows))
	return ds, nil
}

// Remove unloads a dataset and deletes its file when a store is configured.
func (r *Registry) Remove(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.current.Load()
	ds, exists := snap.Dataset(id)
	if !exists {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	if r.store != nil {
		if err := r.store.Delete(ds.ID, ds.Kind); err != nil {
			return fmt.Errorf("failed to delete dataset %s: %w", id, err)
		}
	}
	r.current.Store(snap.without(id))
	r.logger.Info("dataset removed", "id", id)
	return nil
}

// Load replaces the loaded datasets with the contents of the store. It is a
// no-op without a store. Files that cannot be read are logged and skipped.
func (r *Registry) Load() error {
	if r.store == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	loaded, err := r.store.LoadAll(r.logger)
	if err != nil {
		return err
	}
	next := make(map[string]*Dataset, len(loaded))
	for _, ds := range loaded {
		next[ds.ID] = ds
	}
	r.current.Store(&Snapshot{datasets: next})
	r.logger.Info("datasets loaded", "dir", r.store.Dir(), "count", len(next))
	return nil
}
