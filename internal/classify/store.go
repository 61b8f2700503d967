package classify

import (
	"log"
	"sync"
)

// Store is the process-wide home of the trained model.
//
// The model file is read lazily on first use, at most once, even under
// concurrent callers. Until a model exists the store is unavailable and
// Model returns ErrNotTrained. Replace installs a freshly trained model.
type Store struct {
	path string

	once sync.Once
	mu   sync.RWMutex
	m    *Trainable
	err  error
}

// NewStore returns a store backed by path. An empty path never loads and is
// only filled through Replace.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing model file.
func (s *Store) Path() string { return s.path }

func (s *Store) load() {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.m != nil {
			return
		}
		if s.path == "" {
			s.err = ErrNotTrained
			return
		}
		s.m, s.err = LoadTrainable(s.path)
		if s.err != nil && s.err != ErrNotTrained {
			log.Printf("Trainable classifier unavailable: %v", s.err)
		}
	})
}

// Model returns the trained model or the reason none is available.
func (s *Store) Model() (*Trainable, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.m == nil {
		return nil, s.err
	}
	return s.m, nil
}

// Available reports whether a fitted model is loaded.
func (s *Store) Available() bool {
	m, err := s.Model()
	return err == nil && m.Fitted()
}

// Replace persists m to the store path (when set) and makes it current.
func (s *Store) Replace(m *Trainable) error {
	s.load()
	if s.path != "" {
		if err := m.Save(s.path); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.m, s.err = m, nil
	s.mu.Unlock()
	return nil
}
