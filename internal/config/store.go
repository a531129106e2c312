package config

import "sync/atomic"

// Store holds the live configuration and swaps it atomically when the
// config file is reloaded. Handlers read a consistent snapshot per
// request via Current.
type Store struct {
	current atomic.Pointer[AppConfig]
}

func NewStore(cfg *AppConfig) *Store {
	s := &Store{}
	s.current.Store(cfg)
	return s
}

// Current returns the live configuration snapshot. Callers must not
// mutate it.
func (s *Store) Current() *AppConfig {
	return s.current.Load()
}

// ApplyReload folds the hot-reloadable fields of next into the live
// configuration. Port, environment, origins and the upstream credential
// are fixed for the process lifetime.
func (s *Store) ApplyReload(next *AppConfig) {
	cur := s.Current()
	merged := *cur
	merged.Prompt = next.Prompt
	merged.Upstream.Model = next.Upstream.Model
	s.current.Store(&merged)
}
