package history

import "github.com/myjellybean/jellybean/internal/model"

// ResultStore pairs one session's current result with the history log it
// shares with other sessions. It is owned by a single controller and is not
// safe for concurrent use.
type ResultStore struct {
	log     *Store
	current *model.AnalysisResult
}

// NewResultStore starts a session with no current result over log.
func NewResultStore(log *Store) *ResultStore {
	return &ResultStore{log: log}
}

// SetCurrent replaces the current result. It is not persisted.
func (r *ResultStore) SetCurrent(res model.AnalysisResult) {
	r.current = &res
}

// Current returns a copy of the current result, or nil before the session's
// first successful analysis.
func (r *ResultStore) Current() *model.AnalysisResult {
	if r.current == nil {
		return nil
	}
	res := *r.current
	return &res
}

// AppendHistory adds res to the shared log.
func (r *ResultStore) AppendHistory(res model.AnalysisResult) error {
	return r.log.Append(res)
}

// Log returns the shared history log.
func (r *ResultStore) Log() *Store { return r.log }
