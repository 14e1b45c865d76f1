// Package session holds the one document currently under analysis.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// State is everything known about the current document. A new document replaces it whole.
type State struct {
	DocumentID  uuid.UUID
	Filename    string
	ContentHash string
	Text        string // normalized
	Record      record.Record
	Status      constants.ExtractStatus
	Valuation   string
	Range       reasoning.Range
	Exchanges   []reasoning.Exchange
	AnalyzedAt  time.Time
}

func (s State) clone() State {
	s.Exchanges = append([]reasoning.Exchange(nil), s.Exchanges...)
	return s
}

type Session struct {
	id    string
	mu    sync.RWMutex
	state *State
	busy  bool
}

func New() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string { return s.id }

// Begin claims the session for an analysis; a second concurrent claim fails with
// common.ErrBusy. Every successful Begin must be paired with End.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return common.ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) End() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Replace swaps in the state of a newly analyzed document.
func (s *Session) Replace(st State) {
	st = st.clone()
	s.mu.Lock()
	s.state = &st
	s.mu.Unlock()
}

func (s *Session) Clear() {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()
}

// Current returns a copy of the current state.
func (s *Session) Current() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return State{}, false
	}
	return s.state.clone(), true
}

// Update applies fn to the current state if it still belongs to documentID. It reports
// false when the document was replaced or cleared in the meantime.
func (s *Session) Update(documentID uuid.UUID, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil || s.state.DocumentID != documentID {
		return false
	}
	fn(s.state)
	return true
}
