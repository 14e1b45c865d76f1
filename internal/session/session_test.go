package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
)

func TestReplaceCurrentClear(t *testing.T) {
	s := New()
	_, ok := s.Current()
	assert.False(t, ok)

	id := uuid.New()
	s.Replace(State{DocumentID: id, Filename: "lease.pdf"})
	st, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "lease.pdf", st.Filename)

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestCurrentIsACopy(t *testing.T) {
	s := New()
	id := uuid.New()
	s.Replace(State{DocumentID: id, Exchanges: []reasoning.Exchange{{Question: "q1"}}})

	st, _ := s.Current()
	st.Exchanges[0].Question = "mutated"
	st.Exchanges = append(st.Exchanges, reasoning.Exchange{Question: "q2"})

	again, _ := s.Current()
	require.Len(t, again.Exchanges, 1)
	assert.Equal(t, "q1", again.Exchanges[0].Question)
}

func TestUpdateOnlyForSameDocument(t *testing.T) {
	s := New()
	first := uuid.New()
	s.Replace(State{DocumentID: first})

	assert.True(t, s.Update(first, func(st *State) { st.Valuation = "estimate" }))
	st, _ := s.Current()
	assert.Equal(t, "estimate", st.Valuation)

	s.Replace(State{DocumentID: uuid.New()})
	assert.False(t, s.Update(first, func(st *State) { st.Valuation = "stale" }))
	st, _ = s.Current()
	assert.Empty(t, st.Valuation)

	s.Clear()
	assert.False(t, s.Update(first, func(*State) {}))
}

func TestBeginRejectsConcurrentAnalysis(t *testing.T) {
	s := New()
	require.NoError(t, s.Begin())
	assert.ErrorIs(t, s.Begin(), common.ErrBusy)
	s.End()
	require.NoError(t, s.Begin())
	s.End()
}

func TestBeginExactlyOneWinner(t *testing.T) {
	s := New()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Begin() == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
