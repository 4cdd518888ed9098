package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devsync/devsync/internal/category"
)

type recordingSink struct {
	mu       sync.Mutex
	started  []string
	finished []Outcome
	logged   []string
}

func (r *recordingSink) Discovered(path string) {}

func (r *recordingSink) Started(path string, tag category.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, path)
}

func (r *recordingSink) Finished(path string, outcome Outcome, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, outcome)
}

func (r *recordingSink) Logged(level LogLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logged = append(r.logged, message)
}

func TestStateCountersAndCompletion(t *testing.T) {
	sink := &recordingSink{}
	s := New(sink)

	s.Discovered("/a")
	s.Discovered("/b")
	require.False(t, s.Complete())

	s.Started("/a", category.Plain)
	s.Finished("/a", OutcomeDone, "")
	require.False(t, s.Complete())

	s.Finished("/b", OutcomeFailed, "boom")
	require.True(t, s.Complete())

	counts := s.Snapshot()
	require.Equal(t, Counts{Discovered: 2, Done: 1, Skipped: 0, Failed: 1}, counts)

	require.Equal(t, []string{"/a"}, sink.started)
	require.Equal(t, []Outcome{OutcomeDone, OutcomeFailed}, sink.finished)
}

func TestStateFanOutToMultipleSinks(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	s := New(a, b)

	s.Logged(LevelInfo, "hello")
	require.Equal(t, []string{"hello"}, a.logged)
	require.Equal(t, []string{"hello"}, b.logged)
}

func TestStateConcurrentUpdates(t *testing.T) {
	sink := &recordingSink{}
	s := New(sink)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		s.Discovered("/x")
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Finished("/x", OutcomeDone, "")
		}()
	}
	wg.Wait()

	require.True(t, s.Complete())
	require.Equal(t, n, s.Snapshot().Done)
}
