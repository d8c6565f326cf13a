package worker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CompletionScheduler runs one delayed job per key. A key stays reserved
// from Schedule until its job has returned.
type CompletionScheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
	log     zerolog.Logger
}

func NewCompletionScheduler(log zerolog.Logger) *CompletionScheduler {
	return &CompletionScheduler{
		timers: make(map[string]*time.Timer),
		log:    log,
	}
}

// Schedule arms fn to run once after delay. It reports false when the key
// already has a job in flight or the scheduler is stopped.
func (s *CompletionScheduler) Schedule(key string, delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if _, exists := s.timers[key]; exists {
		s.log.Debug().Str("key", key).Msg("completion already scheduled")
		return false
	}

	s.wg.Add(1)
	s.timers[key] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		defer s.release(key)
		fn()
	})
	return true
}

func (s *CompletionScheduler) release(key string) {
	s.mu.Lock()
	delete(s.timers, key)
	s.mu.Unlock()
}

func (s *CompletionScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Wait blocks until every armed job has run or been stopped.
func (s *CompletionScheduler) Wait() {
	s.wg.Wait()
}

// Stop disarms every timer that has not fired yet and rejects new jobs.
// Jobs already running are left to finish.
func (s *CompletionScheduler) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	dropped := 0
	for key, timer := range s.timers {
		if timer.Stop() {
			delete(s.timers, key)
			s.wg.Done()
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Info().Int("dropped", dropped).Msg("pending completions discarded")
	}
	return dropped
}
