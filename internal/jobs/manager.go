package jobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"voice-transcriber/internal/domain"
)

// ErrJobAlreadyRunning is returned when starting a second active job.
var ErrJobAlreadyRunning = errors.New("job already running")

// ErrNoRunningJob is returned when cancel is requested for idle state.
var ErrNoRunningJob = errors.New("no running job")

// ErrStaleJob is returned when a transition names a job that is no longer current.
var ErrStaleJob = errors.New("job superseded")

// Manager tracks the single allowed active job and its transitions.
type Manager struct {
	mu      sync.RWMutex
	current domain.Job
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Job{
			State: domain.JobStateIdle,
		},
	}
}

// Start creates a new job and moves it to recording state.
func (m *Manager) Start(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isRunning(m.current.State) {
		return ErrJobAlreadyRunning
	}

	m.current = domain.Job{
		ID:    jobID,
		State: domain.JobStateRecording,
	}
	return nil
}

// Transition validates and applies state transitions for current job.
func (m *Manager) Transition(state domain.JobState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionLocked(state)
}

// TransitionJob applies state only while jobID is still the current job.
func (m *Manager) TransitionJob(jobID string, state domain.JobState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.ID != jobID {
		return fmt.Errorf("%s: %w", jobID, ErrStaleJob)
	}
	return m.transitionLocked(state)
}

func (m *Manager) transitionLocked(state domain.JobState) error {
	if m.current.ID == "" && state != domain.JobStateIdle {
		return fmt.Errorf("cannot transition without an active job")
	}
	if state == m.current.State {
		return nil
	}
	if !isValidTransition(m.current.State, state) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.State, state)
	}

	m.current.State = state
	return nil
}

// MarkCaptured records when the current job's audio was captured.
func (m *Manager) MarkCaptured(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.CapturedAt = at
}

// Current returns a snapshot of the current job.
func (m *Manager) Current() domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset clears job metadata and returns manager to idle.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.Job{State: domain.JobStateIdle}
}

// IsRunning reports whether the current state is an active stage.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return isRunning(m.current.State)
}

// Cancel moves an active job to cancelled state and returns it.
func (m *Manager) Cancel() (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !isRunning(m.current.State) {
		return domain.Job{}, ErrNoRunningJob
	}
	m.current.State = domain.JobStateCancelled
	return m.current, nil
}

// isRunning checks if a state represents an in-flight job.
func isRunning(state domain.JobState) bool {
	switch state {
	case domain.JobStateRecording, domain.JobStateProcessing:
		return true
	default:
		return false
	}
}

// isValidTransition enforces the allowed job state machine edges.
func isValidTransition(from, to domain.JobState) bool {
	switch from {
	case domain.JobStateIdle:
		return to == domain.JobStateRecording
	case domain.JobStateRecording:
		return to == domain.JobStateProcessing || to == domain.JobStateCancelled
	case domain.JobStateProcessing:
		return to == domain.JobStateSucceeded || to == domain.JobStateFailed || to == domain.JobStateCancelled
	case domain.JobStateSucceeded, domain.JobStateFailed, domain.JobStateCancelled:
		return to == domain.JobStateIdle
	default:
		return false
	}
}
