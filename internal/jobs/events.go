package jobs

import (
	"sync"
	"time"

	"voice-transcriber/internal/domain"
)

// Push channel names delivered to the presentation layer.
const (
	ChannelRecordingCommand = "recording:on-command"
	ChannelJobStatus        = "recording:job-status"
	ChannelCompositeStatus  = "transform:composite-status"
	ChannelHotkeyError      = "hotkey:error"
)

// CommandPayload asks the renderer to start, stop or discard audio capture.
type CommandPayload struct {
	Command           domain.RecordingCommand `json:"command"`
	PreferredDeviceID string                  `json:"preferredDeviceId,omitempty"`
}

// JobStatusPayload reports a job state change.
type JobStatusPayload struct {
	JobID           string                  `json:"jobId"`
	State           domain.JobState         `json:"state"`
	Message         string                  `json:"message,omitempty"`
	FailureCategory *domain.FailureCategory `json:"failureCategory,omitempty"`
}

// CompositeStatusPayload mirrors the result of one clipboard transform.
type CompositeStatusPayload struct {
	Status  domain.CompositeStatus `json:"status"`
	Message string                 `json:"message"`
}

// HotkeyErrorPayload reports a shortcut that failed to register.
type HotkeyErrorPayload struct {
	Combo   string `json:"combo"`
	Message string `json:"message"`
}

// Event is a sequenced payload consumed by UI subscribers.
type Event struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`
	JobID     string    `json:"jobId,omitempty"`
	Payload   any       `json:"payload"`
}

// Handler receives published events in sequence order.
type Handler func(Event)

// EventBus stores recent events, provides incremental reads and fans out to
// subscribers.
type EventBus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event

	// deliverMu keeps subscriber delivery in Seq order across publishers.
	deliverMu sync.Mutex
	nextSub   int
	subs      map[int]Handler
}

// NewEventBus creates a bounded in-memory event buffer.
func NewEventBus(maxEvents int) *EventBus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &EventBus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		subs:      map[int]Handler{},
	}
}

// Publish appends one event, assigns sequence and timestamp, and delivers it
// to every subscriber. Handlers must not publish.
func (b *EventBus) Publish(event Event) Event {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}
	b.mu.Unlock()

	for _, handler := range b.subs {
		handler(event)
	}
	return event
}

// Subscribe registers handler and returns a disposer that removes it.
func (b *EventBus) Subscribe(handler Handler) func() {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.deliverMu.Lock()
			defer b.deliverMu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Since returns events with sequence strictly greater than seq.
func (b *EventBus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
