package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// TopicAttendance carries every recorded check-in and check-out.
const TopicAttendance = "attendance"

// Event is one server-sent event.
type Event struct {
	Topic string
	Name  string
	Data  any
}

// WriteTo encodes e in the text/event-stream format.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return 0, fmt.Errorf("encode %s event: %w", e.Name, err)
	}
	n, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, data)
	return int64(n), err
}

// Hub fans events out to subscribers of a topic. Slow subscribers miss
// events rather than block publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      16,
	}
}

// Subscribe returns the event channel for topic and a cleanup func that
// closes it.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every subscriber of event.Topic. It never blocks.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.Topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
