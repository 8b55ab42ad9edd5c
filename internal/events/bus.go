// Package events is a synchronous in-process publish/subscribe bus.
package events

import (
	"log/slog"
	"sync"
)

type Topic string

const (
	UserSignedIn          Topic = "auth/userSignedIn"
	UserSignedOut         Topic = "auth/userSignedOut"
	UserProfileUpdated    Topic = "users/profileUpdated"
	RegistrationCompleted Topic = "auth/registrationCompleted"
	HairdresserApproved   Topic = "hairdresser/approved"
	PaymentCompleted      Topic = "payments/completed"
)

type Handler func(data any)

type subscription struct {
	id int
	fn Handler
}

// Bus delivers each Publish to the handlers subscribed at that moment, in
// subscription order, on the publisher's goroutine. There is no replay.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic][]subscription
	log    *slog.Logger
}

func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{subs: make(map[Topic][]subscription), log: log}
}

// Subscribe registers fn for topic and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Bus) Subscribe(topic Topic, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			next := make([]subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			b.subs[topic] = append(next, list[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

// Publish calls every current subscriber of topic once. A panicking handler
// is logged and the remaining handlers still run.
func (b *Bus) Publish(topic Topic, data any) {
	b.mu.Lock()
	snapshot := b.subs[topic]
	b.mu.Unlock()

	for _, s := range snapshot {
		b.call(topic, s.fn, data)
	}
}

func (b *Bus) call(topic Topic, fn Handler, data any) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Error("event handler panicked", "topic", string(topic), "panic", p)
		}
	}()
	fn(data)
}

// Subscribers reports how many handlers are registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
