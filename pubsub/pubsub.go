package pubsub

import (
	"context"
	"sync"
)

// Message is an in-process pub/sub message.
type Message struct {
	Topic   string
	Payload string
}

type subscriber struct {
	ch chan *Message
}

// Bus is an in-process fan-out pub/sub bus. Arena snapshots travel
// over it to SSE subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	bufSize     int
}

// New creates a Bus with the given per-subscriber buffer size.
func New(bufSize int) *Bus {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &Bus{
		subscribers: make(map[string][]*subscriber),
		bufSize:     bufSize,
	}
}

// Publish sends a message to all subscribers of the topic. Slow
// subscribers with a full buffer miss the message rather than block
// the publisher.
func (b *Bus) Publish(_ context.Context, topic, payload string) error {
	msg := &Message{Topic: topic, Payload: payload}
	b.mu.RLock()
	subs := b.subscribers[topic]
	b.mu.RUnlock()
	for _, s := range subs {
		select {
		case s.ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe returns a message channel for the given topics and a
// cancel function that unsubscribes and closes the channel.
func (b *Bus) Subscribe(_ context.Context, topics ...string) (<-chan *Message, func(), error) {
	ch := make(chan *Message, b.bufSize)
	subs := make([]*subscriber, len(topics))

	b.mu.Lock()
	for i, t := range topics {
		s := &subscriber{ch: ch}
		b.subscribers[t] = append(b.subscribers[t], s)
		subs[i] = s
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, t := range topics {
			list := b.subscribers[t]
			for j, sub := range list {
				if sub == subs[i] {
					b.subscribers[t] = append(list[:j], list[j+1:]...)
					break
				}
			}
		}
		close(ch)
	}

	return ch, cancel, nil
}
