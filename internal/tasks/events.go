package tasks

import "sync"

// Intent is a control request from the display to the orchestrator.
type Intent int

const (
	IntentPause Intent = iota + 1
	IntentResume
	IntentQuit
)

func (i Intent) String() string {
	switch i {
	case IntentPause:
		return "pause"
	case IntentResume:
		return "resume"
	case IntentQuit:
		return "quit"
	default:
		return ""
	}
}

// DefaultIntentBuffer is the intent channel capacity used by [NewEventBus] when given zero.
const DefaultIntentBuffer = 8

// EventBus carries progress updates from the orchestrator to a display and control intents back.
//
// Publish never blocks: updates are queued without bound and a pump goroutine delivers them in order on
// [EventBus.Updates]. Close flushes whatever is queued and then closes the updates channel.
type EventBus struct {
	mu     sync.Mutex
	queue  []ProgressUpdate
	closed bool

	wake    chan struct{}
	updates chan ProgressUpdate
	intents chan Intent
}

// NewEventBus starts the delivery pump. intentBuffer sizes the intent channel.
func NewEventBus(intentBuffer int) *EventBus {
	if intentBuffer <= 0 {
		intentBuffer = DefaultIntentBuffer
	}
	b := &EventBus{
		wake:    make(chan struct{}, 1),
		updates: make(chan ProgressUpdate),
		intents: make(chan Intent, intentBuffer),
	}
	go b.pump()
	return b
}

// Publish queues u for delivery. Updates published after Close are discarded.
func (b *EventBus) Publish(u ProgressUpdate) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, u)
	b.mu.Unlock()
	b.notify()
}

// Updates returns the delivery channel. It is closed after Close once the queue drains.
func (b *EventBus) Updates() <-chan ProgressUpdate {
	return b.updates
}

// Close stops accepting updates. It is safe to call more than once.
func (b *EventBus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.notify()
}

// Send offers an intent without blocking and reports whether it was accepted.
func (b *EventBus) Send(i Intent) bool {
	select {
	case b.intents <- i:
		return true
	default:
		return false
	}
}

// Intents is read by the orchestrator.
func (b *EventBus) Intents() <-chan Intent {
	return b.intents
}

func (b *EventBus) notify() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *EventBus) pump() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			closed := b.closed
			b.mu.Unlock()
			if closed {
				close(b.updates)
				return
			}
			<-b.wake
			continue
		}
		u := b.queue[0]
		b.queue[0] = ProgressUpdate{}
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.updates <- u
	}
}
