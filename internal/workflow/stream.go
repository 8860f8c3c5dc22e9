package workflow

import (
	"context"
	"sync"
)

// DefaultStreamBuffer is the default event stream buffer size.
const DefaultStreamBuffer = 64

// stream is the ordered multi-producer single-consumer event channel for one
// run. Delivery is lossless: when the buffer fills, publish blocks the
// producing goroutine until the consumer drains. Blocking only delays event
// emission, never the worker's underlying generation call, which has already
// returned by the time its completion event is published.
//
// The consumer must drain the channel until it is closed; the channel is
// closed exactly once, after the terminal event.
type stream struct {
	ch   chan Event
	once sync.Once
}

func newStream(buffer int) *stream {
	if buffer <= 0 {
		buffer = DefaultStreamBuffer
	}
	return &stream{ch: make(chan Event, buffer)}
}

// publish enqueues an event, blocking until there is buffer space. It gives
// up when ctx is cancelled so producer goroutines cannot leak behind a
// consumer that stopped reading; the cancelled run's terminal event is
// published via terminal instead.
func (s *stream) publish(ctx context.Context, e Event) {
	select {
	case s.ch <- e:
	case <-ctx.Done():
	}
}

// terminal enqueues the run's final event and closes the channel. Unlike
// publish it does not watch ctx: the terminal event must reach the consumer
// even when the run context is already cancelled.
func (s *stream) terminal(e Event) {
	s.once.Do(func() {
		s.ch <- e
		close(s.ch)
	})
}

// events returns the consumer side of the stream.
func (s *stream) events() <-chan Event { return s.ch }
