// Package uisync serializes session state into a single external-facing blob
// and pushes it to a transport sink whenever observable state changes.
// Publishing is best-effort: sink failures are logged and never unwind the
// operation that triggered the publish.
package uisync

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/session"
)

// Sink accepts one opaque serialized state blob per publish call. No
// acknowledgement is required.
type Sink interface {
	Publish(ctx context.Context, blob []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, blob []byte) error

// Publish implements Sink.
func (f SinkFunc) Publish(ctx context.Context, blob []byte) error { return f(ctx, blob) }

// envelope is the wire shape pushed to the sink.
type envelope struct {
	Seq   uint64           `json:"seq"`
	State session.Snapshot `json:"state"`
}

// Options configure a Publisher.
type Options struct {
	Logger logging.Logger
}

// Publisher serializes snapshots and pushes them to the sink. Publish calls
// are serialized under a mutex and stamped with a per-session monotonic
// sequence number, so a later publish is never observed before an earlier one
// it logically follows.
type Publisher struct {
	mu     sync.Mutex
	seq    uint64
	sink   Sink
	logger logging.Logger
}

// NewPublisher creates a Publisher for the given sink.
func NewPublisher(sink Sink, optFns ...func(o *Options)) *Publisher {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Publisher{sink: sink, logger: opts.Logger}
}

// Publish serializes the snapshot and pushes it. Serialization or transport
// failures are swallowed after logging.
func (p *Publisher) Publish(ctx context.Context, snap session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	blob, err := json.Marshal(envelope{Seq: p.seq, State: snap})
	if err != nil {
		p.logger.Error("uisync.marshal_failed", "error", err.Error())
		return
	}

	if err := p.sink.Publish(ctx, blob); err != nil {
		p.logger.Warn("uisync.publish_failed", "seq", p.seq, "error", err.Error())
		return
	}

	p.logger.Debug("uisync.published", "seq", p.seq, "stage", string(snap.Stage), "escalation", string(snap.Escalation))
}

// Seq returns the sequence number of the last publish attempt.
func (p *Publisher) Seq() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}
