// Package bus implements the in-process agent message bus: multi-producer broadcast and point-to-point transport with
// per-(sender,target) order preservation and non-blocking delivery to
// slow consumers.
package bus

import (
	"sync"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/message"
)

// Mode selects how a Send is routed.
type Mode int

const (
	// PointToPoint delivers to exactly one subscriber, identified by
	// target AgentID.
	PointToPoint Mode = iota
	// Broadcast delivers to every subscriber on the bus.
	Broadcast
	// Topic delivers to every subscriber of a named topic.
	Topic
)

// Envelope is one delivered unit: the message plus enough routing
// metadata for the consumer to reconstruct ordering.
type Envelope struct {
	From    ids.AgentID
	Target  ids.AgentID // set for PointToPoint
	Topic   string      // set for Topic
	Mode    Mode
	Seq     uint64 // monotonic per (From, Target) pair
	Message message.AgentMessage
}

// Lagged is delivered in place of an Envelope when a subscriber's
// buffer overflowed; Dropped counts the messages that were discarded
// between the last delivered Envelope and this notification.
type Lagged struct {
	Dropped uint64
}

// Delivery is the union received from a subscription channel: exactly
// one of Envelope or Lagged is non-nil.
type Delivery struct {
	Envelope *Envelope
	Lagged   *Lagged
}

type subscriber struct {
	id        ids.AgentID
	topics    map[string]struct{}
	ch        chan Delivery
	mu        sync.Mutex
	dropped   uint64
	laggedSet bool
}

// Bus is an in-process, multi-producer message transport. Producers
// are never blocked by a single slow consumer: a subscriber channel
// that is full has its oldest-still-unread slot's worth of messages
// dropped and the subscriber is informed via a Lagged delivery.
type Bus struct {
	mu       sync.RWMutex
	capacity int
	subs     map[ids.AgentID]*subscriber
	// seq tracks the next sequence number per (from, target) pair, so
	// that order is well-defined even across PointToPoint and
	// Broadcast sends to the same target.
	seq map[string]uint64
}

// New creates a Bus whose per-subscriber channel capacity is cap.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = 64
	}
	return &Bus{
		capacity: capacity,
		subs:     make(map[ids.AgentID]*subscriber),
		seq:      make(map[string]uint64),
	}
}

// Subscribe registers agentID as a direct (PointToPoint/Broadcast)
// recipient and returns the channel it should range over. Calling
// Subscribe again for the same agentID replaces the previous
// subscription and closes its channel.
func (b *Bus) Subscribe(agentID ids.AgentID) <-chan Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.subs[agentID]; ok {
		close(old.ch)
	}
	s := &subscriber{
		id:     agentID,
		topics: make(map[string]struct{}),
		ch:     make(chan Delivery, b.capacity),
	}
	b.subs[agentID] = s
	return s.ch
}

// SubscribeTopic additionally routes Topic(name) sends to agentID.
// agentID must already have called Subscribe.
func (b *Bus) SubscribeTopic(agentID ids.AgentID, topic string) {
	b.mu.RLock()
	s, ok := b.subs[agentID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	s.mu.Lock()
	s.topics[topic] = struct{}{}
	s.mu.Unlock()
}

// Unsubscribe removes agentID from the bus and closes its channel.
func (b *Bus) Unsubscribe(agentID ids.AgentID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[agentID]; ok {
		close(s.ch)
		delete(b.subs, agentID)
	}
}

// Send routes msg according to mode. target is used for PointToPoint,
// topic for Topic; both are ignored otherwise.
func (b *Bus) Send(from ids.AgentID, mode Mode, target ids.AgentID, topic string, msg message.AgentMessage) {
	switch mode {
	case PointToPoint:
		b.deliverTo(from, target, mode, topic, msg)
	case Topic:
		for _, s := range b.topicSubscribers(topic) {
			b.deliverTo(from, s.id, mode, topic, msg)
		}
	case Broadcast:
		for _, s := range b.allSubscribers() {
			b.deliverTo(from, s.id, mode, topic, msg)
		}
	}
}

func (b *Bus) allSubscribers() []*subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		out = append(out, s)
	}
	return out
}

func (b *Bus) topicSubscribers(topic string) []*subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*subscriber, 0)
	for _, s := range b.subs {
		s.mu.Lock()
		_, ok := s.topics[topic]
		s.mu.Unlock()
		if ok {
			out = append(out, s)
		}
	}
	return out
}

func (b *Bus) nextSeq(from, target ids.AgentID) uint64 {
	key := string(from) + "\x00" + string(target)
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.seq[key]
	b.seq[key] = n + 1
	return n
}

func (b *Bus) deliverTo(from, target ids.AgentID, mode Mode, topic string, msg message.AgentMessage) {
	b.mu.RLock()
	s, ok := b.subs[target]
	b.mu.RUnlock()
	if !ok {
		return
	}
	env := &Envelope{
		From:    from,
		Target:  target,
		Topic:   topic,
		Mode:    mode,
		Seq:     b.nextSeq(from, target),
		Message: msg,
	}
	d := Delivery{Envelope: env}

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.ch <- d:
		s.laggedSet = false
	default:
		// Channel full: drop this message, track it, and make sure a
		// Lagged notification gets through eventually by draining one
		// slot for it if needed.
		s.dropped++
		if !s.laggedSet {
			select {
			case <-s.ch:
				s.dropped++
			default:
			}
			select {
			case s.ch <- Delivery{Lagged: &Lagged{Dropped: s.dropped}}:
				s.laggedSet = true
				s.dropped = 0
			default:
			}
		}
	}
}
