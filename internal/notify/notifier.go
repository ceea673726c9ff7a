// Package notify delivers change notifications keyed by resource
// identifier. Observers subscribe to an identifier and receive changes on
// a channel; publishers never block on them.
package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/resource"
)

// DefaultBuffer is the per-subscription channel capacity used when none is
// configured.
const DefaultBuffer = 16

// Op names the mutation that caused a change.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is one notification. URI is the identifier the mutation was
// addressed to, which may be an ancestor or descendant of the subscribed
// one.
type Change struct {
	URI string
	Op  Op
	At  time.Time
}

// Subscription receives changes for one identifier until Close.
type Subscription struct {
	ID          uuid.UUID
	URI         string
	Descendants bool

	c       chan Change
	n       *Notifier
	dropped atomic.Int64
	once    sync.Once
}

// C returns the delivery channel. It is closed by Close.
func (s *Subscription) C() <-chan Change {
	return s.c
}

// Dropped returns how many changes were discarded because the channel was
// full.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Close unsubscribes and closes the channel. Close is idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.n.remove(s)
	})
}

// wants reports whether a change addressed to uri concerns s.
func (s *Subscription) wants(uri string) bool {
	switch {
	case resource.Same(s.URI, uri):
		return true
	case resource.IsAncestor(s.URI, uri):
		return s.Descendants
	case resource.IsAncestor(uri, s.URI):
		return true
	default:
		return false
	}
}

// Notifier is a topic registry keyed by resource identifier.
type Notifier struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscription
	buffer int
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithBuffer sets the channel capacity of new subscriptions.
func WithBuffer(n int) Option {
	return func(nt *Notifier) {
		if n > 0 {
			nt.buffer = n
		}
	}
}

// WithLogger sets the logger used for dropped deliveries.
func WithLogger(log *zap.Logger) Option {
	return func(nt *Notifier) {
		if log != nil {
			nt.log = log
		}
	}
}

// New returns an empty Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subs:   make(map[uuid.UUID]*Subscription),
		buffer: DefaultBuffer,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe registers interest in uri. With descendants set, changes to
// identifiers below uri are delivered as well. Changes addressed to an
// ancestor of uri are always delivered.
func (n *Notifier) Subscribe(uri string, descendants bool) *Subscription {
	s := &Subscription{
		ID:          uuid.New(),
		URI:         uri,
		Descendants: descendants,
		c:           make(chan Change, n.buffer),
		n:           n,
	}
	n.mu.Lock()
	n.subs[s.ID] = s
	n.mu.Unlock()
	return s
}

// Publish delivers a change for uri to every interested subscription.
// It never blocks: a full subscription drops the change.
func (n *Notifier) Publish(uri string, op Op) {
	ch := Change{URI: uri, Op: op, At: n.now()}

	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, s := range n.subs {
		if !s.wants(uri) {
			continue
		}
		select {
		case s.c <- ch:
		default:
			s.dropped.Add(1)
			n.log.Debug("change dropped, subscriber buffer full",
				zap.String("subscription", s.ID.String()),
				zap.String("subscribed_uri", s.URI),
				zap.String("uri", uri),
			)
		}
	}
}

// Len returns the number of live subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

func (n *Notifier) remove(s *Subscription) {
	n.mu.Lock()
	delete(n.subs, s.ID)
	close(s.c)
	n.mu.Unlock()
}
