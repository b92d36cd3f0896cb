// Package messaging implements a typed publish/subscribe hub used to decouple
// view models from each other.
//
// Subscriptions are explicit handles: a subscriber keeps the
// [*Subscription] returned by [Subscribe] and releases it on teardown, or
// ties it to a context with [SubscribeContext]. Released subscriptions are
// skipped immediately and pruned from the registry on the next Publish or
// Subscribe.
//
// The registry is guarded by a single lock that is never held while
// handlers run, so handlers may publish, subscribe and release freely.
package messaging

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// Hub routes messages to subscribers by message type.
type Hub struct {
	mu     sync.Mutex
	subs   map[reflect.Type][]*Subscription
	logger logrus.FieldLogger
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger used for debug traces of hub activity.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs:   make(map[reflect.Type][]*Subscription),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithField("component", "messaging")
	return h
}

// Subscription is a registered handler for one message type.
type Subscription struct {
	typ      reflect.Type
	owner    any
	handler  func(any)
	released atomic.Bool
}

// Release stops delivery to this subscription. It is safe to call more than
// once and from any goroutine.
func (s *Subscription) Release() {
	s.released.Store(true)
}

// IsReleased reports whether Release has been called.
func (s *Subscription) IsReleased() bool {
	return s.released.Load()
}

// Type returns the message type the subscription receives.
func (s *Subscription) Type() reflect.Type { return s.typ }

// Owner returns the value the subscription was registered for.
func (s *Subscription) Owner() any { return s.owner }

// Subscribe registers fn for messages of type T on behalf of owner. Owner
// identifies the subscriber: subscribing the same owner to the same type
// again returns the existing subscription. Owner must be a comparable,
// non-nil value; pointers are the norm.
func Subscribe[T any](h *Hub, owner any, fn func(T)) (*Subscription, error) {
	if fn == nil {
		return nil, fluiderrors.New("messaging.Subscribe", fluiderrors.KindConfig,
			fmt.Errorf("%w: handler", fluiderrors.ErrNilArgument))
	}
	return h.subscribe("messaging.Subscribe", reflect.TypeFor[T](), owner, func(msg any) {
		v, _ := msg.(T)
		fn(v)
	})
}

// SubscribeType is the untyped form of Subscribe: fn receives every message
// published as Publish[T] with reflect.TypeFor[T]() == typ. Delivery is keyed
// by the type argument, not the dynamic type of the message, so a message
// published as an interface type does not reach subscribers of its concrete
// type.
func SubscribeType(h *Hub, typ reflect.Type, owner any, fn func(any)) (*Subscription, error) {
	if fn == nil || typ == nil {
		return nil, fluiderrors.New("messaging.SubscribeType", fluiderrors.KindConfig,
			fmt.Errorf("%w: type and handler are required", fluiderrors.ErrNilArgument))
	}
	return h.subscribe("messaging.SubscribeType", typ, owner, fn)
}

// SubscribeContext is Subscribe with a subscription that is released when
// ctx is done.
func SubscribeContext[T any](ctx context.Context, h *Hub, owner any, fn func(T)) (*Subscription, error) {
	sub, err := Subscribe(h, owner, fn)
	if err != nil {
		return nil, err
	}
	context.AfterFunc(ctx, sub.Release)
	return sub, nil
}

func (h *Hub) subscribe(op string, typ reflect.Type, owner any, fn func(any)) (*Subscription, error) {
	if owner == nil {
		return nil, fluiderrors.New(op, fluiderrors.KindConfig,
			fmt.Errorf("%w: owner", fluiderrors.ErrNilArgument))
	}
	if !reflect.TypeOf(owner).Comparable() {
		return nil, fluiderrors.New(op, fluiderrors.KindConfig,
			fmt.Errorf("owner of type %T is not comparable", owner))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked()

	for _, sub := range h.subs[typ] {
		if sub.owner == owner {
			return sub, nil
		}
	}
	sub := &Subscription{typ: typ, owner: owner, handler: fn}
	h.subs[typ] = append(h.subs[typ], sub)
	h.logger.WithField("type", typ.String()).Debug("subscribed")
	return sub, nil
}

// Publish delivers msg to every live subscriber of T, in subscription order,
// and returns how many handlers ran. Subscribers are matched on T itself, not
// on the dynamic type of msg. A handler that panics is reported through the
// error handler and does not stop delivery to the others.
func Publish[T any](h *Hub, msg T) int {
	typ := reflect.TypeFor[T]()

	h.mu.Lock()
	h.pruneLocked()
	subs := append([]*Subscription(nil), h.subs[typ]...)
	h.mu.Unlock()

	delivered := 0
	for _, sub := range subs {
		if sub.IsReleased() {
			continue
		}
		deliver(sub, msg)
		delivered++
	}
	if delivered > 0 {
		h.logger.WithFields(logrus.Fields{"type": typ.String(), "delivered": delivered}).Debug("published")
	}
	return delivered
}

func deliver(sub *Subscription, msg any) {
	defer fluiderrors.Recover("messaging.Publish")
	sub.handler(msg)
}

// Unsubscribe removes owner's subscription to T. Unknown owners and types
// are ignored.
func Unsubscribe[T any](h *Hub, owner any) {
	UnsubscribeType(h, reflect.TypeFor[T](), owner)
}

// UnsubscribeType removes owner's subscription to typ.
func UnsubscribeType(h *Hub, typ reflect.Type, owner any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[typ] {
		if sub.owner == owner {
			sub.Release()
		}
	}
	h.pruneLocked()
}

// UnsubscribeAll releases every subscription held by owner.
func (h *Hub) UnsubscribeAll(owner any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, sub := range subs {
			if sub.owner == owner {
				sub.Release()
			}
		}
	}
	h.pruneLocked()
}

// Count returns the number of live subscriptions to T.
func Count[T any](h *Hub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, sub := range h.subs[reflect.TypeFor[T]()] {
		if !sub.IsReleased() {
			n++
		}
	}
	return n
}

// pruneLocked drops released subscriptions and empty type buckets.
func (h *Hub) pruneLocked() {
	for typ, subs := range h.subs {
		live := subs[:0]
		for _, sub := range subs {
			if !sub.IsReleased() {
				live = append(live, sub)
			}
		}
		clear(subs[len(live):])
		if len(live) == 0 {
			delete(h.subs, typ)
			continue
		}
		h.subs[typ] = live
	}
}
