package fetch

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/viccon/sturdyc"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCapacity is the number of resolved states kept when Options.Capacity is zero.
	DefaultCapacity = 1024

	storeShards             = 8
	storeEvictionPercentage = 10
	// retainForever stands in for "no expiry" in the state store; capacity still bounds it.
	retainForever = 100 * 365 * 24 * time.Hour
)

// Loader performs the network call behind a resource key.
type Loader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, key string) ([]byte, error)

func (f LoaderFunc) Load(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

// Observer is notified after every state transition of a key.
type Observer func(key string, state State)

// Options configures a Client.
type Options struct {
	Loader Loader
	// StaleAfter is the freshness window; zero keeps states fresh until invalidated.
	StaleAfter time.Duration
	// Timeout bounds each load; zero disables the bound.
	Timeout time.Duration
	// Capacity bounds how many resolved states are kept once no view watches them. The
	// oldest are evicted first. Zero means DefaultCapacity.
	Capacity int
	// Retention drops a resolved state that nobody watches after this long, so the next
	// read loads it again. Zero keeps states until capacity forces them out.
	Retention time.Duration
	Logger    *logrus.Logger
	Now      func() time.Time
	Observer Observer
}

// Client caches resource states per key and fans them out to subscribers.
type Client struct {
	loader     Loader
	staleAfter time.Duration
	timeout    time.Duration
	logger     *logrus.Logger
	now        func() time.Time
	observer   Observer

	group singleflight.Group
	// states holds the last resolved state of every key, bounded by capacity.
	states *sturdyc.Client[State]

	mu sync.Mutex
	// entries tracks only keys that have subscribers or a load in flight.
	entries map[string]*entry
	seq     uint64
}

type entry struct {
	state    State
	resolved bool
	version  uint64
	// landed is the sequence of the flight whose result is held in state.
	landed uint64
	// invalidatedAt discards flights issued at or before it.
	invalidatedAt uint64
	flights       int
	subscribers   map[*subscriber]struct{}
}

type subscriber struct {
	mu     sync.Mutex
	fn     func(State)
	last   uint64
	active bool
}

func (s *subscriber) deliver(version uint64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || version <= s.last {
		return
	}
	s.last = version
	s.fn(state)
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	if opts.Loader == nil {
		return nil, eris.New("fetch loader is required")
	}
	if opts.StaleAfter < 0 {
		return nil, eris.New("stale window must not be negative")
	}
	if opts.Timeout < 0 {
		return nil, eris.New("fetch timeout must not be negative")
	}
	if opts.Capacity < 0 {
		return nil, eris.New("fetch capacity must not be negative")
	}
	if opts.Retention < 0 {
		return nil, eris.New("retention must not be negative")
	}
	if opts.Retention > 0 && opts.Retention < opts.StaleAfter {
		return nil, eris.New("retention must not be shorter than the stale window")
	}

	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	shards := min(storeShards, capacity)

	retention := opts.Retention
	if retention == 0 {
		retention = retainForever
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Client{
		loader:     opts.Loader,
		staleAfter: opts.StaleAfter,
		timeout:    opts.Timeout,
		logger:     logger,
		now:        now,
		observer:   opts.Observer,
		states: sturdyc.New[State](capacity, shards, retention, storeEvictionPercentage,
			sturdyc.WithNoContinuousEvictions(),
		),
		entries: make(map[string]*entry),
	}, nil
}

// Subscribe delivers the current state of key to fn synchronously, starts a load when the
// key is missing or stale, and delivers every later transition until the returned function
// is called. fn must not call the returned function itself.
func (c *Client) Subscribe(ctx context.Context, key string, fn func(State)) func() {
	sub := &subscriber{fn: fn, active: true}

	// Held until the initial delivery so later transitions queue behind it.
	sub.mu.Lock()

	c.mu.Lock()
	e := c.entryLocked(key)
	e.subscribers[sub] = struct{}{}
	current, version := e.state, e.version
	stale := !c.freshLocked(e.state, e.resolved)
	c.mu.Unlock()

	sub.last = version
	fn(current)
	sub.mu.Unlock()

	if stale {
		c.startFlight(ctx, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if e, ok := c.entries[key]; ok {
				delete(e.subscribers, sub)
				c.releaseLocked(key, e)
			}
			c.mu.Unlock()

			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()
		})
	}
}

// Query waits for key to resolve or ctx to expire. On expiry it returns whatever state the
// cache holds, which is the loading state for a key that never resolved.
func (c *Client) Query(ctx context.Context, key string) State {
	resolved := make(chan State, 1)
	unsubscribe := c.Subscribe(ctx, key, func(state State) {
		if !state.Resolved() {
			return
		}
		select {
		case resolved <- state:
		default:
		}
	})
	defer unsubscribe()

	select {
	case state := <-resolved:
		return state
	case <-ctx.Done():
		if state, ok := c.Peek(key); ok {
			return state
		}
		return State{Status: StatusLoading}
	}
}

// Peek returns the cached state without triggering a load.
func (c *Client) Peek(key string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.state, true
	}
	return c.states.Get(key)
}

// Prefetch starts loads for every key that is missing or stale without waiting for them.
func (c *Client) Prefetch(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.mu.Lock()
		stale := !c.freshLocked(c.currentLocked(key))
		c.mu.Unlock()

		if stale {
			c.startFlight(ctx, key)
		}
	}
}

// Invalidate drops the cached state of key. Results of loads issued before the call are
// discarded, and the key is reloaded at once when it has subscribers.
func (c *Client) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	c.states.Delete(key)
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.group.Forget(key)
		c.logEntry(key).Debug("resource invalidated")
		return
	}

	c.seq++
	e.invalidatedAt = c.seq
	e.resolved = false
	e.state = State{Status: StatusLoading}
	e.version++
	version, state := e.version, e.state
	subscribers := snapshot(e)
	c.group.Forget(key)
	c.mu.Unlock()

	c.logEntry(key).Debug("resource invalidated")
	c.notify(key, version, state, subscribers)

	if len(subscribers) > 0 {
		c.startFlight(ctx, key)
	}
}

// Retry invalidates key and waits for the reload.
func (c *Client) Retry(ctx context.Context, key string) State {
	c.Invalidate(ctx, key)
	return c.Query(ctx, key)
}

func (c *Client) startFlight(ctx context.Context, key string) {
	// Loads outlive the request that started them; context values are kept.
	flightCtx := context.WithoutCancel(ctx)

	c.group.DoChan(key, func() (any, error) {
		c.mu.Lock()
		e := c.entryLocked(key)
		if c.freshLocked(e.state, e.resolved) {
			c.releaseLocked(key, e)
			c.mu.Unlock()
			return nil, nil
		}
		c.seq++
		seq := c.seq
		e.flights++
		c.mu.Unlock()

		c.logEntry(key).WithField("seq", seq).Debug("loading resource")

		loadCtx := flightCtx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(flightCtx, c.timeout)
			defer cancel()
		}

		body, err := c.loader.Load(loadCtx, key)
		c.land(key, seq, body, err)
		return nil, nil
	})
}

func (c *Client) land(key string, seq uint64, body []byte, err error) {
	state := State{Status: StatusSuccess, Data: body, UpdatedAt: c.now()}
	if err != nil {
		state = State{Status: StatusError, Err: asFetchError(key, err), UpdatedAt: state.UpdatedAt}
	}

	c.mu.Lock()
	e := c.entryLocked(key)
	e.flights--
	if seq < e.landed || seq <= e.invalidatedAt {
		c.releaseLocked(key, e)
		c.mu.Unlock()
		c.logEntry(key).WithField("seq", seq).Debug("discarding superseded resource load")
		return
	}
	e.state = state
	e.resolved = true
	e.landed = seq
	e.version++
	version := e.version
	subscribers := snapshot(e)
	c.states.Set(key, state)
	c.releaseLocked(key, e)
	c.mu.Unlock()

	if err != nil {
		c.logEntry(key).WithField("error", err.Error()).Error("resource load failed")
	}

	c.notify(key, version, state, subscribers)
}

func (c *Client) notify(key string, version uint64, state State, subscribers []*subscriber) {
	if c.observer != nil {
		c.observer(key, state)
	}
	for _, sub := range subscribers {
		sub.deliver(version, state)
	}
}

// entryLocked returns the live entry of key, seeding a new one from the state store.
func (c *Client) entryLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			state:       State{Status: StatusLoading},
			subscribers: make(map[*subscriber]struct{}),
		}
		if state, ok := c.states.Get(key); ok {
			e.state, e.resolved = state, true
		}
		c.entries[key] = e
	}
	return e
}

// releaseLocked forgets the live entry of key once nothing watches or loads it. Its
// resolved state stays in the store.
func (c *Client) releaseLocked(key string, e *entry) {
	if len(e.subscribers) > 0 || e.flights > 0 {
		return
	}
	if c.entries[key] == e {
		delete(c.entries, key)
	}
}

func (c *Client) currentLocked(key string) (State, bool) {
	if e, ok := c.entries[key]; ok {
		return e.state, e.resolved
	}
	if state, ok := c.states.Get(key); ok {
		return state, true
	}
	return State{Status: StatusLoading}, false
}

func (c *Client) freshLocked(state State, resolved bool) bool {
	if !resolved {
		return false
	}
	if c.staleAfter == 0 {
		return true
	}
	return c.now().Sub(state.UpdatedAt) < c.staleAfter
}

func (c *Client) logEntry(key string) *logrus.Entry {
	return c.logger.WithFields(logrus.Fields{"component": "fetch", "key": key})
}

func snapshot(e *entry) []*subscriber {
	subscribers := make([]*subscriber, 0, len(e.subscribers))
	for sub := range e.subscribers {
		subscribers = append(subscribers, sub)
	}
	return subscribers
}
