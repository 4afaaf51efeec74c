// Package store holds state owned by a single state machine instance.
//
// Mutations run under one lock and are published to observers as whole
// snapshots, so no half-applied update is ever visible. Background work is
// tracked so owners can wait for it or cancel it on teardown.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Store is a single-owner state container
type Store[S any] struct {
	mu     sync.Mutex
	state  S
	subs   map[int]chan S
	nextID int
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	tasks  errgroup.Group
}

// New creates a store holding initial. Work started with Go is bound to ctx.
func New[S any](ctx context.Context, initial S) *Store[S] {
	ctx, cancel := context.WithCancel(ctx)
	return &Store[S]{
		state:  initial,
		subs:   make(map[int]chan S),
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns the current snapshot
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn and publishes the result
func (s *Store[S]) Update(fn func(*S)) S {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.publish()
	return s.state
}

// UpdateIf applies fn and publishes only when fn reports a change.
// fn must leave the state untouched when it returns false.
func (s *Store[S]) UpdateIf(fn func(*S) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(&s.state) {
		return false
	}
	s.publish()
	return true
}

// Subscribe returns a channel receiving snapshots after every published
// update. Slow readers only see the latest snapshot. The returned func
// unsubscribes and closes the channel.
func (s *Store[S]) Subscribe() (<-chan S, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan S, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// publish must be called with mu held
func (s *Store[S]) publish() {
	for _, ch := range s.subs {
		select {
		case ch <- s.state:
		default:
			// Drop the stale snapshot so the newest one always lands.
			select {
			case <-ch:
			default:
			}
			ch <- s.state
		}
	}
}

// Context returns the context background work is bound to
func (s *Store[S]) Context() context.Context {
	return s.ctx
}

// Go runs fn in the background. It returns immediately and is a no-op once
// the store is closed. fn still runs when only the parent context is done,
// so it can observe the cancellation and settle the state.
func (s *Store[S]) Go(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.tasks.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until all background work has finished
func (s *Store[S]) Wait() {
	_ = s.tasks.Wait()
}

// Close cancels background work, waits for it and closes every subscription
func (s *Store[S]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
