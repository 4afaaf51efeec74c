package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Value int
	Label string
}

func TestStore_Update(t *testing.T) {
	s := New(context.Background(), counter{Label: "start"})

	got := s.Update(func(c *counter) {
		c.Value = 3
		c.Label = "three"
	})

	assert.Equal(t, counter{Value: 3, Label: "three"}, got)
	assert.Equal(t, got, s.State())
}

func TestStore_UpdateIf(t *testing.T) {
	s := New(context.Background(), counter{})
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()
	<-updates // initial snapshot

	changed := s.UpdateIf(func(c *counter) bool { return false })
	assert.False(t, changed)
	select {
	case st := <-updates:
		t.Fatalf("unexpected publish: %+v", st)
	default:
	}

	changed = s.UpdateIf(func(c *counter) bool {
		c.Value++
		return true
	})
	assert.True(t, changed)
	assert.Equal(t, 1, (<-updates).Value)
}

func TestStore_SubscribeLatestWins(t *testing.T) {
	s := New(context.Background(), counter{})
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	for i := 1; i <= 5; i++ {
		s.Update(func(c *counter) { c.Value = i })
	}

	st := <-updates
	assert.Equal(t, 5, st.Value)
}

func TestStore_SnapshotsAreWhole(t *testing.T) {
	s := New(context.Background(), counter{})
	updates, unsubscribe := s.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for st := range updates {
			// Value and Label are always written together.
			if st.Value > 0 {
				assert.Equal(t, "set", st.Label)
			}
		}
	}()

	for i := 1; i <= 100; i++ {
		s.Update(func(c *counter) {
			c.Value = i
			c.Label = "set"
		})
	}

	unsubscribe()
	wg.Wait()
}

func TestStore_Unsubscribe(t *testing.T) {
	s := New(context.Background(), counter{})
	updates, unsubscribe := s.Subscribe()
	<-updates

	unsubscribe()
	unsubscribe() // idempotent

	_, ok := <-updates
	assert.False(t, ok)

	s.Update(func(c *counter) { c.Value = 1 })
}

func TestStore_GoAndWait(t *testing.T) {
	s := New(context.Background(), counter{})

	for i := 0; i < 10; i++ {
		s.Go(func() {
			s.Update(func(c *counter) { c.Value++ })
		})
	}
	s.Wait()

	assert.Equal(t, 10, s.State().Value)
}

func TestStore_GoAfterParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx, counter{})
	cancel()

	var sawCancel bool
	s.Go(func() {
		sawCancel = s.Context().Err() != nil
		s.Update(func(c *counter) { c.Value++ })
	})
	s.Wait()

	assert.True(t, sawCancel)
	assert.Equal(t, 1, s.State().Value, "work still runs so it can settle the state")
}

func TestStore_Close(t *testing.T) {
	s := New(context.Background(), counter{})
	updates, _ := s.Subscribe()
	<-updates

	started := make(chan struct{})
	s.Go(func() {
		close(started)
		<-s.Context().Done()
	})
	<-started

	s.Close()

	require.Error(t, s.Context().Err())
	_, ok := <-updates
	assert.False(t, ok, "subscriptions are closed")

	ran := false
	s.Go(func() { ran = true })
	s.Wait()
	assert.False(t, ran, "work is not started after close")

	late, _ := s.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
