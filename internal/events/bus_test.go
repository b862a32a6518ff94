package events

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryEvent(id, state string) *LibraryStatusChanged {
	return &LibraryStatusChanged{
		BaseEvent: NewBaseEvent(EventLibraryStatusChanged, EntityLibrary, id),
		LibraryID: id,
		State:     state,
	}
}

func syncEvent(state string) *SyncStateChanged {
	return &SyncStateChanged{BaseEvent: NewBaseEvent(EventSyncStateChanged, EntitySync, "catalog"), State: state}
}

// drain returns whatever is buffered in ch without blocking.
func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestBus_Routing(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	byType := bus.Subscribe(EventSyncStateChanged, 8)
	all := bus.SubscribeAll(8)
	movies := bus.SubscribeEntity(EntityLibrary, "movies", 8)
	custom := bus.SubscribeFunc(func(e Event) bool {
		lib, ok := e.(*LibraryStatusChanged)
		return ok && lib.State == "error"
	}, 8)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, syncEvent("retrieving")))
	require.NoError(t, bus.Publish(ctx, libraryEvent("shows", "available")))
	require.NoError(t, bus.Publish(ctx, libraryEvent("movies", "complete")))
	require.NoError(t, bus.Publish(ctx, libraryEvent("shows", "error")))

	assert.Len(t, drain(byType), 1)
	assert.Len(t, drain(all), 4)

	got := drain(movies)
	require.Len(t, got, 1)
	assert.Equal(t, "movies", got[0].EntityID())

	got = drain(custom)
	require.Len(t, got, 1)
	assert.Equal(t, "shows", got[0].EntityID())
}

func TestOfType_MatchesAnyListedType(t *testing.T) {
	f := OfType(EventSyncStateChanged, EventPlaybackReported)
	assert.True(t, f(syncEvent("complete")))
	assert.False(t, f(libraryEvent("movies", "complete")))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.Subscribe(EventSyncStateChanged, 4)
	keep := bus.SubscribeAll(4)
	bus.Unsubscribe(ch)
	bus.Unsubscribe(ch)
	bus.Unsubscribe(make(chan Event))

	require.NoError(t, bus.Publish(context.Background(), syncEvent("complete")))

	_, ok := <-ch
	assert.False(t, ok, "unsubscribed channel is closed")
	assert.Len(t, drain(keep), 1)
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.Subscribe(EventSyncStateChanged, 1)
	for range 3 {
		require.NoError(t, bus.Publish(context.Background(), syncEvent("available")))
	}

	assert.Len(t, ch, 1)
	assert.Equal(t, int64(2), bus.Dropped())
}

func TestBus_NilAndClosed(t *testing.T) {
	var nilBus *Bus
	assert.NoError(t, nilBus.Publish(context.Background(), syncEvent("complete")))

	bus := NewBus(nil)
	sub := bus.SubscribeAll(1)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, ok := <-sub
	assert.False(t, ok, "close ends existing subscriptions")
	assert.NoError(t, bus.Publish(context.Background(), syncEvent("complete")))

	_, ok = <-bus.Subscribe(EventSyncStateChanged, 1)
	assert.False(t, ok, "subscribing after close yields a closed channel")
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ch := bus.SubscribeAll(100)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), libraryEvent(fmt.Sprintf("lib%d", i), "complete"))
		}()
	}
	wg.Wait()

	assert.Len(t, ch, 10)
	assert.Zero(t, bus.Dropped())
}
