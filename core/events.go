package core

import (
	"github.com/kamstrup/intmap"
)

// Engine events and their parameters.
var (
	EventUpdate     = NewStringHash("Update")
	EventPostUpdate = NewStringHash("PostUpdate")
	EventKeyDown    = NewStringHash("KeyDown")
	EventExit       = NewStringHash("ExitRequested")

	ParamTimeStep = NewStringHash("TimeStep")
	ParamKey      = NewStringHash("Key")
)

// EventData carries named event parameters.
type EventData map[StringHash]any

// Float returns a float32 parameter, or 0 when absent or of another type.
func (d EventData) Float(key StringHash) float32 {
	v, _ := d[key].(float32)
	return v
}

// Int returns an int parameter, or 0 when absent or of another type.
func (d EventData) Int(key StringHash) int {
	v, _ := d[key].(int)
	return v
}

type EventHandler func(event StringHash, data EventData)

// SubscriptionID identifies one handler registration.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler EventHandler
}

// EventBus dispatches events to handlers synchronously on the caller's
// goroutine. Handlers of one event run in subscription order. It is not safe
// for concurrent use; the engine drives it from the main loop only.
type EventBus struct {
	handlers *intmap.Map[StringHash, []subscription]
	nextID   SubscriptionID
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: intmap.New[StringHash, []subscription](16),
	}
}

func (b *EventBus) Subscribe(event StringHash, handler EventHandler) SubscriptionID {
	b.nextID++
	subs, _ := b.handlers.Get(event)
	b.handlers.Put(event, append(subs, subscription{id: b.nextID, handler: handler}))
	return b.nextID
}

// Unsubscribe removes one registration and reports whether it existed.
func (b *EventBus) Unsubscribe(event StringHash, id SubscriptionID) bool {
	subs, ok := b.handlers.Get(event)
	if !ok {
		return false
	}
	for i, s := range subs {
		if s.id != id {
			continue
		}
		kept := make([]subscription, 0, len(subs)-1)
		kept = append(kept, subs[:i]...)
		kept = append(kept, subs[i+1:]...)
		if len(kept) == 0 {
			b.handlers.Del(event)
		} else {
			b.handlers.Put(event, kept)
		}
		return true
	}
	return false
}

// UnsubscribeAll drops every handler of event.
func (b *EventBus) UnsubscribeAll(event StringHash) {
	b.handlers.Del(event)
}

func (b *EventBus) HasSubscribers(event StringHash) bool {
	subs, ok := b.handlers.Get(event)
	return ok && len(subs) > 0
}

// Send invokes the handlers registered at the time of the call. Handlers may
// subscribe or unsubscribe while being dispatched.
func (b *EventBus) Send(event StringHash, data EventData) {
	subs, ok := b.handlers.Get(event)
	if !ok {
		return
	}
	for _, s := range subs {
		s.handler(event, data)
	}
}
