package engine

// ListenerID identifies one subscription. The zero value is never issued.
type ListenerID uint32

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// EventWithArg delivers one payload to every subscriber in subscription order.
// Scenes use it to publish resolved contacts.
type EventWithArg[T any] struct {
	nextID    ListenerID
	listeners []listener[T]
}

// AddListener subscribes callback and returns the id to unsubscribe with.
// A nil callback is ignored and yields 0.
func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener drops the subscription with the given id.
// Reports false if it was not subscribed.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			// copy so an Invoke in progress keeps its own slice
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls the listeners subscribed when it starts.
// Listeners may subscribe or unsubscribe from inside the callback.
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		l.fn(arg)
	}
}

// HasListeners reports whether Invoke would call anything
func (e *EventWithArg[T]) HasListeners() bool {
	return len(e.listeners) > 0
}

func (e *EventWithArg[T]) Len() int {
	return len(e.listeners)
}

// Event is an EventWithArg without a payload
type Event struct {
	inner EventWithArg[struct{}]
}

func (e *Event) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	return e.inner.AddListener(func(struct{}) { callback() })
}

func (e *Event) RemoveListener(id ListenerID) bool {
	return e.inner.RemoveListener(id)
}

func (e *Event) RemoveAllListeners() {
	e.inner.RemoveAllListeners()
}

func (e *Event) Invoke() {
	e.inner.Invoke(struct{}{})
}

func (e *Event) Len() int {
	return e.inner.Len()
}
