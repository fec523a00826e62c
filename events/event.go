package events

import (
	"slices"
	"sync"
)

type (
	Event[T any] interface {
		Dispatch(value T)
		Subscribe(*func(value T))
		Unsubscribe(*func(value T))
	}

	event[T any] struct {
		listeners []*func(value T)
		mutex     sync.RWMutex
	}
)

func CreateEvent[T any]() Event[T] {
	return &event[T]{
		listeners: make([]*func(data T), 0),
	}
}

func (m *event[T]) Dispatch(value T) {
	m.mutex.RLock()
	listeners := slices.Clone(m.listeners)
	m.mutex.RUnlock()

	for _, listener := range listeners {
		(*listener)(value)
	}
}

func (m *event[T]) Subscribe(f *func(data T)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.listeners = append(m.listeners, f)
}

func (m *event[T]) Unsubscribe(f *func(data T)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if index := slices.Index(m.listeners, f); index > -1 {
		m.listeners = append(m.listeners[:index], m.listeners[index+1:]...)
	}
}
