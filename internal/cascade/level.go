package cascade

import (
	"context"
	"sync"

	"insured-registration/internal/common/metrics"
	"insured-registration/internal/form"
)

// FetchFunc loads the options of a level given the current form values.
type FetchFunc[T any] func(ctx context.Context, values form.Values) ([]T, error)

// Level is the option list backing one field. Its list is valid only for the parent
// values it was fetched with; every invalidation bumps the generation and responses
// captured under an older generation are dropped.
type Level[T any] struct {
	field   form.FieldID
	parents []form.FieldID
	fetch   FetchFunc[T]

	mu         sync.Mutex
	items      []T
	err        error
	loading    bool
	generation uint64
}

// NewLevel creates a level for field whose options depend on parents. A level without
// parents is a root and is loaded by Controller.Init.
func NewLevel[T any](field form.FieldID, fetch FetchFunc[T], parents ...form.FieldID) *Level[T] {
	return &Level[T]{field: field, parents: parents, fetch: fetch}
}

func (l *Level[T]) Field() form.FieldID { return l.field }

func (l *Level[T]) Parents() []form.FieldID {
	return append([]form.FieldID(nil), l.parents...)
}

// Items returns a copy of the current options.
func (l *Level[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Err is the error of the last completed fetch, if any.
func (l *Level[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Level[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *Level[T]) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// Find returns the first option matching match.
func (l *Level[T]) Find(match func(T) bool) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (l *Level[T]) dependsOn(field form.FieldID) bool {
	for _, p := range l.parents {
		if p == field {
			return true
		}
	}
	return false
}

func (l *Level[T]) invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	l.items = nil
	l.err = nil
	l.loading = false
}

func (l *Level[T]) load(ctx context.Context, values form.Values) error {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.items = nil
	l.err = nil
	l.loading = true
	l.mu.Unlock()

	items, err := l.fetch(ctx, values)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		metrics.StaleResponses.WithLabelValues(string(l.field)).Inc()
		return nil
	}
	l.loading = false
	if err != nil {
		l.err = err
		return err
	}
	l.items = items
	return nil
}
