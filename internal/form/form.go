// Package form holds the field values of one wizard step and notifies observers on every change.
package form

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// FieldID names a form field.
type FieldID string

// Observer is notified after a field value changes. A nil value means the field was reset.
type Observer interface {
	OnChange(ctx context.Context, field FieldID, value any) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, field FieldID, value any) error

func (f ObserverFunc) OnChange(ctx context.Context, field FieldID, value any) error {
	return f(ctx, field, value)
}

// Form is safe for concurrent use. Observers run on the caller's goroutine, outside the lock,
// so they may read and write the form.
type Form struct {
	mu        sync.RWMutex
	values    map[FieldID]any
	observers []Observer
}

func New() *Form {
	return &Form{values: make(map[FieldID]any)}
}

// Observe registers o for every subsequent change.
func (f *Form) Observe(o Observer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, o)
}

// Set stores value and dispatches the change. Setting nil resets the field.
// Observer errors are joined and returned; the value is stored regardless.
func (f *Form) Set(ctx context.Context, field FieldID, value any) error {
	f.mu.Lock()
	if value == nil {
		delete(f.values, field)
	} else {
		f.values[field] = value
	}
	observers := append([]Observer(nil), f.observers...)
	f.mu.Unlock()

	var errs []error
	for _, o := range observers {
		if err := o.OnChange(ctx, field, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset sets the field to nil.
func (f *Form) Reset(ctx context.Context, field FieldID) error {
	return f.Set(ctx, field, nil)
}

// Load stores values without notifying observers.
func (f *Form) Load(values Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range values {
		if v == nil {
			delete(f.values, k)
			continue
		}
		f.values[k] = v
	}
}

func (f *Form) Value(field FieldID) any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[field]
}

// Values returns a snapshot of every non-nil field.
func (f *Form) Values() Values {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(Values, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Values is a point-in-time copy of a form.
type Values map[FieldID]any

// Has reports whether field holds a non-empty value.
func (v Values) Has(field FieldID) bool {
	return !IsEmpty(v[field])
}

// IsEmpty reports whether value is nil or the zero value of its type: "", 0, the zero
// time or an unselected reference such as models.Province{}.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}

// Get returns the field value as T. ok is false when the field is unset or holds another type.
func Get[T any](v Values, field FieldID) (T, bool) {
	val, ok := v[field].(T)
	return val, ok
}

// String returns the field as a string, or "" when unset.
func (v Values) String(field FieldID) string {
	s, _ := Get[string](v, field)
	return s
}
