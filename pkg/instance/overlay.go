package instance

import (
	"context"
	"errors"
	"fmt"
)

// Overlay applies reads and single-field mutations against a Store.
type Overlay struct {
	Store Store
}

var errNoStore = errors.New("instance: no store configured")

// Resolve returns the stored state or the zero State. It never creates rows.
func (o Overlay) Resolve(ctx context.Context, key Key) (State, error) {
	if o.Store == nil {
		return State{}, errNoStore
	}
	st, _, err := o.Store.InstanceState(ctx, key)
	if err != nil {
		return State{}, fmt.Errorf("instance: resolve %s: %w", key, err)
	}
	return st, nil
}

// Set writes v into field f of the occurrence, creating the row if needed.
// Repeating the call converges on the same state.
func (o Overlay) Set(ctx context.Context, key Key, f Field, v bool) (State, error) {
	st, err := o.Resolve(ctx, key)
	if err != nil {
		return State{}, err
	}
	return o.write(ctx, key, st, st.With(f, v))
}

// Toggle flips field f of the occurrence and leaves the other two alone.
func (o Overlay) Toggle(ctx context.Context, key Key, f Field) (State, error) {
	st, err := o.Resolve(ctx, key)
	if err != nil {
		return State{}, err
	}
	return o.write(ctx, key, st, st.With(f, !st.Get(f)))
}

func (o Overlay) write(ctx context.Context, key Key, prev, next State) (State, error) {
	if err := o.Store.UpsertInstanceState(ctx, key, next); err != nil {
		return prev, fmt.Errorf("instance: update %s: %w", key, err)
	}
	return next, nil
}
