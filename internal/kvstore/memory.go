package kvstore

import (
	"context"
	"sort"
	"sync"
)

// MemDevice is an in-memory Device for tests and throwaway stores.
type MemDevice struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemDevice() *MemDevice {
	return &MemDevice{data: make(map[string][]byte)}
}

func (d *MemDevice) Get(ctx context.Context, key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (d *MemDevice) Set(ctx context.Context, key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[key] = append([]byte(nil), value...)
	return nil
}

func (d *MemDevice) Delete(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data, key)
	return nil
}

func (d *MemDevice) Keys(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Batch applies fn to a copy of the store and swaps it in only when fn
// succeeds, so a failed batch leaves the device untouched.
func (d *MemDevice) Batch(ctx context.Context, fn func(d Device) error) error {
	d.mu.Lock()
	clone := &MemDevice{data: make(map[string][]byte, len(d.data))}
	for k, v := range d.data {
		clone.data[k] = append([]byte(nil), v...)
	}
	d.mu.Unlock()

	if err := fn(clone); err != nil {
		return err
	}

	d.mu.Lock()
	d.data = clone.data
	d.mu.Unlock()
	return nil
}
