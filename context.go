package tablefsm

import (
	"maps"
	"sync"
)

// AppData provides thread-safe storage for application state shared
// between callbacks. Pass it to Init and read it back with Arg.
type AppData struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewAppData creates an empty store.
func NewAppData() *AppData {
	return &AppData{
		data: make(map[string]any),
	}
}

// Get retrieves a value by key. Returns nil if the key does not exist.
func (c *AppData) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

// Set stores a value by key.
func (c *AppData) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Update applies fn to the current value of key under the write lock.
func (c *AppData) Update(key string, fn func(old any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = fn(c.data[key])
}

// Delete removes a key from the store.
func (c *AppData) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// GetAll returns a snapshot copy of all data.
func (c *AppData) GetAll() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.data)
}

// LoadAll replaces all data in the store with a copy of data.
func (c *AppData) LoadAll(data map[string]any) {
	cp := maps.Clone(data)
	if cp == nil {
		cp = make(map[string]any)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = cp
}

// Value returns the value under key as T.
func Value[T any](c *AppData, key string) (T, bool) {
	v, ok := c.Get(key).(T)
	return v, ok
}

// AppDataFrom extracts the *AppData given to Init from a callback context.
func AppDataFrom(fsm Context) (*AppData, bool) {
	d, ok := fsm.Arg().(*AppData)
	return d, ok
}
