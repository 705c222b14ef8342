package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-process Store used by tests and local runs without AWS.
type Memory struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	types   map[string]string

	// FailDelete, when set, is returned by Delete for that key.
	FailDelete map[string]error
}

// NewMemory returns an empty in-memory store.
func NewMemory(bucket string) *Memory {
	return &Memory{
		bucket:  bucket,
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (m *Memory) Put(_ context.Context, key string, body io.Reader, opts *PutOptions) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	if opts != nil {
		m.types[key] = opts.ContentType
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailDelete[key]; ok {
		return err
	}
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return PublicURL(m.bucket, key)
}

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Get returns the stored bytes and content type of key.
func (m *Memory) Get(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return bytes.Clone(b), m.types[key], ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
