package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// FakeStore is an in-memory Store for tests. FailUpload/FailDelete let tests
// simulate blob store outages.
type FakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	FailUpload error
	FailDelete error
}

// NewFakeStore returns an empty in-memory store.
func NewFakeStore() *FakeStore {
	return &FakeStore{objects: make(map[string][]byte)}
}

func (f *FakeStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.FailUpload != nil {
		return "", f.FailUpload
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return f.URL(key), nil
}

func (f *FakeStore) Delete(ctx context.Context, key string) error {
	if f.FailDelete != nil {
		return f.FailDelete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *FakeStore) URL(key string) string {
	return fmt.Sprintf("https://blobs.test/%s", key)
}

// Has reports whether an object was stored under key.
func (f *FakeStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// Object returns the stored bytes for key.
func (f *FakeStore) Object(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

// Len returns the number of stored objects.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
