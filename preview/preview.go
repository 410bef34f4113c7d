// Package preview keeps generated documents in process memory behind revocable
// handles, the way a browser object URL points at an in-memory blob.
package preview

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is prepended to the handle id to form its preview URL.
const URLPrefix = "blob:inspecta/"

// ErrNotFound is returned for unknown or revoked handles.
var ErrNotFound = errors.New("preview: handle not found")

// Handle references one registered document.
type Handle struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Registry is a process-local, concurrency-safe store of preview documents.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]byte
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string][]byte{}, now: time.Now}
}

// Register stores a copy of data and returns its handle.
func (r *Registry) Register(data []byte) Handle {
	id := uuid.NewString()
	blob := append([]byte(nil), data...)

	r.mu.Lock()
	r.entries[id] = blob
	r.mu.Unlock()

	return Handle{
		ID:        id,
		URL:       URLPrefix + id,
		Size:      len(blob),
		CreatedAt: r.now(),
	}
}

// Bytes returns a copy of the document registered under id.
func (r *Registry) Bytes(id string) ([]byte, error) {
	r.mu.RLock()
	blob, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

// Open returns a reader over the document registered under id.
func (r *Registry) Open(id string) (*bytes.Reader, error) {
	r.mu.RLock()
	blob, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.NewReader(blob), nil
}

// Revoke releases the document. It reports whether the handle was live.
func (r *Registry) Revoke(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
