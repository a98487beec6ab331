package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs tests and
// favors clarity over performance.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (m *MemoryStore) Get(_ context.Context, path string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.docs[path]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: docID(path), Fields: cloneFields(fields)}, nil
}

func (m *MemoryStore) Set(_ context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[path] = cloneFields(fields)
	return nil
}

func (m *MemoryStore) Merge(_ context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[path]
	if !ok {
		m.docs[path] = cloneFields(fields)
		return nil
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, path)
	return nil
}

func (m *MemoryStore) List(_ context.Context, path string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := path + "/"

	var out []Document
	for p, fields := range m.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		// Immediate children only, not nested subcollections.
		if strings.ContainsRune(p[len(prefix):], '/') {
			continue
		}
		out = append(out, Document{ID: docID(p), Fields: cloneFields(fields)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
