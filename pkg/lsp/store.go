package lsp

import (
	"sync"
)

// DocumentStore is a thread-safe store for document contents keyed by URI.
type DocumentStore struct {
	documents map[string]string
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]string),
	}
}

// Set stores document content for the given URI.
func (ds *DocumentStore) Set(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = content
}

// Get retrieves document content by URI.
func (ds *DocumentStore) Get(uri string) (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	content, ok := ds.documents[uri]

	return content, ok
}

// Delete removes document content by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}
