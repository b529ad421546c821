// Package storage archives rendered PDFs in object storage.
package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/delivery"
)

// MemoryArchive keeps blobs in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string]storedBlob
	now   func() time.Time
}

type storedBlob struct {
	data        []byte
	contentType string
	etag        string
}

// NewMemoryArchive constructs the archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{blobs: make(map[string]storedBlob), now: time.Now}
}

// Put stores the blob and returns metadata.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, contentType string) (delivery.StoredObject, error) {
	if strings.TrimSpace(key) == "" {
		return delivery.StoredObject{}, fmt.Errorf("empty object key")
	}
	hash := md5.Sum(data)
	etag := hex.EncodeToString(hash[:])

	a.mu.Lock()
	defer a.mu.Unlock()
	a.blobs[key] = storedBlob{data: append([]byte(nil), data...), contentType: contentType, etag: etag}
	return delivery.StoredObject{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
		ETag:        etag,
		CreatedAt:   a.now(),
	}, nil
}

// Get returns a copy of the stored blob.
func (a *MemoryArchive) Get(_ context.Context, key string) ([]byte, string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[key]
	if !ok {
		return nil, "", fmt.Errorf("blob %q not found", key)
	}
	return append([]byte(nil), blob.data...), blob.contentType, nil
}

// Keys lists stored keys with the given prefix in lexical order.
func (a *MemoryArchive) Keys(prefix string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var keys []string
	for k := range a.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

var _ delivery.Archive = (*MemoryArchive)(nil)
