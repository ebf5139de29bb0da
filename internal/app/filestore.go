package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/domain"
)

type storedFile struct {
	name     string
	data     []byte
	storedAt time.Time
}

// FileStore is a content-keyed, time-bounded blob cache. Blobs are
// evicted lazily: every Get first sweeps anything older than the TTL,
// so an expired id and a never-stored id are indistinguishable.
type FileStore struct {
	mu       sync.Mutex
	files    map[string]storedFile
	maxBytes int64
	ttl      time.Duration

	now func() time.Time // swapped out in tests
}

func NewFileStore(maxBytes int64, ttl time.Duration) *FileStore {
	return &FileStore{
		files:    make(map[string]storedFile),
		maxBytes: maxBytes,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores payload under a fresh unique id. Filename collisions are
// irrelevant; the id is independent of the name.
func (s *FileStore) Put(name string, data []byte) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrPayloadTooLarge, len(data), s.maxBytes)
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.files[id] = storedFile{name: name, data: data, storedAt: s.now()}
	s.mu.Unlock()
	log.Info().Str("module", "app.filestore").Str("file_id", id).Str("name", name).Int("bytes", len(data)).Msg("stored file")
	return id, nil
}

// Get returns the original filename and payload for id, or
// domain.ErrNotFound if the id is absent or expired.
func (s *FileStore) Get(id string) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	f, ok := s.files[id]
	if !ok {
		return "", nil, domain.ErrNotFound
	}
	return f.name, f.data, nil
}

func (s *FileStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, f := range s.files {
		if f.storedAt.Before(cutoff) || f.storedAt.Equal(cutoff) {
			delete(s.files, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Info().Str("module", "app.filestore").Int("evicted", evicted).Msg("swept expired files")
	}
}
