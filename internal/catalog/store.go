package catalog

import (
	"sort"
	"sync"
)

// Store is the process-lifetime photo catalog. It has an explicit lifecycle
// (construct, seed, reset) and is injected into handlers, so tests get
// isolated instances. Guarded by a RWMutex since the sync pass can race
// uploads and deletes under concurrent requests.
type Store struct {
	mu        sync.RWMutex
	photos    []Photo
	byID      map[string]int
	publicIDs map[string]struct{}
}

func NewStore() *Store {
	s := &Store{}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.photos = nil
	s.byID = make(map[string]int)
	s.publicIDs = make(map[string]struct{})
}

// Add appends a photo. A photo whose public id is already present is
// rejected; this is the dedup invariant the sync pass relies on.
func (s *Store) Add(p Photo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[p.ID]; exists {
		return false
	}
	if p.PublicID != "" {
		if _, exists := s.publicIDs[p.PublicID]; exists {
			return false
		}
	}

	s.byID[p.ID] = len(s.photos)
	s.photos = append(s.photos, p)
	if p.PublicID != "" {
		s.publicIDs[p.PublicID] = struct{}{}
	}
	return true
}

// Get returns the photo with the given id.
func (s *Store) Get(id string) (Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return Photo{}, false
	}
	return clonePhoto(s.photos[idx]), true
}

// Update applies mutate to the stored photo under the write lock.
func (s *Store) Update(id string, mutate func(*Photo)) (Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return Photo{}, false
	}
	mutate(&s.photos[idx])
	return clonePhoto(s.photos[idx]), true
}

// Remove deletes the photo with the given id.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	removed := s.photos[idx]
	s.photos = append(s.photos[:idx], s.photos[idx+1:]...)
	delete(s.byID, id)
	if removed.PublicID != "" {
		delete(s.publicIDs, removed.PublicID)
	}
	for i := idx; i < len(s.photos); i++ {
		s.byID[s.photos[i].ID] = i
	}
	return true
}

// List returns photos, optionally filtered by category, newest first.
func (s *Store) List(category string) []Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Photo, 0, len(s.photos))
	for _, p := range s.photos {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, clonePhoto(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// HasPublicID reports whether an asset with the given public id is known.
func (s *Store) HasPublicID(publicID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.publicIDs[publicID]
	return ok
}

// PublicIDs returns the set of known public ids.
func (s *Store) PublicIDs() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.publicIDs))
	for id := range s.publicIDs {
		out[id] = struct{}{}
	}
	return out
}

// Len returns the number of stored photos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.photos)
}

// Reset clears the store. Test lifecycle helper.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// clonePhoto detaches the Tags backing array so callers cannot mutate
// stored state through a returned copy.
func clonePhoto(p Photo) Photo {
	if len(p.Tags) > 0 {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}
