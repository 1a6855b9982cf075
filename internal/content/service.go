package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Service serves the bundled marketing content files verbatim. The files
// ship with the deployment and never change at runtime, so each one is
// read once and cached.
type Service struct {
	dir string

	mu    sync.Mutex
	cache map[string][]byte
}

func NewService(dir string) *Service {
	return &Service{
		dir:   dir,
		cache: make(map[string][]byte),
	}
}

// Projects returns the completed-projects showcase document.
func (s *Service) Projects() ([]byte, error) {
	return s.load("projects.json")
}

// Testimonials returns the customer testimonials document.
func (s *Service) Testimonials() ([]byte, error) {
	return s.load("testimonials.json")
}

func (s *Service) load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.cache[name]; ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read content file %s: %w", name, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("content file %s is not valid json", name)
	}

	s.cache[name] = data
	return data, nil
}
