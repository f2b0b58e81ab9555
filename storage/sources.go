package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tdempsey/RainbowRead250813/models"
)

// RssSourceInput carries the caller-supplied fields for a new RSS source.
// IsActive defaults to true when omitted.
type RssSourceInput struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	Category       string `json:"category"`
	IsActive       *bool  `json:"is_active"`
	IsLgbtqFocused bool   `json:"is_lgbtq_focused"`
}

func (s *MemStorage) GetRssSources() []models.RssSource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]models.RssSource, 0, len(s.sourceOrder))
	for _, id := range s.sourceOrder {
		sources = append(sources, *s.sources[id])
	}
	return sources
}

func (s *MemStorage) GetActiveRssSources() []models.RssSource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sources []models.RssSource
	for _, id := range s.sourceOrder {
		if src := s.sources[id]; src.IsActive {
			sources = append(sources, *src)
		}
	}
	return sources
}

func (s *MemStorage) GetRssSourceByID(id string) (models.RssSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.sources[id]
	if !ok {
		return models.RssSource{}, ErrNotFound
	}
	return *src, nil
}

func (s *MemStorage) CreateRssSource(input RssSourceInput) (models.RssSource, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.RssSource{}, missingField("name")
	}
	if strings.TrimSpace(input.URL) == "" {
		return models.RssSource{}, missingField("url")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sources {
		if existing.URL == input.URL {
			return models.RssSource{}, ErrDuplicateURL
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	src := &models.RssSource{
		ID:             uuid.NewString(),
		Name:           input.Name,
		URL:            input.URL,
		Category:       input.Category,
		IsActive:       active,
		IsLgbtqFocused: input.IsLgbtqFocused,
	}
	s.sources[src.ID] = src
	s.sourceOrder = append(s.sourceOrder, src.ID)
	return *src, nil
}

// RssSourceUpdate carries a partial update; nil fields are left untouched.
type RssSourceUpdate struct {
	Name           *string    `json:"name"`
	URL            *string    `json:"url"`
	Category       *string    `json:"category"`
	IsActive       *bool      `json:"is_active"`
	IsLgbtqFocused *bool      `json:"is_lgbtq_focused"`
	LastFetched    *time.Time `json:"last_fetched"`
}

func (s *MemStorage) UpdateRssSource(id string, upd RssSourceUpdate) (models.RssSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.sources[id]
	if !ok {
		return models.RssSource{}, ErrNotFound
	}

	if upd.URL != nil && *upd.URL != src.URL {
		for _, existing := range s.sources {
			if existing.URL == *upd.URL {
				return models.RssSource{}, ErrDuplicateURL
			}
		}
		src.URL = *upd.URL
	}
	if upd.Name != nil {
		src.Name = *upd.Name
	}
	if upd.Category != nil {
		src.Category = *upd.Category
	}
	if upd.IsActive != nil {
		src.IsActive = *upd.IsActive
	}
	if upd.IsLgbtqFocused != nil {
		src.IsLgbtqFocused = *upd.IsLgbtqFocused
	}
	if upd.LastFetched != nil {
		src.LastFetched = upd.LastFetched
	}

	return *src, nil
}

func (s *MemStorage) DeleteRssSource(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sources[id]; !ok {
		return ErrNotFound
	}
	delete(s.sources, id)
	s.sourceOrder = removeID(s.sourceOrder, id)
	return nil
}
