package storage

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tdempsey/RainbowRead250813/models"
)

// CategoryInput carries the caller-supplied fields for a new category.
// IsActive defaults to true when omitted.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// GetCategories returns the active categories ordered by sort order, ties
// broken by insertion order.
func (s *MemStorage) GetCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		if cat := s.categories[id]; cat.IsActive {
			categories = append(categories, *cat)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})
	return categories
}

func (s *MemStorage) GetCategoryByID(id string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	return *cat, nil
}

// GetCategoryBySlug is the lookup-by-alternate-key shim for callers that
// identify categories by slug rather than id.
func (s *MemStorage) GetCategoryBySlug(slug string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.categoryOrder {
		if cat := s.categories[id]; strings.EqualFold(cat.Slug, slug) {
			return *cat, nil
		}
	}
	return models.Category{}, ErrNotFound
}

func (s *MemStorage) CreateCategory(input CategoryInput) (models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Category{}, missingField("name")
	}
	if strings.TrimSpace(input.Slug) == "" {
		return models.Category{}, missingField("slug")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, input.Name) {
			return models.Category{}, &ValidationError{Field: "name", Message: "name already exists"}
		}
		if strings.EqualFold(existing.Slug, input.Slug) {
			return models.Category{}, &ValidationError{Field: "slug", Message: "slug already exists"}
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	cat := &models.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Slug:        strings.ToLower(input.Slug),
		Description: input.Description,
		IsActive:    active,
		SortOrder:   input.SortOrder,
	}
	s.categories[cat.ID] = cat
	s.categoryOrder = append(s.categoryOrder, cat.ID)
	return *cat, nil
}

// CategoryUpdate carries a partial update; nil fields are left untouched.
// The slug itself is immutable so the reserved "all" slug cannot be moved.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

func (s *MemStorage) UpdateCategory(id string, upd CategoryUpdate) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}

	if upd.Name != nil {
		cat.Name = *upd.Name
	}
	if upd.Description != nil {
		cat.Description = *upd.Description
	}
	if upd.IsActive != nil {
		cat.IsActive = *upd.IsActive
	}
	if upd.SortOrder != nil {
		cat.SortOrder = *upd.SortOrder
	}

	return *cat, nil
}

func (s *MemStorage) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[id]
	if !ok {
		return ErrNotFound
	}
	if cat.Slug == models.ReservedCategorySlug {
		return ErrReservedCategory
	}
	delete(s.categories, id)
	s.categoryOrder = removeID(s.categoryOrder, id)
	return nil
}
