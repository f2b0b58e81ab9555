package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tdempsey/RainbowRead250813/models"
)

func (s *MemStorage) GetBookmarksBySession(sessionID string) []models.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookmarks []models.Bookmark
	for _, id := range s.bookmarkOrder {
		if b := s.bookmarks[id]; b.SessionID == sessionID {
			bookmarks = append(bookmarks, *b)
		}
	}
	return bookmarks
}

// CreateBookmark records an (article, session) pair. The store does not
// enforce uniqueness; saving the same article twice yields two bookmarks.
func (s *MemStorage) CreateBookmark(articleID, sessionID string) (models.Bookmark, error) {
	if strings.TrimSpace(articleID) == "" {
		return models.Bookmark{}, missingField("article_id")
	}
	if strings.TrimSpace(sessionID) == "" {
		return models.Bookmark{}, missingField("session_id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookmark := &models.Bookmark{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	s.bookmarks[bookmark.ID] = bookmark
	s.bookmarkOrder = append(s.bookmarkOrder, bookmark.ID)
	return *bookmark, nil
}

// DeleteBookmark removes the first bookmark matching the pair.
func (s *MemStorage) DeleteBookmark(articleID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.bookmarkOrder {
		b := s.bookmarks[id]
		if b.ArticleID == articleID && b.SessionID == sessionID {
			delete(s.bookmarks, id)
			s.bookmarkOrder = removeID(s.bookmarkOrder, id)
			return nil
		}
	}
	return ErrNotFound
}
