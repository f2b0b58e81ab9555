package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tdempsey/RainbowRead250813/middleware"
	"github.com/tdempsey/RainbowRead250813/models"
	"github.com/tdempsey/RainbowRead250813/storage"
)

type BookmarkHandlers struct {
	store *storage.MemStorage
}

func NewBookmarkHandlers(store *storage.MemStorage) *BookmarkHandlers {
	return &BookmarkHandlers{store: store}
}

type CreateBookmarkRequest struct {
	ArticleID string `json:"article_id"`
	SessionID string `json:"session_id"`
}

// sessionID resolves the caller's session: an explicit sessionId query
// parameter wins (API clients), otherwise the cookie session applies.
func sessionID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return middleware.SessionID(r)
}

func (bh *BookmarkHandlers) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r, r.URL.Query().Get("sessionId"))
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Session ID required"})
		return
	}

	bookmarks := bh.store.GetBookmarksBySession(sid)
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}
	writeData(w, http.StatusOK, bookmarks)
}

func (bh *BookmarkHandlers) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	sid := sessionID(r, req.SessionID)
	bookmark, err := bh.store.CreateBookmark(req.ArticleID, sid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, bookmark)
}

func (bh *BookmarkHandlers) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r, r.URL.Query().Get("sessionId"))
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Session ID required"})
		return
	}

	if err := bh.store.DeleteBookmark(mux.Vars(r)["articleId"], sid); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Bookmark deleted"})
}
