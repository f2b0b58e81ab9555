package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tdempsey/RainbowRead250813/models"
	"github.com/tdempsey/RainbowRead250813/storage"
)

type ArticleHandlers struct {
	store *storage.MemStorage
}

func NewArticleHandlers(store *storage.MemStorage) *ArticleHandlers {
	return &ArticleHandlers{store: store}
}

type PromoteRequest struct {
	RankScore int `json:"rank_score"`
}

// parseSearchParams reads the structured criteria from the query string.
// Absent parameters mean "no constraint".
func parseSearchParams(r *http.Request) models.SearchParams {
	query := r.URL.Query()

	params := models.SearchParams{
		Query:    query.Get("query"),
		Category: query.Get("category"),
		Source:   query.Get("source"),
		Limit:    20,
	}

	if tagsStr := query.Get("tags"); tagsStr != "" {
		for _, tag := range strings.Split(tagsStr, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, tag)
			}
		}
	}

	if focusedStr := query.Get("lgbtqFocused"); focusedStr != "" {
		if focused, err := strconv.ParseBool(focusedStr); err == nil {
			params.LgbtqFocused = &focused
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}

	return params
}

// GetArticles serves both plain listing and free-text search; presence of
// the query parameter decides which.
func (ah *ArticleHandlers) GetArticles(w http.ResponseWriter, r *http.Request) {
	params := parseSearchParams(r)

	var articles []models.Article
	if params.Query != "" {
		articles = ah.store.SearchArticles(params.Query, params)
	} else {
		articles = ah.store.GetArticles(params)
	}

	writeData(w, http.StatusOK, articles)
}

func (ah *ArticleHandlers) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := ah.store.GetArticleByID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

func (ah *ArticleHandlers) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var upd storage.ArticleUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	article, err := ah.store.UpdateArticle(mux.Vars(r)["id"], upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

func (ah *ArticleHandlers) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := ah.store.DeleteArticle(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Article deleted"})
}

func (ah *ArticleHandlers) LikeArticle(w http.ResponseWriter, r *http.Request) {
	article, err := ah.store.LikeArticle(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

func (ah *ArticleHandlers) PromoteArticle(w http.ResponseWriter, r *http.Request) {
	var req PromoteRequest
	// An empty body means the default rank score; anything else must parse.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	article, err := ah.store.PromoteArticle(mux.Vars(r)["id"], req.RankScore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

func (ah *ArticleHandlers) UnpromoteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := ah.store.UnpromoteArticle(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

func (ah *ArticleHandlers) HideArticle(w http.ResponseWriter, r *http.Request) {
	article, err := ah.store.HideArticle(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

func (ah *ArticleHandlers) UnhideArticle(w http.ResponseWriter, r *http.Request) {
	article, err := ah.store.UnhideArticle(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, article)
}

// GetAllArticles is the administrative dump, optionally including hidden
// articles.
func (ah *ArticleHandlers) GetAllArticles(w http.ResponseWriter, r *http.Request) {
	includeHidden := false
	if v := r.URL.Query().Get("includeHidden"); v != "" {
		includeHidden, _ = strconv.ParseBool(v)
	}
	writeData(w, http.StatusOK, ah.store.GetAllArticles(includeHidden))
}

func (ah *ArticleHandlers) GetTrendingTags(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	writeData(w, http.StatusOK, ah.store.TrendingTags(limit))
}

func (ah *ArticleHandlers) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 5
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	suggestions := ah.store.Suggestions(query.Get("q"), limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeData(w, http.StatusOK, suggestions)
}

func (ah *ArticleHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, ah.store.GetStats())
}
