package models

import (
	"time"
)

// Source type values for Article.SourceType.
const (
	SourceTypeRSS     = "rss"
	SourceTypeNewsAPI = "newsapi"
)

// ReservedCategorySlug is the sentinel slug meaning "no category filter".
// The category carrying it can never be deleted.
const ReservedCategorySlug = "all"

type Article struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	URL            string     `json:"url"`
	ImageURL       string     `json:"image_url,omitempty"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Author         string     `json:"author"`
	Source         string     `json:"source"`
	SourceType     string     `json:"source_type"` // "rss" | "newsapi"
	PublishedAt    time.Time  `json:"published_at"`
	CreatedAt      time.Time  `json:"created_at"`
	Likes          int        `json:"likes"`
	IsLgbtqFocused bool       `json:"is_lgbtq_focused"`
	IsPromoted     bool       `json:"is_promoted"`
	RankScore      int        `json:"rank_score"`
	PromotedAt     *time.Time `json:"promoted_at,omitempty"`
	IsHidden       bool       `json:"is_hidden"`
	HiddenAt       *time.Time `json:"hidden_at,omitempty"`
	SearchVector   string     `json:"-"` // Derived; never serialized
}

type RssSource struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	Category       string     `json:"category"`
	IsActive       bool       `json:"is_active"`
	IsLgbtqFocused bool       `json:"is_lgbtq_focused"`
	LastFetched    *time.Time `json:"last_fetched"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

type Bookmark struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchParams are the structured listing criteria. Zero values mean
// "no constraint"; LgbtqFocused distinguishes absent from false.
type SearchParams struct {
	Query        string   `json:"query,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Source       string   `json:"source,omitempty"`
	LgbtqFocused *bool    `json:"lgbtq_focused,omitempty"`
	Limit        int      `json:"limit"`
	Offset       int      `json:"offset"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalArticles    int `json:"total_articles"`
	PromotedArticles int `json:"promoted_articles"`
	HiddenArticles   int `json:"hidden_articles"`
	TotalSources     int `json:"total_sources"`
	ActiveSources    int `json:"active_sources"`
	TotalBookmarks   int `json:"total_bookmarks"`
}
