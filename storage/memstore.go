package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tdempsey/RainbowRead250813/models"
	"github.com/tdempsey/RainbowRead250813/search"
)

// MemStorage is the authoritative in-memory store for articles, RSS
// sources, categories and bookmarks. One mutex guards all four collections,
// so every read-modify-write cycle (like, promote, ...) is atomic with
// respect to concurrent callers.
//
// The fuzzy search index is derived state: it is rebuilt eagerly from the
// non-hidden articles whenever membership or searchable text changes.
// Engagement and promotion mutations skip the rebuild; search paths re-read
// the authoritative records instead of trusting index snapshots.
type MemStorage struct {
	mu sync.RWMutex

	articles     map[string]*models.Article
	articleOrder []string

	sources     map[string]*models.RssSource
	sourceOrder []string

	categories    map[string]*models.Category
	categoryOrder []string

	bookmarks     map[string]*models.Bookmark
	bookmarkOrder []string

	index      *search.Index
	searchOpts []search.Option
}

func NewMemStorage(searchOpts ...search.Option) *MemStorage {
	s := &MemStorage{
		articles:   make(map[string]*models.Article),
		sources:    make(map[string]*models.RssSource),
		categories: make(map[string]*models.Category),
		bookmarks:  make(map[string]*models.Bookmark),
		searchOpts: searchOpts,
	}
	s.seedDefaults()
	s.rebuildIndex()
	return s
}

func (s *MemStorage) seedDefaults() {
	defaultCategories := []models.Category{
		{Name: "All Stories", Slug: "all", Description: "All news stories", IsActive: true, SortOrder: 0},
		{Name: "Politics", Slug: "politics", Description: "Political news and updates", IsActive: true, SortOrder: 1},
		{Name: "Culture & Arts", Slug: "culture", Description: "Cultural events and artistic expression", IsActive: true, SortOrder: 2},
		{Name: "Health & Wellness", Slug: "health", Description: "Health and wellness information", IsActive: true, SortOrder: 3},
		{Name: "Business", Slug: "business", Description: "Business and economic news", IsActive: true, SortOrder: 4},
		{Name: "Community", Slug: "community", Description: "Community events and stories", IsActive: true, SortOrder: 5},
	}
	for _, cat := range defaultCategories {
		cat.ID = uuid.NewString()
		c := cat
		s.categories[c.ID] = &c
		s.categoryOrder = append(s.categoryOrder, c.ID)
	}

	defaultSources := []models.RssSource{
		{Name: "GLAAD Media", URL: "https://glaad.org/feed/", Category: "advocacy", IsActive: true, IsLgbtqFocused: true},
		{Name: "Out Magazine", URL: "https://www.out.com/rss.xml", Category: "culture", IsActive: true, IsLgbtqFocused: true},
		{Name: "Queerty", URL: "https://www.queerty.com/feed", Category: "news", IsActive: true, IsLgbtqFocused: true},
		{Name: "The Advocate", URL: "https://www.advocate.com/rss.xml", Category: "news", IsActive: true, IsLgbtqFocused: true},
	}
	for _, src := range defaultSources {
		src.ID = uuid.NewString()
		sc := src
		s.sources[sc.ID] = &sc
		s.sourceOrder = append(s.sourceOrder, sc.ID)
	}
}

// rebuildIndex must be called with the write lock held.
func (s *MemStorage) rebuildIndex() {
	visible := make([]models.Article, 0, len(s.articleOrder))
	for _, id := range s.articleOrder {
		if a := s.articles[id]; !a.IsHidden {
			visible = append(visible, cloneArticle(a))
		}
	}
	s.index = search.New(visible, s.searchOpts...)
}

// buildSearchVector precomputes the lowercase concatenation of the
// searchable fields used for substring matching.
func buildSearchVector(a *models.Article) string {
	parts := []string{a.Title, a.Excerpt, a.Content, strings.Join(a.Tags, " "), a.Author, a.Category}
	return strings.ToLower(strings.Join(parts, " "))
}

func cloneArticle(a *models.Article) models.Article {
	c := *a
	c.Tags = append([]string(nil), a.Tags...)
	return c
}

// ArticleInput carries the caller-supplied fields for a new article.
// Everything else (id, timestamps, engagement, promotion, visibility,
// search vector) starts from its zero state.
type ArticleInput struct {
	Title          string    `json:"title"`
	Excerpt        string    `json:"excerpt"`
	Content        string    `json:"content"`
	URL            string    `json:"url"`
	ImageURL       string    `json:"image_url"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Author         string    `json:"author"`
	Source         string    `json:"source"`
	SourceType     string    `json:"source_type"`
	PublishedAt    time.Time `json:"published_at"`
	IsLgbtqFocused bool      `json:"is_lgbtq_focused"`
}

func (in *ArticleInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return missingField("title")
	case strings.TrimSpace(in.URL) == "":
		return missingField("url")
	case strings.TrimSpace(in.Category) == "":
		return missingField("category")
	case strings.TrimSpace(in.Author) == "":
		return missingField("author")
	case strings.TrimSpace(in.Source) == "":
		return missingField("source")
	case in.PublishedAt.IsZero():
		return missingField("published_at")
	}
	if in.SourceType != models.SourceTypeRSS && in.SourceType != models.SourceTypeNewsAPI {
		return &ValidationError{Field: "source_type", Message: "must be \"rss\" or \"newsapi\""}
	}
	return nil
}

func (s *MemStorage) CreateArticle(input ArticleInput) (models.Article, error) {
	if err := input.validate(); err != nil {
		return models.Article{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.articles {
		if existing.URL == input.URL {
			return models.Article{}, ErrDuplicateURL
		}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	article := &models.Article{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Excerpt:        input.Excerpt,
		Content:        input.Content,
		URL:            input.URL,
		ImageURL:       input.ImageURL,
		Category:       input.Category,
		Tags:           tags,
		Author:         input.Author,
		Source:         input.Source,
		SourceType:     input.SourceType,
		PublishedAt:    input.PublishedAt,
		CreatedAt:      time.Now(),
		IsLgbtqFocused: input.IsLgbtqFocused,
	}
	article.SearchVector = buildSearchVector(article)

	s.articles[article.ID] = article
	s.articleOrder = append(s.articleOrder, article.ID)
	s.rebuildIndex()

	return cloneArticle(article), nil
}

// GetArticleByID returns the article even when it is hidden; hiding only
// removes articles from listing and search paths.
func (s *MemStorage) GetArticleByID(id string) (models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	return cloneArticle(article), nil
}

// ArticleUpdate carries a partial update; nil fields are left untouched.
type ArticleUpdate struct {
	Title          *string    `json:"title"`
	Excerpt        *string    `json:"excerpt"`
	Content        *string    `json:"content"`
	URL            *string    `json:"url"`
	ImageURL       *string    `json:"image_url"`
	Category       *string    `json:"category"`
	Tags           []string   `json:"tags"`
	Author         *string    `json:"author"`
	Source         *string    `json:"source"`
	SourceType     *string    `json:"source_type"`
	PublishedAt    *time.Time `json:"published_at"`
	IsLgbtqFocused *bool      `json:"is_lgbtq_focused"`
}

func (s *MemStorage) UpdateArticle(id string, upd ArticleUpdate) (models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}

	if upd.URL != nil && *upd.URL != article.URL {
		for _, existing := range s.articles {
			if existing.URL == *upd.URL {
				return models.Article{}, ErrDuplicateURL
			}
		}
		article.URL = *upd.URL
	}

	vectorChanged := false
	setString := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			vectorChanged = true
		}
	}
	setString(&article.Title, upd.Title)
	setString(&article.Excerpt, upd.Excerpt)
	setString(&article.Content, upd.Content)
	setString(&article.Category, upd.Category)
	setString(&article.Author, upd.Author)
	if upd.Tags != nil {
		article.Tags = append([]string(nil), upd.Tags...)
		vectorChanged = true
	}

	if upd.ImageURL != nil {
		article.ImageURL = *upd.ImageURL
	}
	if upd.Source != nil {
		article.Source = *upd.Source
	}
	if upd.SourceType != nil {
		if *upd.SourceType != models.SourceTypeRSS && *upd.SourceType != models.SourceTypeNewsAPI {
			return models.Article{}, &ValidationError{Field: "source_type", Message: "must be \"rss\" or \"newsapi\""}
		}
		article.SourceType = *upd.SourceType
	}
	if upd.PublishedAt != nil {
		article.PublishedAt = *upd.PublishedAt
	}
	if upd.IsLgbtqFocused != nil {
		article.IsLgbtqFocused = *upd.IsLgbtqFocused
	}

	if vectorChanged {
		article.SearchVector = buildSearchVector(article)
	}
	s.rebuildIndex()

	return cloneArticle(article), nil
}

func (s *MemStorage) DeleteArticle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return ErrNotFound
	}
	delete(s.articles, id)
	s.articleOrder = removeID(s.articleOrder, id)
	s.rebuildIndex()
	return nil
}

// LikeArticle increments the like counter by one. Repeat likes from the
// same caller are not deduplicated.
func (s *MemStorage) LikeArticle(id string) (models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	article.Likes++
	return cloneArticle(article), nil
}

// PromoteArticle places the article ahead of chronological order. A rank
// score of zero or less falls back to DefaultRankScore.
func (s *MemStorage) PromoteArticle(id string, rankScore int) (models.Article, error) {
	if rankScore <= 0 {
		rankScore = DefaultRankScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	now := time.Now()
	article.IsPromoted = true
	article.RankScore = rankScore
	article.PromotedAt = &now
	return cloneArticle(article), nil
}

// UnpromoteArticle resets the promotion state. Calling it on an article
// that is not promoted is a no-op.
func (s *MemStorage) UnpromoteArticle(id string) (models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	article.IsPromoted = false
	article.RankScore = 0
	article.PromotedAt = nil
	return cloneArticle(article), nil
}

func (s *MemStorage) HideArticle(id string) (models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	now := time.Now()
	article.IsHidden = true
	article.HiddenAt = &now
	s.rebuildIndex()
	return cloneArticle(article), nil
}

func (s *MemStorage) UnhideArticle(id string) (models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	article.IsHidden = false
	article.HiddenAt = nil
	s.rebuildIndex()
	return cloneArticle(article), nil
}

// GetArticles lists non-hidden articles: filter pipeline, ranking policy,
// pagination window, in that order.
func (s *MemStorage) GetArticles(params models.SearchParams) []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters := buildFilters(params)
	articles := make([]models.Article, 0, len(s.articleOrder))
	for _, id := range s.articleOrder {
		a := s.articles[id]
		if a.IsHidden {
			continue
		}
		if matchesFilters(a, filters) {
			articles = append(articles, cloneArticle(a))
		}
	}

	sortArticles(articles)
	return paginate(articles, params.Limit, params.Offset)
}

// SearchArticles narrows candidates with the fuzzy index, then applies the
// same filter/sort/paginate pipeline as GetArticles. Queries with no token
// the index can use fall back to exact substring matching against the
// precomputed search vector.
//
// The index only decides which articles match; the returned records are
// re-read from the store, since engagement and promotion mutations do not
// rebuild the index.
func (s *MemStorage) SearchArticles(query string, params models.SearchParams) []models.Article {
	if strings.TrimSpace(query) == "" {
		return s.GetArticles(params)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []models.Article
	if search.HasUsableTokens(query) {
		for _, hit := range s.index.Search(query) {
			if a, ok := s.articles[hit.ID]; ok && !a.IsHidden {
				candidates = append(candidates, cloneArticle(a))
			}
		}
	} else {
		terms := strings.Fields(strings.ToLower(query))
		for _, id := range s.articleOrder {
			a := s.articles[id]
			if a.IsHidden {
				continue
			}
			if matchesAllTerms(a.SearchVector, terms) {
				candidates = append(candidates, cloneArticle(a))
			}
		}
	}

	filters := buildFilters(params)
	filtered := candidates[:0]
	for i := range candidates {
		if matchesFilters(&candidates[i], filters) {
			filtered = append(filtered, candidates[i])
		}
	}

	sortArticles(filtered)
	return paginate(filtered, params.Limit, params.Offset)
}

// GetAllArticles is the administrative dump: unpaginated and, when asked,
// including hidden articles. The same ranking policy applies.
func (s *MemStorage) GetAllArticles(includeHidden bool) []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := make([]models.Article, 0, len(s.articleOrder))
	for _, id := range s.articleOrder {
		a := s.articles[id]
		if a.IsHidden && !includeHidden {
			continue
		}
		articles = append(articles, cloneArticle(a))
	}
	sortArticles(articles)
	return articles
}

// TrendingTags and Suggestions delegate to the index, which only ever
// holds non-hidden articles.
func (s *MemStorage) TrendingTags(limit int) []models.TagCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.TrendingTags(limit)
}

func (s *MemStorage) Suggestions(prefix string, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Suggestions(prefix, limit)
}

func paginate(articles []models.Article, limit, offset int) []models.Article {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(articles) {
		return []models.Article{}
	}
	end := offset + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[offset:end]
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// Stats summarizes the store for the admin dashboard.
func (s *MemStorage) GetStats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{
		TotalArticles:  len(s.articles),
		TotalSources:   len(s.sources),
		TotalBookmarks: len(s.bookmarks),
	}
	for _, a := range s.articles {
		if a.IsPromoted {
			stats.PromotedArticles++
		}
		if a.IsHidden {
			stats.HiddenArticles++
		}
	}
	for _, src := range s.sources {
		if src.IsActive {
			stats.ActiveSources++
		}
	}
	return stats
}
