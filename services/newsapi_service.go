package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tdempsey/RainbowRead250813/models"
	"github.com/tdempsey/RainbowRead250813/storage"
)

const defaultNewsApiBaseURL = "https://newsapi.org/v2"

// NewsApiService pulls LGBTQ+-related articles from the NewsAPI "everything"
// endpoint. Without an API key every fetch is a logged no-op.
type NewsApiService struct {
	store   *storage.MemStorage
	apiKey  string
	baseURL string
	client  *http.Client
	// pause between keyword queries to respect the API rate limits
	pause time.Duration
}

func NewNewsApiService(store *storage.MemStorage, apiKey string) *NewsApiService {
	if apiKey == "" {
		log.Println("WARNING: NEWS_API_KEY not set, NewsAPI fetches will be skipped")
	}
	return &NewsApiService{
		store:   store,
		apiKey:  apiKey,
		baseURL: defaultNewsApiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		pause:   time.Second,
	}
}

type newsApiResponse struct {
	Status   string        `json:"status"`
	Articles []newsApiItem `json:"articles"`
}

type newsApiItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	Author      string `json:"author"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// FetchAndSave queries a handful of keywords and stores whatever is new.
func (ns *NewsApiService) FetchAndSave() {
	if ns.apiKey == "" {
		log.Println("NewsAPI key not available, skipping NewsAPI fetch")
		return
	}

	created := 0
	keywords := lgbtqKeywords
	if len(keywords) > 5 {
		keywords = keywords[:5] // Limit API calls
	}

	for i, keyword := range keywords {
		if i > 0 {
			time.Sleep(ns.pause)
		}
		n, err := ns.fetchKeyword(keyword)
		if err != nil {
			log.Printf("NewsAPI error for keyword %q: %v", keyword, err)
			continue
		}
		created += n
	}

	log.Printf("Fetched %d articles from NewsAPI", created)
}

func (ns *NewsApiService) fetchKeyword(keyword string) (int, error) {
	endpoint := fmt.Sprintf("%s/everything?q=%s&language=en&sortBy=publishedAt&pageSize=20",
		ns.baseURL, url.QueryEscape(keyword))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-API-Key", ns.apiKey)

	resp, err := ns.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload newsApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode response: %v", err)
	}

	created := 0
	for _, item := range payload.Articles {
		if item.Title == "" || item.URL == "" || item.Title == "[Removed]" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		author := item.Author
		if author == "" {
			author = item.Source.Name
		}
		if author == "" {
			author = "NewsAPI"
		}

		sourceName := item.Source.Name
		if sourceName == "" {
			sourceName = "NewsAPI"
		}

		publishedAt := time.Now()
		if t, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			publishedAt = t
		}

		input := storage.ArticleInput{
			Title:          item.Title,
			Excerpt:        item.Description,
			Content:        content,
			URL:            item.URL,
			ImageURL:       item.URLToImage,
			Category:       categorizeArticle(item.Title, item.Description),
			Tags:           []string{keyword},
			Author:         author,
			Source:         sourceName,
			SourceType:     models.SourceTypeNewsAPI,
			PublishedAt:    publishedAt,
			IsLgbtqFocused: isLgbtqFocused(item.Title, item.Description, nil),
		}

		if _, err := ns.store.CreateArticle(input); err != nil {
			if errors.Is(err, storage.ErrDuplicateURL) {
				continue
			}
			log.Printf("Failed to save NewsAPI article %q: %v", item.Title, err)
			continue
		}
		created++
	}

	return created, nil
}

// categorizeArticle maps title and description text onto a known category
// slug for API items, which carry no feed tags.
func categorizeArticle(title, description string) string {
	text := strings.ToLower(title + " " + description)

	categoryHints := []struct {
		slug  string
		hints []string
	}{
		{"politics", []string{"politics", "government", "election", "congress", "senate", "legislation"}},
		{"culture", []string{"culture", "art", "entertainment", "music", "film", "movie", "book", "festival"}},
		{"health", []string{"health", "medical", "wellness", "mental health", "healthcare", "hospital"}},
		{"business", []string{"business", "corporate", "company", "economic", "finance", "market", "startup"}},
		{"community", []string{"community", "local", "neighborhood", "volunteer", "charity", "nonprofit"}},
	}
	for _, ch := range categoryHints {
		for _, hint := range ch.hints {
			if strings.Contains(text, hint) {
				return ch.slug
			}
		}
	}
	return "news"
}
