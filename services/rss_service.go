package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"github.com/tdempsey/RainbowRead250813/models"
	"github.com/tdempsey/RainbowRead250813/storage"
)

// Keyword heuristic marking domain-relevant content during ingestion.
var lgbtqKeywords = []string{
	"lgbtq", "lgbt", "gay", "lesbian", "bisexual", "transgender", "trans", "queer",
	"pride", "rainbow", "marriage equality", "discrimination", "civil rights",
	"coming out", "gender identity", "sexual orientation", "drag", "non-binary",
	"glaad", "human rights campaign", "stonewall", "pride parade", "gay rights",
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

type RssService struct {
	store  *storage.MemStorage
	parser *gofeed.Parser
}

func NewRssService(store *storage.MemStorage) *RssService {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{
		Timeout: 30 * time.Second,
	}

	return &RssService{
		store:  store,
		parser: parser,
	}
}

// FetchSource pulls the feed for one source, saves the new articles and
// stamps the source's last-fetched time. Returns the number of articles
// actually created; already-known URLs are skipped silently.
func (rs *RssService) FetchSource(source models.RssSource) (int, error) {
	log.Printf("Fetching RSS from: %s (%s)", source.Name, source.URL)

	feed, err := rs.parser.ParseURL(source.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed %s: %v", source.Name, err)
	}

	created := 0
	items := feed.Items
	if len(items) > 20 {
		items = items[:20] // Most recent items only
	}

	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		input := rs.articleFromItem(source, item)
		if _, err := rs.store.CreateArticle(input); err != nil {
			if errors.Is(err, storage.ErrDuplicateURL) {
				continue
			}
			log.Printf("Failed to save article %q: %v", item.Title, err)
			continue
		}
		created++
	}

	now := time.Now()
	if _, err := rs.store.UpdateRssSource(source.ID, storage.RssSourceUpdate{LastFetched: &now}); err != nil {
		log.Printf("Failed to update last fetched for %s: %v", source.Name, err)
	}

	log.Printf("Fetched %d new articles from %s", created, source.Name)
	return created, nil
}

// FetchAllSources refreshes every active source in turn.
func (rs *RssService) FetchAllSources() {
	sources := rs.store.GetActiveRssSources()
	log.Printf("Fetching from %d RSS sources...", len(sources))

	for _, source := range sources {
		if _, err := rs.FetchSource(source); err != nil {
			log.Printf("RSS fetch error: %v", err)
		}
	}

	log.Println("RSS fetch complete")
}

func (rs *RssService) articleFromItem(source models.RssSource, item *gofeed.Item) storage.ArticleInput {
	content := item.Description
	if item.Content != "" {
		content = item.Content
	}
	cleaned := cleanContent(content)

	excerpt := cleaned
	if len(excerpt) > 300 {
		excerpt = truncateRunes(excerpt, 300) + "..."
	}

	tags := item.Categories
	if len(tags) > 5 {
		tags = tags[:5]
	}

	author := source.Name
	if item.Author != nil && item.Author.Name != "" {
		author = item.Author.Name
	}

	imageURL := ""
	if len(item.Enclosures) > 0 {
		imageURL = item.Enclosures[0].URL
	}

	publishedAt := time.Now()
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	}

	return storage.ArticleInput{
		Title:          item.Title,
		Excerpt:        excerpt,
		Content:        cleaned,
		URL:            item.Link,
		ImageURL:       imageURL,
		Category:       extractCategory(source, tags),
		Tags:           tags,
		Author:         author,
		Source:         source.Name,
		SourceType:     models.SourceTypeRSS,
		PublishedAt:    publishedAt,
		IsLgbtqFocused: source.IsLgbtqFocused || isLgbtqFocused(item.Title, content, tags),
	}
}

func isLgbtqFocused(title, content string, tags []string) bool {
	text := strings.ToLower(title + " " + content + " " + strings.Join(tags, " "))
	for _, keyword := range lgbtqKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// extractCategory maps the first feed tag onto a known category slug,
// falling back to the source's default.
func extractCategory(source models.RssSource, tags []string) string {
	if len(tags) > 0 {
		tag := strings.ToLower(tags[0])
		categoryHints := []struct {
			slug  string
			hints []string
		}{
			{"politics", []string{"politics", "political", "government"}},
			{"culture", []string{"culture", "art", "entertainment", "music", "film"}},
			{"health", []string{"health", "wellness", "medical", "mental"}},
			{"business", []string{"business", "economic", "finance", "corporate"}},
			{"community", []string{"community", "local", "event", "social"}},
		}
		for _, ch := range categoryHints {
			for _, hint := range ch.hints {
				if strings.Contains(tag, hint) {
					return ch.slug
				}
			}
		}
	}
	if source.Category != "" {
		return source.Category
	}
	return "news"
}

// cleanContent strips HTML tags, unescapes common entities and caps the
// length for use as article body/excerpt material.
func cleanContent(content string) string {
	cleaned := htmlTagPattern.ReplaceAllString(content, "")
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
	cleaned = strings.TrimSpace(replacer.Replace(cleaned))
	return truncateRunes(cleaned, 500)
}

// truncateRunes caps the string at limit bytes without splitting a
// multi-byte rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
