package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/tdempsey/RainbowRead250813/models"
)

func testInput(title, url string) ArticleInput {
	return ArticleInput{
		Title:       title,
		Excerpt:     "excerpt for " + title,
		Content:     "content for " + title,
		URL:         url,
		Category:    "politics",
		Tags:        []string{"Pride"},
		Author:      "Test Author",
		Source:      "Test Source",
		SourceType:  models.SourceTypeRSS,
		PublishedAt: time.Now(),
	}
}

func TestCreateArticleDefaults(t *testing.T) {
	s := NewMemStorage()

	input := testInput("First Article", "https://example.com/first")
	input.Tags = nil
	article, err := s.CreateArticle(input)
	if err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	if article.ID == "" {
		t.Error("expected generated ID")
	}
	if article.Tags == nil || len(article.Tags) != 0 {
		t.Errorf("Tags = %v, want empty slice", article.Tags)
	}
	if article.Likes != 0 || article.IsPromoted || article.RankScore != 0 || article.PromotedAt != nil {
		t.Error("engagement and promotion fields should start at zero state")
	}
	if article.IsHidden || article.HiddenAt != nil {
		t.Error("articles should not start hidden")
	}
	if article.SearchVector == "" {
		t.Error("search vector should be computed on create")
	}
	if article.CreatedAt.IsZero() {
		t.Error("created timestamp should be set")
	}
}

func TestCreateArticleValidation(t *testing.T) {
	s := NewMemStorage()

	tests := []struct {
		name   string
		mutate func(*ArticleInput)
		field  string
	}{
		{"missing title", func(in *ArticleInput) { in.Title = "" }, "title"},
		{"missing url", func(in *ArticleInput) { in.URL = "" }, "url"},
		{"missing category", func(in *ArticleInput) { in.Category = "" }, "category"},
		{"missing author", func(in *ArticleInput) { in.Author = "" }, "author"},
		{"missing source", func(in *ArticleInput) { in.Source = "" }, "source"},
		{"zero published_at", func(in *ArticleInput) { in.PublishedAt = time.Time{} }, "published_at"},
		{"bad source type", func(in *ArticleInput) { in.SourceType = "scraper" }, "source_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testInput("Valid Title", "https://example.com/valid")
			tt.mutate(&input)

			_, err := s.CreateArticle(input)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestCreateArticleDuplicateURL(t *testing.T) {
	s := NewMemStorage()

	if _, err := s.CreateArticle(testInput("One", "https://example.com/same")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := s.CreateArticle(testInput("Two", "https://example.com/same"))
	if !errors.Is(err, ErrDuplicateURL) {
		t.Errorf("got %v, want ErrDuplicateURL", err)
	}
}

func TestUpdateArticleRecomputesSearchVector(t *testing.T) {
	s := NewMemStorage()

	article, err := s.CreateArticle(testInput("Original Title", "https://example.com/update"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "Completely Different Headline"
	updated, err := s.UpdateArticle(article.ID, ArticleUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != title {
		t.Errorf("Title = %q, want %q", updated.Title, title)
	}
	if updated.SearchVector == article.SearchVector {
		t.Error("search vector should be recomputed when the title changes")
	}

	// Non-contributing fields leave the vector untouched.
	img := "https://example.com/img.png"
	after, err := s.UpdateArticle(article.ID, ArticleUpdate{ImageURL: &img})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if after.SearchVector != updated.SearchVector {
		t.Error("image URL update should not change the search vector")
	}
}

func TestUpdateArticleNotFound(t *testing.T) {
	s := NewMemStorage()
	if _, err := s.UpdateArticle("missing", ArticleUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	s := NewMemStorage()

	article, _ := s.CreateArticle(testInput("Doomed", "https://example.com/doomed"))
	if err := s.DeleteArticle(article.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.GetArticleByID(article.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
	if err := s.DeleteArticle(article.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestLikeArticle(t *testing.T) {
	s := NewMemStorage()

	article, _ := s.CreateArticle(testInput("Likeable", "https://example.com/like"))

	// Repeat likes from the same caller are intentionally not deduplicated.
	for i := 0; i < 3; i++ {
		if _, err := s.LikeArticle(article.ID); err != nil {
			t.Fatalf("like failed: %v", err)
		}
	}

	got, _ := s.GetArticleByID(article.ID)
	if got.Likes != 3 {
		t.Errorf("Likes = %d, want 3", got.Likes)
	}

	if _, err := s.LikeArticle("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPromoteRoundTrip(t *testing.T) {
	s := NewMemStorage()

	article, _ := s.CreateArticle(testInput("Promotable", "https://example.com/promote"))

	if _, err := s.PromoteArticle(article.ID, 250); err != nil {
		t.Fatalf("promote failed: %v", err)
	}

	got, _ := s.GetArticleByID(article.ID)
	if !got.IsPromoted {
		t.Error("IsPromoted = false, want true")
	}
	if got.RankScore != 250 {
		t.Errorf("RankScore = %d, want 250", got.RankScore)
	}
	if got.PromotedAt == nil {
		t.Error("PromotedAt should be set on promotion")
	}
}

func TestPromoteDefaultRankScore(t *testing.T) {
	s := NewMemStorage()

	article, _ := s.CreateArticle(testInput("Default Rank", "https://example.com/default-rank"))
	got, err := s.PromoteArticle(article.ID, 0)
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if got.RankScore != DefaultRankScore {
		t.Errorf("RankScore = %d, want %d", got.RankScore, DefaultRankScore)
	}
}

func TestUnpromoteIdempotent(t *testing.T) {
	s := NewMemStorage()

	article, _ := s.CreateArticle(testInput("Unpromotable", "https://example.com/unpromote"))
	s.PromoteArticle(article.ID, 300)

	for i := 0; i < 2; i++ {
		got, err := s.UnpromoteArticle(article.ID)
		if err != nil {
			t.Fatalf("unpromote #%d failed: %v", i+1, err)
		}
		if got.IsPromoted || got.RankScore != 0 || got.PromotedAt != nil {
			t.Errorf("unpromote #%d: got promoted=%v rank=%d promotedAt=%v, want cleared",
				i+1, got.IsPromoted, got.RankScore, got.PromotedAt)
		}
	}
}

func TestHiddenArticlesExcluded(t *testing.T) {
	s := NewMemStorage()

	visible, _ := s.CreateArticle(testInput("Visible Story", "https://example.com/visible"))
	hidden, _ := s.CreateArticle(testInput("Hidden Story", "https://example.com/hidden"))

	if _, err := s.HideArticle(hidden.ID); err != nil {
		t.Fatalf("hide failed: %v", err)
	}

	list := s.GetArticles(models.SearchParams{})
	for _, a := range list {
		if a.ID == hidden.ID {
			t.Error("hidden article appeared in list")
		}
	}
	if len(list) != 1 || list[0].ID != visible.ID {
		t.Errorf("list = %d articles, want only the visible one", len(list))
	}

	results := s.SearchArticles("story", models.SearchParams{})
	for _, a := range results {
		if a.ID == hidden.ID {
			t.Error("hidden article appeared in search results")
		}
	}

	// Direct lookup still works and the record stays in the store.
	got, err := s.GetArticleByID(hidden.ID)
	if err != nil {
		t.Fatalf("GetArticleByID failed for hidden article: %v", err)
	}
	if !got.IsHidden || got.HiddenAt == nil {
		t.Error("hidden article should carry its hidden flag and timestamp")
	}

	// Unhide restores it symmetrically.
	restored, err := s.UnhideArticle(hidden.ID)
	if err != nil {
		t.Fatalf("unhide failed: %v", err)
	}
	if restored.IsHidden || restored.HiddenAt != nil {
		t.Error("unhide should clear both flag and timestamp")
	}
	if got := s.GetArticles(models.SearchParams{}); len(got) != 2 {
		t.Errorf("after unhide list = %d articles, want 2", len(got))
	}
}

func TestHiddenArticlesExcludedFromTrending(t *testing.T) {
	s := NewMemStorage()

	in := testInput("Tagged", "https://example.com/tagged")
	in.Tags = []string{"SecretTag"}
	article, _ := s.CreateArticle(in)
	s.HideArticle(article.ID)

	for _, tc := range s.TrendingTags(10) {
		if tc.Tag == "SecretTag" {
			t.Error("hidden article's tag appeared in trending tags")
		}
	}
}

func TestListOrderingScenario(t *testing.T) {
	s := NewMemStorage()
	now := time.Now()

	mk := func(title, url string, published time.Time) models.Article {
		in := testInput(title, url)
		in.PublishedAt = published
		a, err := s.CreateArticle(in)
		if err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
		return a
	}

	a := mk("Article A", "https://example.com/a", now.Add(-72*time.Hour))
	b := mk("Article B", "https://example.com/b", now.Add(-time.Hour))
	c := mk("Article C", "https://example.com/c", now)

	if _, err := s.PromoteArticle(b.ID, 50); err != nil {
		t.Fatalf("promote failed: %v", err)
	}

	list := s.GetArticles(models.SearchParams{})
	want := []string{b.ID, c.ID, a.ID}
	if len(list) != len(want) {
		t.Fatalf("list = %d articles, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Title, id)
		}
	}
}

func TestPagination(t *testing.T) {
	s := NewMemStorage()
	now := time.Now()

	var ordered []string
	for i := 0; i < 5; i++ {
		in := testInput("Paged", "https://example.com/page/"+string(rune('a'+i)))
		in.Title = "Paged " + string(rune('A'+i))
		in.PublishedAt = now.Add(-time.Duration(i) * time.Hour)
		a, err := s.CreateArticle(in)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ordered = append(ordered, a.ID) // newest first by construction
	}

	tests := []struct {
		name          string
		limit, offset int
		want          []string
	}{
		{"first page", 2, 0, ordered[0:2]},
		{"second page", 2, 2, ordered[2:4]},
		{"partial last page", 2, 4, ordered[4:5]},
		{"offset beyond size", 2, 10, nil},
		{"default limit covers all", 0, 0, ordered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.GetArticles(models.SearchParams{Limit: tt.limit, Offset: tt.offset})
			if len(got) != len(tt.want) {
				t.Fatalf("got %d articles, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("page[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearchFallbackForShortQueries(t *testing.T) {
	s := NewMemStorage()

	in := testInput("Zebra Exhibit Opens", "https://example.com/zebra")
	in.Content = "zzz"
	if _, err := s.CreateArticle(in); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.CreateArticle(testInput("Other News", "https://example.com/other")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A single-character query is below the fuzzy index minimum and falls
	// back to exact substring matching on the search vector.
	results := s.SearchArticles("z", models.SearchParams{})
	if len(results) != 1 || results[0].Title != "Zebra Exhibit Opens" {
		t.Errorf("got %d results, want exactly the zebra article", len(results))
	}
}

func TestSearchAppliesFiltersAndRanking(t *testing.T) {
	s := NewMemStorage()
	now := time.Now()

	mk := func(title, url, category string, published time.Time) models.Article {
		in := testInput(title, url)
		in.Category = category
		in.PublishedAt = published
		a, err := s.CreateArticle(in)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		return a
	}

	older := mk("Equality March Planned", "https://example.com/march", "politics", now.Add(-2*time.Hour))
	newer := mk("Equality Bill Passes", "https://example.com/bill", "politics", now)
	mk("Equality in Sports", "https://example.com/sports", "culture", now.Add(-time.Hour))

	results := s.SearchArticles("equality", models.SearchParams{Category: "Politics"})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 politics matches", len(results))
	}
	if results[0].ID != newer.ID || results[1].ID != older.ID {
		t.Error("search results should follow the ranking policy, newest first")
	}
}

func TestSearchReflectsPromotionAndLikes(t *testing.T) {
	s := NewMemStorage()
	now := time.Now()

	mkIn := testInput("Equality March Planned", "https://example.com/march")
	mkIn.PublishedAt = now.Add(-2 * time.Hour)
	older, err := s.CreateArticle(mkIn)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mkIn = testInput("Equality Bill Passes", "https://example.com/bill")
	mkIn.PublishedAt = now
	newer, err := s.CreateArticle(mkIn)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := s.PromoteArticle(older.ID, 300); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if _, err := s.LikeArticle(newer.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	results := s.SearchArticles("equality", models.SearchParams{})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != older.ID {
		t.Errorf("promoted article should lead search results, got %q first", results[0].Title)
	}
	if !results[0].IsPromoted || results[0].RankScore != 300 {
		t.Errorf("search result promoted=%v rank=%d, want true/300",
			results[0].IsPromoted, results[0].RankScore)
	}
	if results[1].Likes != 1 {
		t.Errorf("search result Likes = %d, want 1", results[1].Likes)
	}
}

func TestBookmarksPermissiveDuplicates(t *testing.T) {
	s := NewMemStorage()

	article, _ := s.CreateArticle(testInput("Bookmarkable", "https://example.com/bookmark"))

	// Duplicate (article, session) pairs are allowed; the store does not
	// enforce uniqueness. This mirrors the permissive bookmark contract.
	for i := 0; i < 2; i++ {
		if _, err := s.CreateBookmark(article.ID, "session-1"); err != nil {
			t.Fatalf("bookmark #%d failed: %v", i+1, err)
		}
	}

	if got := s.GetBookmarksBySession("session-1"); len(got) != 2 {
		t.Errorf("got %d bookmarks, want 2 (duplicates permitted)", len(got))
	}
	if got := s.GetBookmarksBySession("session-2"); len(got) != 0 {
		t.Errorf("got %d bookmarks for other session, want 0", len(got))
	}

	// Delete removes one pair at a time.
	if err := s.DeleteBookmark(article.ID, "session-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := s.GetBookmarksBySession("session-1"); len(got) != 1 {
		t.Errorf("got %d bookmarks after one delete, want 1", len(got))
	}

	if err := s.DeleteBookmark("missing", "session-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestGetAllArticlesIncludesHidden(t *testing.T) {
	s := NewMemStorage()

	a, _ := s.CreateArticle(testInput("Public", "https://example.com/public"))
	h, _ := s.CreateArticle(testInput("Private", "https://example.com/private"))
	s.HideArticle(h.ID)

	if got := s.GetAllArticles(false); len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("GetAllArticles(false) = %d articles, want only the public one", len(got))
	}
	if got := s.GetAllArticles(true); len(got) != 2 {
		t.Errorf("GetAllArticles(true) = %d articles, want 2", len(got))
	}
}

func TestGetStats(t *testing.T) {
	s := NewMemStorage()

	a, _ := s.CreateArticle(testInput("Stat A", "https://example.com/stat-a"))
	b, _ := s.CreateArticle(testInput("Stat B", "https://example.com/stat-b"))
	s.PromoteArticle(a.ID, 100)
	s.HideArticle(b.ID)
	s.CreateBookmark(a.ID, "session-1")

	stats := s.GetStats()
	if stats.TotalArticles != 2 {
		t.Errorf("TotalArticles = %d, want 2", stats.TotalArticles)
	}
	if stats.PromotedArticles != 1 {
		t.Errorf("PromotedArticles = %d, want 1", stats.PromotedArticles)
	}
	if stats.HiddenArticles != 1 {
		t.Errorf("HiddenArticles = %d, want 1", stats.HiddenArticles)
	}
	if stats.TotalSources != 4 || stats.ActiveSources != 4 {
		t.Errorf("sources = %d/%d active, want 4/4 from defaults", stats.TotalSources, stats.ActiveSources)
	}
	if stats.TotalBookmarks != 1 {
		t.Errorf("TotalBookmarks = %d, want 1", stats.TotalBookmarks)
	}
}
