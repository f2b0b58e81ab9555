package storage

import (
	"sort"

	"github.com/tdempsey/RainbowRead250813/models"
)

// DefaultRankScore is used when an article is promoted without an explicit
// score. Conventions: >=500 urgent, 300-499 high priority, 100-299 featured,
// 1-99 standard placement.
const DefaultRankScore = 100

// articleLess is the single ordering policy applied to every listing path.
// Promoted articles sort before non-promoted; among promoted, higher rank
// score wins; then newer publish time; the final tie-break on ID keeps the
// order stable.
func articleLess(a, b *models.Article) bool {
	if a.IsPromoted != b.IsPromoted {
		return a.IsPromoted
	}
	if a.IsPromoted && a.RankScore != b.RankScore {
		return a.RankScore > b.RankScore
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.ID < b.ID
}

func sortArticles(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articleLess(&articles[i], &articles[j])
	})
}
