package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tdempsey/RainbowRead250813/models"
)

// MinMatchLength is the minimum query token length considered by the
// index. Shorter tokens would match on trivial substrings.
const MinMatchLength = 2

// DefaultThreshold is the maximum normalized edit distance a token match
// may have. Lower values mean stricter matching.
const DefaultThreshold = 0.3

// Field weights, heaviest first. A match in a heavier field always scores
// better than the same match in a lighter field.
type field struct {
	name   string
	weight float64
}

var fields = []field{
	{"title", 0.4},
	{"excerpt", 0.3},
	{"content", 0.2},
	{"tags", 0.1},
	{"author", 0.05},
	{"category", 0.05},
}

// Result pairs an article with its relevance score. Scores are
// distance-like: lower is better, 0 is a perfect match.
type Result struct {
	Article models.Article `json:"article"`
	Score   float64        `json:"score"`
}

type document struct {
	article models.Article
	// token lists parallel to the fields table
	tokens [][]string
}

// Index is a weighted multi-field fuzzy matcher over a fixed article
// snapshot. It is immutable once built; callers rebuild it whenever the
// underlying article set changes.
type Index struct {
	docs      []document
	threshold float64
}

type Option func(*Index)

// WithThreshold overrides the maximum normalized edit distance for token
// matches. Stricter (lower) thresholds yield fewer, more precise results.
func WithThreshold(t float64) Option {
	return func(ix *Index) {
		ix.threshold = t
	}
}

func New(articles []models.Article, opts ...Option) *Index {
	ix := &Index{
		docs:      make([]document, 0, len(articles)),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(ix)
	}

	for _, a := range articles {
		doc := document{
			article: a,
			tokens: [][]string{
				tokenize(a.Title),
				tokenize(a.Excerpt),
				tokenize(a.Content),
				tokenize(strings.Join(a.Tags, " ")),
				tokenize(a.Author),
				tokenize(a.Category),
			},
		}
		ix.docs = append(ix.docs, doc)
	}

	return ix
}

// HasUsableTokens reports whether the query contains at least one token the
// index can match on. Callers use this to decide between fuzzy search and
// exact substring matching.
func HasUsableTokens(query string) bool {
	return len(queryTokens(query)) > 0
}

// Search returns articles ordered by descending relevance. An empty or
// whitespace-only query returns the full set in index order, unranked.
func (ix *Index) Search(query string) []models.Article {
	results := ix.SearchWithScores(query)
	articles := make([]models.Article, len(results))
	for i, res := range results {
		articles[i] = res.Article
	}
	return articles
}

// SearchWithScores is Search with the raw relevance score per result, for
// callers that display or threshold confidence.
func (ix *Index) SearchWithScores(query string) []Result {
	if strings.TrimSpace(query) == "" {
		results := make([]Result, len(ix.docs))
		for i, doc := range ix.docs {
			results[i] = Result{Article: doc.article}
		}
		return results
	}

	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return nil
	}

	var results []Result
	for _, doc := range ix.docs {
		score, ok := ix.score(doc, tokens)
		if !ok {
			continue
		}
		results = append(results, Result{Article: doc.article, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	return results
}

// score computes the document's relevance for the query tokens. Every token
// must match in at least one field; the per-token score is the best weighted
// distance across all fields, and the document score is the token average.
func (ix *Index) score(doc document, tokens []string) (float64, bool) {
	var total float64
	for _, token := range tokens {
		best := math.Inf(1)
		for fi, f := range fields {
			for _, word := range doc.tokens[fi] {
				rank := fuzzy.RankMatchNormalizedFold(token, word)
				if rank < 0 {
					continue
				}
				dist := float64(rank) / float64(max(len(token), len(word)))
				if dist > ix.threshold {
					continue
				}
				s := 0.5*dist + 0.5*(1-f.weight)
				if s < best {
					best = s
				}
			}
		}
		if math.IsInf(best, 1) {
			return 0, false
		}
		total += best
	}
	return total / float64(len(tokens)), true
}

// TrendingTags counts tag frequency across the indexed articles, descending
// by count with ties broken by first-encountered order.
func (ix *Index) TrendingTags(limit int) []models.TagCount {
	if limit <= 0 {
		limit = 10
	}

	counts := make(map[string]int)
	var order []string
	for _, doc := range ix.docs {
		for _, tag := range doc.article.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	trending := make([]models.TagCount, 0, len(order))
	for _, tag := range order {
		trending = append(trending, models.TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})

	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending
}

// Suggestions returns distinct terms from titles, tags and categories whose
// lowercase form starts with the lowercase prefix. Title words must be
// longer than three characters to qualify.
func (ix *Index) Suggestions(prefix string, limit int) []string {
	if limit <= 0 {
		limit = 5
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	seen := make(map[string]bool)
	var suggestions []string
	add := func(term string) {
		key := strings.ToLower(term)
		if seen[key] {
			return
		}
		seen[key] = true
		suggestions = append(suggestions, term)
	}

	for _, doc := range ix.docs {
		for _, word := range doc.tokens[0] { // title tokens, already lowercase
			if len(word) > 3 && strings.HasPrefix(word, prefix) {
				add(word)
			}
		}
		for _, tag := range doc.article.Tags {
			if strings.HasPrefix(strings.ToLower(tag), prefix) {
				add(tag)
			}
		}
		if strings.HasPrefix(strings.ToLower(doc.article.Category), prefix) {
			add(doc.article.Category)
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := words[:0]
	for _, w := range words {
		if len(w) >= MinMatchLength {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func queryTokens(query string) []string {
	return tokenize(query)
}
