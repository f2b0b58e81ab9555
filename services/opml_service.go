package services

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log"

	"github.com/gilliek/go-opml/opml"

	"github.com/tdempsey/RainbowRead250813/storage"
)

// OpmlService imports RSS sources from OPML subscription lists.
type OpmlService struct {
	store *storage.MemStorage
}

func NewOpmlService(store *storage.MemStorage) *OpmlService {
	return &OpmlService{store: store}
}

// ImportResult holds the results of an OPML import operation
type ImportResult struct {
	TotalSources    int      `json:"total_sources"`
	ImportedSources int      `json:"imported_sources"`
	SkippedSources  int      `json:"skipped_sources"`
	Errors          []string `json:"errors,omitempty"`
}

// ImportOPML imports RSS sources from OPML data. Container outlines become
// the category default for the feeds nested under them.
func (os *OpmlService) ImportOPML(opmlData []byte) (*ImportResult, error) {
	var doc opml.OPML
	if err := xml.Unmarshal(opmlData, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %v", err)
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	for _, outline := range doc.Body.Outlines {
		os.processOutline(&outline, "news", result)
	}

	log.Printf("OPML import completed: %d total, %d imported, %d skipped",
		result.TotalSources, result.ImportedSources, result.SkippedSources)

	return result, nil
}

// processOutline recursively processes OPML outline elements
func (os *OpmlService) processOutline(outline *opml.Outline, category string, result *ImportResult) {
	if outline.XMLURL != "" {
		result.TotalSources++

		name := outline.Title
		if name == "" {
			name = outline.Text
		}
		if name == "" {
			name = outline.XMLURL
		}

		_, err := os.store.CreateRssSource(storage.RssSourceInput{
			Name:     name,
			URL:      outline.XMLURL,
			Category: category,
		})
		switch {
		case err == nil:
			result.ImportedSources++
		case errors.Is(err, storage.ErrDuplicateURL):
			result.SkippedSources++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
		}
		return
	}

	// Container outline: its text names the category for nested feeds.
	childCategory := category
	if outline.Text != "" {
		childCategory = outline.Text
	}
	for i := range outline.Outlines {
		os.processOutline(&outline.Outlines[i], childCategory, result)
	}
}
