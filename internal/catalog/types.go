package catalog

import "strings"

// Display defaults for fields the catalog leaves out.
const (
	UnknownTitle    = "Unknown"
	UnknownAuthor   = "Unknown"
	GeneralCategory = "General"
)

// SearchResult is the display projection of one catalog item.
type SearchResult struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	CoverURL   string   `json:"cover_url"`
	// HasCover is false when CoverURL is the placeholder image
	HasCover bool `json:"has_cover"`
}

// PrimaryAuthor returns the first listed author or "Unknown".
func (r SearchResult) PrimaryAuthor() string {
	return firstOr(r.Authors, UnknownAuthor)
}

// Category returns the first listed category or "General".
func (r SearchResult) Category() string {
	return firstOr(r.Categories, GeneralCategory)
}

// volumesResponse matches the parts of the Google Books volumes response we consume.
// Every field is optional.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	VolumeInfo struct {
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		Categories []string `json:"categories"`
		ImageLinks *struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (c *Client) toSearchResult(v volume) SearchResult {
	info := v.VolumeInfo

	result := SearchResult{
		Title:      strings.TrimSpace(info.Title),
		Authors:    info.Authors,
		Categories: info.Categories,
		CoverURL:   c.placeholderCover,
	}
	if result.Title == "" {
		result.Title = UnknownTitle
	}
	if info.ImageLinks != nil && info.ImageLinks.Thumbnail != "" {
		result.CoverURL = info.ImageLinks.Thumbnail
		result.HasCover = true
	}

	return result
}

// firstOr returns the first non-blank value's trimmed form, or fallback.
func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	if v := strings.TrimSpace(values[0]); v != "" {
		return v
	}
	return fallback
}
