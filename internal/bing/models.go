package bing

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"harvester/internal/logging"
)

// ImageMetadata describes a single image returned by the search API.
//
// Values are constructed once during response parsing and never mutated.
// Raw retains the complete unmapped provider record so fields added by the
// provider later remain inspectable.
type ImageMetadata struct {
	ContentURL     string
	Name           string
	Width          int
	Height         int
	ContentSize    *int64
	EncodingFormat string
	HostPageURL    string
	ThumbnailURL   string
	ContentType    string
	AccentColor    string
	CreatedDate    *time.Time
	Raw            map[string]any
}

// MetadataFromRaw maps one raw provider record into ImageMetadata. It never
// fails: missing or malformed fields degrade to zero values or nil.
func MetadataFromRaw(raw map[string]any) ImageMetadata {
	if raw == nil {
		raw = map[string]any{}
	}
	meta := ImageMetadata{
		ContentURL:     stringField(raw, "contentUrl"),
		Name:           stringField(raw, "name"),
		Width:          intField(raw, "width"),
		Height:         intField(raw, "height"),
		EncodingFormat: stringField(raw, "encodingFormat"),
		HostPageURL:    stringField(raw, "hostPageUrl"),
		ThumbnailURL:   stringField(raw, "thumbnailUrl"),
		ContentType:    stringField(raw, "contentType"),
		AccentColor:    stringField(raw, "accentColor"),
		Raw:            raw,
	}
	meta.ContentSize = contentSizeValue(raw["contentSize"])
	meta.CreatedDate = publishedDateValue(raw["datePublished"])
	return meta
}

// MeetsSizeRequirements reports whether the image is at least the given size.
// The bounds are inclusive.
func (m ImageMetadata) MeetsSizeRequirements(minWidth, minHeight int) bool {
	return m.Width >= minWidth && m.Height >= minHeight
}

// SearchResult is one logical search outcome, possibly spanning several
// provider pages. Images preserve the API return order. NextOffset is set
// only while the provider signals that more pages may exist.
type SearchResult struct {
	Query                 string
	Images                []ImageMetadata
	NextOffset            *int
	TotalEstimatedMatches int
}

// ResultFromResponse maps a decoded provider response into a SearchResult.
// Entries in the value collection that are not objects are logged and
// skipped; they never abort the page.
func ResultFromResponse(query string, raw map[string]any, logger *slog.Logger) *SearchResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	result := &SearchResult{Query: query}

	items, _ := raw["value"].([]any)
	result.Images = make([]ImageMetadata, 0, len(items))
	for i, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			logger.Warn("skipping malformed image entry",
				logging.Args(logging.Int("index", i), logging.String(logging.FieldQuery, query))...)
			continue
		}
		result.Images = append(result.Images, MetadataFromRaw(item))
	}

	// Absence of the key, not a null value, signals the last page.
	if value, ok := raw["nextOffset"]; ok {
		if offset, ok := intValue(value); ok {
			result.NextOffset = &offset
		}
	}
	if total, ok := intValue(raw["totalEstimatedMatches"]); ok {
		result.TotalEstimatedMatches = total
	}
	return result
}

// FilterBySize returns a new result containing only images that satisfy the
// minimum dimensions. Query, NextOffset, and TotalEstimatedMatches carry over
// unchanged; the receiver is not modified.
func (r *SearchResult) FilterBySize(minWidth, minHeight int) *SearchResult {
	filtered := make([]ImageMetadata, 0, len(r.Images))
	for _, img := range r.Images {
		if img.MeetsSizeRequirements(minWidth, minHeight) {
			filtered = append(filtered, img)
		}
	}
	return &SearchResult{
		Query:                 r.Query,
		Images:                filtered,
		NextOffset:            r.NextOffset,
		TotalEstimatedMatches: r.TotalEstimatedMatches,
	}
}

func stringField(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return value
}

func intField(raw map[string]any, key string) int {
	value, _ := intValue(raw[key])
	return value
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// contentSizeValue parses the provider's contentSize field, which arrives
// either as a number or as a string like "102400 B".
func contentSizeValue(value any) *int64 {
	switch v := value.(type) {
	case string:
		idx := strings.Index(v, " B")
		if idx < 0 {
			return nil
		}
		size, err := strconv.ParseInt(strings.TrimSpace(v[:idx]), 10, 64)
		if err != nil {
			return nil
		}
		return &size
	case float64:
		size := int64(v)
		return &size
	case int:
		size := int64(v)
		return &size
	case int64:
		return &v
	default:
		return nil
	}
}

var publishedDateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// publishedDateValue parses the datePublished field with any trailing Z
// stripped. Unparsable values yield nil, never an error.
func publishedDateValue(value any) *time.Time {
	text, ok := value.(string)
	if !ok {
		return nil
	}
	text = strings.TrimRight(strings.TrimSpace(text), "Z")
	for _, layout := range publishedDateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return &parsed
		}
	}
	return nil
}
