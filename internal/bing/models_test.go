package bing_test

import (
	"testing"
	"time"

	"harvester/internal/bing"
)

func TestMetadataFromRawDefaults(t *testing.T) {
	meta := bing.MetadataFromRaw(map[string]any{})
	if meta.ContentURL != "" || meta.Name != "" {
		t.Fatalf("expected empty strings, got %q %q", meta.ContentURL, meta.Name)
	}
	if meta.Width != 0 || meta.Height != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", meta.Width, meta.Height)
	}
	if meta.ContentSize != nil {
		t.Fatalf("expected nil content size, got %d", *meta.ContentSize)
	}
	if meta.CreatedDate != nil {
		t.Fatalf("expected nil created date, got %v", meta.CreatedDate)
	}
	if meta.Raw == nil {
		t.Fatal("expected raw bag to be non-nil")
	}
}

func TestMetadataFromRawMapsFields(t *testing.T) {
	raw := map[string]any{
		"contentUrl":     "https://example.com/cat.jpg",
		"name":           "a cat",
		"width":          float64(800),
		"height":         float64(600),
		"contentSize":    "102400 B",
		"encodingFormat": "jpeg",
		"hostPageUrl":    "https://example.com/cats",
		"thumbnailUrl":   "https://example.com/cat_t.jpg",
		"contentType":    "image/jpeg",
		"accentColor":    "AB1234",
		"datePublished":  "2023-05-01T00:00:00Z",
		"imageId":        "undocumented",
	}
	meta := bing.MetadataFromRaw(raw)
	if meta.ContentURL != "https://example.com/cat.jpg" || meta.Name != "a cat" {
		t.Fatalf("unexpected identity fields: %#v", meta)
	}
	if meta.Width != 800 || meta.Height != 600 {
		t.Fatalf("unexpected dimensions: %dx%d", meta.Width, meta.Height)
	}
	if meta.ContentSize == nil || *meta.ContentSize != 102400 {
		t.Fatalf("unexpected content size: %v", meta.ContentSize)
	}
	if meta.EncodingFormat != "jpeg" || meta.ContentType != "image/jpeg" || meta.AccentColor != "AB1234" {
		t.Fatalf("unexpected optional fields: %#v", meta)
	}
	want := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	if meta.CreatedDate == nil || !meta.CreatedDate.Equal(want) {
		t.Fatalf("unexpected created date: %v", meta.CreatedDate)
	}
	if meta.Raw["imageId"] != "undocumented" {
		t.Fatal("expected unmapped field preserved in raw bag")
	}
}

func TestMetadataFromRawContentSize(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  *int64
	}{
		{name: "string with unit", value: "102400 B", want: int64Ptr(102400)},
		{name: "numeric", value: float64(204800), want: int64Ptr(204800)},
		{name: "garbage string", value: "bad", want: nil},
		{name: "non-numeric prefix", value: "12x B", want: nil},
		{name: "absent", value: nil, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := map[string]any{}
			if tc.value != nil {
				raw["contentSize"] = tc.value
			}
			meta := bing.MetadataFromRaw(raw)
			switch {
			case tc.want == nil && meta.ContentSize != nil:
				t.Fatalf("expected nil, got %d", *meta.ContentSize)
			case tc.want != nil && (meta.ContentSize == nil || *meta.ContentSize != *tc.want):
				t.Fatalf("expected %d, got %v", *tc.want, meta.ContentSize)
			}
		})
	}
}

func TestMetadataFromRawCreatedDateUnparsable(t *testing.T) {
	meta := bing.MetadataFromRaw(map[string]any{"datePublished": "not-a-date"})
	if meta.CreatedDate != nil {
		t.Fatalf("expected nil created date, got %v", meta.CreatedDate)
	}
}

func TestMeetsSizeRequirements(t *testing.T) {
	wide := bing.MetadataFromRaw(map[string]any{"width": float64(800), "height": float64(300)})
	if wide.MeetsSizeRequirements(400, 400) {
		t.Fatal("expected 800x300 to fail a 400x400 requirement")
	}
	exact := bing.MetadataFromRaw(map[string]any{"width": float64(400), "height": float64(400)})
	if !exact.MeetsSizeRequirements(400, 400) {
		t.Fatal("expected the boundary to be inclusive")
	}
}

func TestResultFromResponseSkipsMalformedEntries(t *testing.T) {
	raw := map[string]any{
		"value": []any{
			map[string]any{"contentUrl": "https://example.com/1.jpg"},
			"not an object",
			map[string]any{"contentUrl": "https://example.com/2.jpg"},
		},
		"nextOffset":            float64(50),
		"totalEstimatedMatches": float64(123),
	}
	result := bing.ResultFromResponse("cats", raw, nil)
	if result.Query != "cats" {
		t.Fatalf("unexpected query: %q", result.Query)
	}
	if len(result.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(result.Images))
	}
	if result.Images[1].ContentURL != "https://example.com/2.jpg" {
		t.Fatal("expected API order preserved")
	}
	if result.NextOffset == nil || *result.NextOffset != 50 {
		t.Fatalf("unexpected next offset: %v", result.NextOffset)
	}
	if result.TotalEstimatedMatches != 123 {
		t.Fatalf("unexpected total: %d", result.TotalEstimatedMatches)
	}
}

func TestResultFromResponseMissingFields(t *testing.T) {
	result := bing.ResultFromResponse("cats", map[string]any{}, nil)
	if len(result.Images) != 0 {
		t.Fatalf("expected no images, got %d", len(result.Images))
	}
	if result.NextOffset != nil {
		t.Fatal("expected absent nextOffset to map to nil")
	}
	if result.TotalEstimatedMatches != 0 {
		t.Fatalf("expected zero total, got %d", result.TotalEstimatedMatches)
	}
}

func TestFilterBySizePreservesResultFields(t *testing.T) {
	offset := 75
	original := &bing.SearchResult{
		Query: "cats",
		Images: []bing.ImageMetadata{
			bing.MetadataFromRaw(map[string]any{"width": float64(800), "height": float64(600)}),
			bing.MetadataFromRaw(map[string]any{"width": float64(200), "height": float64(900)}),
		},
		NextOffset:            &offset,
		TotalEstimatedMatches: 42,
	}
	filtered := original.FilterBySize(400, 400)
	if filtered.Query != "cats" || filtered.TotalEstimatedMatches != 42 {
		t.Fatalf("expected metadata preserved: %#v", filtered)
	}
	if filtered.NextOffset == nil || *filtered.NextOffset != 75 {
		t.Fatalf("expected next offset preserved: %v", filtered.NextOffset)
	}
	if len(filtered.Images) != 1 || filtered.Images[0].Width != 800 {
		t.Fatalf("unexpected filtered images: %#v", filtered.Images)
	}
	if len(original.Images) != 2 {
		t.Fatal("expected the original result to be unchanged")
	}
}

func int64Ptr(v int64) *int64 { return &v }
