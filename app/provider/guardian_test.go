package provider

import (
	"testing"
)

func TestParseGuardian(t *testing.T) {
	payload := `{
		"response": {
			"status": "ok",
			"results": [
				{
					"webTitle": "Politics Update",
					"webUrl": "https://guardian.example/politics-update",
					"webPublicationDate": "2024-03-02T08:30:00Z",
					"sectionName": "Politics",
					"pillarName": "News"
				},
				{
					"webTitle": "Opinion Piece",
					"webUrl": "https://guardian.example/opinion",
					"webPublicationDate": "2024-03-02T09:00:00Z",
					"sectionName": "Opinion"
				},
				{
					"webTitle": "Missing Section",
					"webUrl": "https://guardian.example/missing",
					"webPublicationDate": "2024-03-02T10:00:00Z"
				}
			]
		}
	}`

	articles, skipped, err := parseGuardian([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(articles) != 2 {
		t.Fatalf("Expected 2 accepted articles, got %d", len(articles))
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped record (missing sectionName), got %d", skipped)
	}

	first := articles[0]
	if first.Title != "Politics Update" {
		t.Errorf("Expected title 'Politics Update', got '%s'", first.Title)
	}
	// The Guardian payload has no separate description or body
	if first.Description != "Politics Update" || first.Content != "Politics Update" {
		t.Errorf("Expected description and content to mirror webTitle, got '%s' / '%s'", first.Description, first.Content)
	}
	if first.SourceName != "News" {
		t.Errorf("Expected source from pillarName 'News', got '%s'", first.SourceName)
	}
	if len(first.Categories) != 1 || first.Categories[0] != "Politics" {
		t.Errorf("Expected category from sectionName, got %v", first.Categories)
	}
	if len(first.Authors) != 1 || first.Authors[0] != AnonymousAuthor {
		t.Errorf("Expected anonymous author default, got %v", first.Authors)
	}
	if first.URLToImage != "" {
		t.Errorf("Expected empty urlToImage, got '%s'", first.URLToImage)
	}

	second := articles[1]
	if second.SourceName != defaultGuardianSource {
		t.Errorf("Expected default source when pillarName absent, got '%s'", second.SourceName)
	}
}

func TestParseGuardian_EmptyResponse(t *testing.T) {
	articles, skipped, err := parseGuardian([]byte(`{"response": {"results": []}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 0 || skipped != 0 {
		t.Errorf("Expected nothing from empty results, got %d accepted %d skipped", len(articles), skipped)
	}
}
