package provider

import (
	"context"
	"strings"
	"time"
)

// Article is the canonical provider-agnostic record produced by an adapter.
// Title, URL and PublishedAt are always non-empty; records that cannot
// satisfy that are skipped during normalization.
type Article struct {
	Title       string
	Description string
	URL         string
	URLToImage  string
	Content     string
	PublishedAt time.Time
	SourceName  string
	Categories  []string
	Authors     []string
}

// Adapter fetches one external provider and maps its payload into canonical
// articles. Fetch returns the accepted articles and the number of records
// skipped for missing required fields; a transport failure or non-success
// response returns an error and no articles.
type Adapter interface {
	Provider() string
	Fetch(ctx context.Context) ([]Article, int, error)
}

// AnonymousAuthor is attached when a provider record carries no author field.
const AnonymousAuthor = "Anonymous"

// splitAuthors splits a comma-separated author string into trimmed names,
// dropping empties. An article whose author field was present but blank ends
// up with no authors at all.
func splitAuthors(authors string) []string {
	parts := strings.Split(authors, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
