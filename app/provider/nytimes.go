package provider

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const nytProvider = "New York Times"

// defaultNYTSource is used when the feed item carries no source of its own.
const defaultNYTSource = "New York Times"

// NYTimesAdapter reads the New York Times RSS feed. Unlike the JSON
// providers an item may carry any number of category elements, each of which
// becomes its own category.
type NYTimesAdapter struct {
	url       string
	client    *http.Client
	userAgent string
	timeout   time.Duration
	parser    *gofeed.Parser
}

func NewNYTimesAdapter(url string, client *http.Client, userAgent string, timeout time.Duration) *NYTimesAdapter {
	return &NYTimesAdapter{
		url:       url,
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		parser:    gofeed.NewParser(),
	}
}

func (a *NYTimesAdapter) Provider() string {
	return nytProvider
}

func (a *NYTimesAdapter) Fetch(ctx context.Context) ([]Article, int, error) {
	data, err := fetchURL(ctx, a.client, a.url, a.userAgent, a.timeout)
	if err != nil {
		return nil, 0, err
	}
	return a.parseFeed(data)
}

// parseFeed normalizes the channel items. An item is accepted only when
// title, link and pubDate are all present; description is carried through
// and may be empty.
func (a *NYTimesAdapter) parseFeed(data []byte) ([]Article, int, error) {
	feed, err := a.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}

	articles := make([]Article, 0, len(feed.Items))
	skipped := 0

	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" || item.PublishedParsed == nil {
			skipped++
			continue
		}

		authors := []string{AnonymousAuthor}
		if item.Author != nil && item.Author.Name != "" {
			authors = splitAuthors(item.Author.Name)
		}

		var categories []string
		if len(item.Categories) > 0 {
			categories = append(categories, item.Categories...)
		}

		articles = append(articles, Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			URLToImage:  "",
			Content:     item.Description,
			PublishedAt: *item.PublishedParsed,
			SourceName:  defaultNYTSource,
			Categories:  categories,
			Authors:     authors,
		})
	}

	return articles, skipped, nil
}
