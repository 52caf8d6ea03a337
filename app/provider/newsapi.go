package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const newsAPIProvider = "newsapi"

// defaultNewsAPICategory is attached when a record carries no category.
const defaultNewsAPICategory = "general"

// NewsAPIAdapter reads the NewsAPI top-headlines JSON endpoint.
type NewsAPIAdapter struct {
	url       string
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewNewsAPIAdapter(url string, client *http.Client, userAgent string, timeout time.Duration) *NewsAPIAdapter {
	return &NewsAPIAdapter{url: url, client: client, userAgent: userAgent, timeout: timeout}
}

func (a *NewsAPIAdapter) Provider() string {
	return newsAPIProvider
}

func (a *NewsAPIAdapter) Fetch(ctx context.Context) ([]Article, int, error) {
	data, err := fetchURL(ctx, a.client, a.url, a.userAgent, a.timeout)
	if err != nil {
		return nil, 0, err
	}
	return parseNewsAPI(data)
}

type newsAPIResponse struct {
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	URLToImage  string  `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     string  `json:"content"`
	Source      struct {
		Name *string `json:"name"`
	} `json:"source"`
	Category string `json:"category"`
}

// parseNewsAPI normalizes the payload. A record is accepted only when title,
// author, description, url and source.name are all present (null or absent
// fields reject the record, empty strings do not).
func parseNewsAPI(data []byte) ([]Article, int, error) {
	var response newsAPIResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, 0, fmt.Errorf("failed to decode newsapi payload: %w", err)
	}

	articles := make([]Article, 0, len(response.Articles))
	skipped := 0

	for _, raw := range response.Articles {
		if raw.Title == nil || raw.Author == nil || raw.Description == nil || raw.URL == nil || raw.Source.Name == nil {
			skipped++
			continue
		}

		publishedAt, err := parseTimestamp(raw.PublishedAt)
		if err != nil || *raw.Title == "" || *raw.URL == "" {
			skipped++
			continue
		}

		category := raw.Category
		if category == "" {
			category = defaultNewsAPICategory
		}

		articles = append(articles, Article{
			Title:       *raw.Title,
			Description: *raw.Description,
			URL:         *raw.URL,
			URLToImage:  raw.URLToImage,
			Content:     raw.Content,
			PublishedAt: publishedAt,
			SourceName:  *raw.Source.Name,
			Categories:  []string{category},
			Authors:     splitAuthors(*raw.Author),
		})
	}

	return articles, skipped, nil
}

// parseTimestamp accepts the timestamp formats the JSON providers emit.
func parseTimestamp(value string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z0700",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", value)
}
