package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const guardianProvider = "The Guardian"

// defaultGuardianSource is used when a result carries no pillarName.
const defaultGuardianSource = "The Guardian"

// GuardianAdapter reads the Guardian content search JSON endpoint. The
// Guardian exposes no separate description or body in this payload, so
// title, description and content all carry webTitle.
type GuardianAdapter struct {
	url       string
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewGuardianAdapter(url string, client *http.Client, userAgent string, timeout time.Duration) *GuardianAdapter {
	return &GuardianAdapter{url: url, client: client, userAgent: userAgent, timeout: timeout}
}

func (a *GuardianAdapter) Provider() string {
	return guardianProvider
}

func (a *GuardianAdapter) Fetch(ctx context.Context) ([]Article, int, error) {
	data, err := fetchURL(ctx, a.client, a.url, a.userAgent, a.timeout)
	if err != nil {
		return nil, 0, err
	}
	return parseGuardian(data)
}

type guardianResponse struct {
	Response struct {
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	WebTitle           *string `json:"webTitle"`
	WebURL             *string `json:"webUrl"`
	WebPublicationDate *string `json:"webPublicationDate"`
	SectionName        *string `json:"sectionName"`
	PillarName         string  `json:"pillarName"`
	Author             *string `json:"author"`
}

// parseGuardian normalizes the payload. A result is accepted only when
// webTitle, webUrl, webPublicationDate and sectionName are all present.
func parseGuardian(data []byte) ([]Article, int, error) {
	var response guardianResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, 0, fmt.Errorf("failed to decode guardian payload: %w", err)
	}

	articles := make([]Article, 0, len(response.Response.Results))
	skipped := 0

	for _, raw := range response.Response.Results {
		if raw.WebTitle == nil || raw.WebURL == nil || raw.WebPublicationDate == nil || raw.SectionName == nil {
			skipped++
			continue
		}

		publishedAt, err := parseTimestamp(*raw.WebPublicationDate)
		if err != nil || *raw.WebTitle == "" || *raw.WebURL == "" {
			skipped++
			continue
		}

		sourceName := raw.PillarName
		if sourceName == "" {
			sourceName = defaultGuardianSource
		}

		authors := []string{AnonymousAuthor}
		if raw.Author != nil {
			authors = splitAuthors(*raw.Author)
		}

		articles = append(articles, Article{
			Title:       *raw.WebTitle,
			Description: *raw.WebTitle,
			URL:         *raw.WebURL,
			URLToImage:  "",
			Content:     *raw.WebTitle,
			PublishedAt: publishedAt,
			SourceName:  sourceName,
			Categories:  []string{*raw.SectionName},
			Authors:     authors,
		})
	}

	return articles, skipped, nil
}
