package api

import (
	"time"

	"github.com/antonvlasov/newshub/app/cache"
	"github.com/antonvlasov/newshub/app/database"
	"github.com/antonvlasov/newshub/app/ingest"
)

// Per-endpoint cache TTLs. Short windows stand in for write invalidation:
// ingestion never evicts entries.
const (
	listCacheTTL        = 6 * time.Second
	articleCacheTTL     = 60 * time.Second
	preferencesCacheTTL = 1 * time.Second
	referenceCacheTTL   = 60 * time.Second
)

type Handler struct {
	articleRepo  database.ArticleRepository
	entityRepo   database.EntityRepository
	userRepo     database.UserRepository
	orchestrator *ingest.Orchestrator
	cache        *cache.Cache
}

// ArticleView is the response projection of an article with its relations
// flattened to name strings.
type ArticleView struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"publishedAt"`
	URLToImage  string   `json:"urlToImage"`
	Provider    string   `json:"provider"`
	NewsSource  string   `json:"news_source"`
	Categories  []string `json:"categories"`
	Authors     []string `json:"authors"`
}

type paginatedResponse struct {
	Data        []ArticleView `json:"data"`
	CurrentPage int           `json:"current_page"`
	PerPage     int           `json:"per_page"`
	Total       int           `json:"total"`
	LastPage    int           `json:"last_page"`
}

func newArticleView(a database.Article) ArticleView {
	return ArticleView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		URLToImage:  a.URLToImage,
		Provider:    a.Provider,
		NewsSource:  a.SourceName,
		Categories:  a.Categories,
		Authors:     a.Authors,
	}
}

func newArticleViews(articles []database.Article) []ArticleView {
	views := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, newArticleView(a))
	}
	return views
}

// notFoundError signals an empty result set through the cache compute path,
// so the boundary can answer 404 instead of an empty success list.
type notFoundError struct {
	message string
}

func (e notFoundError) Error() string {
	return e.message
}
