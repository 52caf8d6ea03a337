package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antonvlasov/newshub/app/cache"
	"github.com/antonvlasov/newshub/app/database"
	"github.com/antonvlasov/newshub/app/ingest"
)

func NewHandler(articleRepo database.ArticleRepository, entityRepo database.EntityRepository,
	userRepo database.UserRepository, orchestrator *ingest.Orchestrator, responseCache *cache.Cache) *Handler {
	return &Handler{
		articleRepo:  articleRepo,
		entityRepo:   entityRepo,
		userRepo:     userRepo,
		orchestrator: orchestrator,
		cache:        responseCache,
	}
}

// ListArticles serves GET /articles: filtered, paginated, cached for 6s.
// Unrecognized query parameters are ignored but still take part in the cache
// key, which is derived from the full request query.
func (h *Handler) ListArticles(c *gin.Context) {
	filters := parseFilters(c)
	cacheKey := cache.Key("articles", c.Request.URL.Query())

	payload, err := h.cache.GetOrCompute(c.Request.Context(), cacheKey, listCacheTTL, func() ([]byte, error) {
		articles, total, err := h.articleRepo.List(filters)
		if err != nil {
			return nil, err
		}
		if len(articles) == 0 {
			return nil, notFoundError{"No articles found"}
		}

		page := filters.Page
		if page < 1 {
			page = 1
		}
		lastPage := (total + database.PageSize - 1) / database.PageSize

		return json.Marshal(paginatedResponse{
			Data:        newArticleViews(articles),
			CurrentPage: page,
			PerPage:     database.PageSize,
			Total:       total,
			LastPage:    lastPage,
		})
	})

	h.respond(c, payload, err)
}

// GetArticle serves GET /articles/:id, cached for 60s.
func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Article not found"})
		return
	}

	cacheKey := fmt.Sprintf("article_%d", id)

	payload, err := h.cache.GetOrCompute(c.Request.Context(), cacheKey, articleCacheTTL, func() ([]byte, error) {
		article, err := h.articleRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, notFoundError{"Article not found"}
		}
		return json.Marshal(newArticleView(*article))
	})

	h.respond(c, payload, err)
}

// GetPreferencesFeed serves GET /user-preferences for the authenticated
// user. An explicit source/category/author parameter overrides the stored
// preference for that dimension; with no override the three stored sets are
// matched with OR. Cached for 1s under the user's key.
func (h *Handler) GetPreferencesFeed(c *gin.Context) {
	user := c.MustGet("user").(*database.User)
	cacheKey := fmt.Sprintf("user_%d_preferences", user.ID)

	payload, err := h.cache.GetOrCompute(c.Request.Context(), cacheKey, preferencesCacheTTL, func() ([]byte, error) {
		query := database.PreferenceQuery{}
		params := c.Request.URL.Query()
		hasOverride := false

		if params.Has("source") {
			ids, err := h.entityRepo.SourceIDsByName(params.Get("source"))
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, notFoundError{"No articles found for the specified source"}
			}
			query.OverrideSourceIDs = ids
			hasOverride = true
		}

		if params.Has("category") {
			ids, err := h.entityRepo.CategoryIDsByName(params.Get("category"))
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, notFoundError{"No articles found for the specified category"}
			}
			query.OverrideCategoryIDs = ids
			hasOverride = true
		}

		if params.Has("author") {
			ids, err := h.entityRepo.AuthorIDsByName(params.Get("author"))
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, notFoundError{"No articles found for the specified author"}
			}
			query.OverrideAuthorIDs = ids
			hasOverride = true
		}

		if !hasOverride {
			preferences, err := h.userRepo.GetPreferences(user.ID)
			if err != nil {
				return nil, err
			}
			query.Preferred = *preferences
		}

		articles, err := h.articleRepo.ListByPreferences(query)
		if err != nil {
			return nil, err
		}
		return json.Marshal(newArticleViews(articles))
	})

	h.respond(c, payload, err)
}

// ListAuthors serves GET /authors, cached for 60s.
func (h *Handler) ListAuthors(c *gin.Context) {
	h.listReference(c, "authors", h.entityRepo.ListAuthors)
}

// ListCategories serves GET /categories, cached for 60s.
func (h *Handler) ListCategories(c *gin.Context) {
	h.listReference(c, "categories", h.entityRepo.ListCategories)
}

// ListSources serves GET /sources, cached for 60s.
func (h *Handler) ListSources(c *gin.Context) {
	h.listReference(c, "sources", h.entityRepo.ListSources)
}

func (h *Handler) listReference(c *gin.Context, key string, list func() ([]database.NamedEntity, error)) {
	payload, err := h.cache.GetOrCompute(c.Request.Context(), key, referenceCacheTTL, func() ([]byte, error) {
		entities, err := list()
		if err != nil {
			return nil, err
		}
		if entities == nil {
			entities = []database.NamedEntity{}
		}
		return json.Marshal(gin.H{"data": entities})
	})

	h.respond(c, payload, err)
}

// RunIngestion serves POST /api/ingest: a synchronous, operator-triggered
// ingestion pass that returns the run report.
func (h *Handler) RunIngestion(c *gin.Context) {
	report, err := h.orchestrator.Run(c.Request.Context())
	if err != nil {
		slog.Error("Ingestion run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}
	if sources, err := h.entityRepo.ListSources(); err == nil {
		health["sources"] = len(sources)
	}

	c.JSON(http.StatusOK, health)
}

// UserAuth resolves the X-API-Key header to a stored user and aborts with
// 401 when the key is missing or unknown.
func (h *Handler) UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			c.Abort()
			return
		}

		user, err := h.userRepo.GetUserByAPIKey(apiKey)
		if err != nil {
			slog.Error("Database error", "operation", "get_user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// respond writes a cached JSON payload, translating the not-found sentinel
// to a 404 body and anything else to an opaque 500.
func (h *Handler) respond(c *gin.Context, payload []byte, err error) {
	if err != nil {
		var notFound notFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": notFound.message})
			return
		}
		slog.Error("Database error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// parseFilters maps recognized query parameters onto article filters.
// Unknown keys are ignored.
func parseFilters(c *gin.Context) database.ArticleFilters {
	filters := database.ArticleFilters{
		Search:   c.Query("search"),
		Provider: c.Query("provider"),
		Source:   c.Query("source"),
		Page:     1,
	}

	if categories, ok := c.GetQueryArray("categories"); ok {
		for _, category := range categories {
			if category != "" {
				filters.Categories = append(filters.Categories, category)
			}
		}
	}

	if from, ok := parseTimeParam(c.Query("from")); ok {
		filters.From = &from
	}
	if to, ok := parseTimeParam(c.Query("to")); ok {
		filters.To = &to
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filters.Page = page
	}

	return filters
}

// parseTimeParam accepts RFC3339 timestamps and date-only values; a
// date-only value means midnight UTC.
func parseTimeParam(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
