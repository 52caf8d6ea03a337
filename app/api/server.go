package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antonvlasov/newshub/app/cfg"
)

// NewServer creates the HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Public read endpoints
	r.GET("/articles", handler.ListArticles)
	r.GET("/articles/:id", handler.GetArticle)
	r.GET("/authors", handler.ListAuthors)
	r.GET("/categories", handler.ListCategories)
	r.GET("/sources", handler.ListSources)

	// Authenticated user endpoints
	r.GET("/user-preferences", handler.UserAuth(), handler.GetPreferencesFeed)

	// Health endpoint
	r.GET("/health", handler.GetHealth)

	// Operator endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(operatorAuthMiddleware(apiAccessKey))
		{
			api.POST("/ingest", handler.RunIngestion)
		}
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"articles":    "/articles",
			"article":     "/articles/<id>",
			"authors":     "/authors",
			"categories":  "/categories",
			"sources":     "/sources",
			"preferences": "/user-preferences (requires X-API-Key header)",
			"health":      "/health",
		}

		if apiAccessKey != "" {
			endpoints["ingest"] = "/api/ingest (POST, requires operator X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "NewsHub",
			"version":     cfg.GetVersion(),
			"description": "News aggregation service with multi-provider ingestion and filtered search",
			"endpoints":   endpoints,
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// operatorAuthMiddleware guards operator endpoints with the configured access key
func operatorAuthMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
