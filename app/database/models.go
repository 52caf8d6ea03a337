package database

import (
	"time"
)

// Article represents an article row with its relations expanded.
type Article struct {
	ID           int64
	Title        string
	Description  string
	URL          string
	URLToImage   string
	Content      string
	PublishedAt  time.Time
	Provider     string
	NewsSourceID int64
	SourceName   string
	Categories   []string
	Authors      []string
	CreatedAt    time.Time
}

// NewArticle is the insert shape for a single normalized article.
// Relations are attached by ID in the same transaction as the insert.
type NewArticle struct {
	Title        string
	Description  string
	URL          string
	URLToImage   string
	Content      string
	PublishedAt  time.Time
	Provider     string
	NewsSourceID int64
}

// NamedEntity is a news source, category or author lookup row.
type NamedEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User represents an API consumer with stored preferences.
type User struct {
	ID        int64
	Name      string
	APIKey    string
	CreatedAt time.Time
}

// Preferences holds a user's stored preference sets by entity ID.
type Preferences struct {
	CategoryIDs []int64
	AuthorIDs   []int64
	SourceIDs   []int64
}

// ArticleFilters holds the recognized list filters. Zero values mean the
// filter is absent. Search, Provider and Source are substring matches,
// Categories is exact set membership, From/To bound published_at inclusively.
type ArticleFilters struct {
	Search     string
	Provider   string
	Source     string
	Categories []string
	From       *time.Time
	To         *time.Time
	Page       int
}

// PreferenceQuery describes a preferences-feed lookup. When any override set
// is non-nil the stored preference sets are ignored and the present overrides
// are combined with AND; otherwise the preference sets are combined with OR.
type PreferenceQuery struct {
	Preferred Preferences

	OverrideCategoryIDs []int64
	OverrideAuthorIDs   []int64
	OverrideSourceIDs   []int64
}

// PageSize is the fixed number of articles per page.
const PageSize = 100
