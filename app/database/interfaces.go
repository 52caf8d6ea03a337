package database

// EntityRepository resolves natural-key names to entity IDs with
// get-or-create semantics. Resolution is concurrent-safe: the UNIQUE
// constraint on name is the source of truth and a conflict is retried once
// by re-reading the now-existing row.
type EntityRepository interface {
	ResolveSource(name string) (int64, error)
	ResolveCategory(name string) (int64, error)
	ResolveAuthors(names []string) ([]int64, error)

	ListSources() ([]NamedEntity, error)
	ListCategories() ([]NamedEntity, error)
	ListAuthors() ([]NamedEntity, error)

	SourceIDsByName(name string) ([]int64, error)
	CategoryIDsByName(name string) ([]int64, error)
	AuthorIDsByName(name string) ([]int64, error)
}

// ArticleRepository persists articles and serves filtered reads.
type ArticleRepository interface {
	// CreateArticle inserts the article and its join rows atomically and
	// returns the new article ID.
	CreateArticle(article NewArticle, categoryIDs, authorIDs []int64) (int64, error)

	// List returns one page of articles matching the filters plus the total
	// match count across all pages.
	List(filters ArticleFilters) ([]Article, int, error)

	// GetByID returns the article with relations expanded, or nil when the
	// article does not exist.
	GetByID(id int64) (*Article, error)

	// ListByPreferences returns all articles matching the preference query,
	// in insertion order.
	ListByPreferences(query PreferenceQuery) ([]Article, error)

	GetArticleCount() (int, error)
}

// UserRepository reads API consumers and their stored preferences.
type UserRepository interface {
	// GetUserByAPIKey returns nil when no user holds the key.
	GetUserByAPIKey(apiKey string) (*User, error)
	GetPreferences(userID int64) (*Preferences, error)
}
