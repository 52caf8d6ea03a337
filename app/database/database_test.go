package database

import (
	"path/filepath"
	"testing"
	"time"
)

// newTestDB opens a migrated database in a per-test temp directory. A file
// path is used instead of :memory: because the sql.DB pool would otherwise
// hand each connection its own empty database.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// seedArticle resolves the named entities and persists one article, returning
// its ID.
func seedArticle(t *testing.T, entities EntityRepository, articles ArticleRepository,
	title, source, provider string, published time.Time, categories, authors []string) int64 {
	t.Helper()

	sourceID, err := entities.ResolveSource(source)
	if err != nil {
		t.Fatalf("Failed to resolve source: %v", err)
	}

	var categoryIDs []int64
	for _, name := range categories {
		id, err := entities.ResolveCategory(name)
		if err != nil {
			t.Fatalf("Failed to resolve category: %v", err)
		}
		categoryIDs = append(categoryIDs, id)
	}

	authorIDs, err := entities.ResolveAuthors(authors)
	if err != nil {
		t.Fatalf("Failed to resolve authors: %v", err)
	}

	id, err := articles.CreateArticle(NewArticle{
		Title:        title,
		Description:  title + " description",
		URL:          "https://example.com/" + title,
		Content:      title + " content",
		PublishedAt:  published,
		Provider:     provider,
		NewsSourceID: sourceID,
	}, categoryIDs, authorIDs)
	if err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	return id
}
