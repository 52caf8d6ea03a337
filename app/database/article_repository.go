package database

import (
	"database/sql"
	"fmt"
	"strings"
)

var _ ArticleRepository = (*articleRepository)(nil)

type articleRepository struct {
	db *DB
}

// NewArticleRepository creates a repository for article persistence and queries.
func NewArticleRepository(db *DB) ArticleRepository {
	return &articleRepository{db: db}
}

// CreateArticle inserts the article row and its category/author join rows in
// one transaction, so a partially-attached article is never visible.
func (r *articleRepository) CreateArticle(article NewArticle, categoryIDs, authorIDs []int64) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO articles (title, description, url, url_to_image, content, published_at, provider, news_source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, article.Title, article.Description, article.URL, article.URLToImage,
		article.Content, article.PublishedAt.UTC(), article.Provider, article.NewsSourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert article: %w", err)
	}

	articleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get article id: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO article_categories (article_id, category_id) VALUES (?, ?)
		`, articleID, categoryID)
		if err != nil {
			return 0, fmt.Errorf("failed to attach category: %w", err)
		}
	}

	for _, authorID := range authorIDs {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO article_authors (article_id, author_id) VALUES (?, ?)
		`, articleID, authorID)
		if err != nil {
			return 0, fmt.Errorf("failed to attach author: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit article: %w", err)
	}

	return articleID, nil
}

func (r *articleRepository) List(filters ArticleFilters) ([]Article, int, error) {
	where, args := buildFilterClauses(filters)

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles"+whereSQL, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	queryArgs := append(append([]interface{}{}, args...), PageSize, offset)
	rows, err := r.db.Query(`
		SELECT a.id, a.title, a.description, a.url, a.url_to_image, a.content,
		       a.published_at, a.provider, a.news_source_id, s.name, a.created_at
		FROM articles a
		JOIN news_sources s ON s.id = a.news_source_id`+
		strings.ReplaceAll(whereSQL, "articles.", "a.")+`
		ORDER BY a.id
		LIMIT ? OFFSET ?
	`, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.loadRelations(articles); err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (r *articleRepository) GetByID(id int64) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT a.id, a.title, a.description, a.url, a.url_to_image, a.content,
		       a.published_at, a.provider, a.news_source_id, s.name, a.created_at
		FROM articles a
		JOIN news_sources s ON s.id = a.news_source_id
		WHERE a.id = ?
	`, id)

	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.URLToImage, &a.Content,
		&a.PublishedAt, &a.Provider, &a.NewsSourceID, &a.SourceName, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	articles := []Article{a}
	if err := r.loadRelations(articles); err != nil {
		return nil, err
	}

	return &articles[0], nil
}

func (r *articleRepository) ListByPreferences(query PreferenceQuery) ([]Article, error) {
	var where []string
	var args []interface{}

	hasOverride := query.OverrideCategoryIDs != nil || query.OverrideAuthorIDs != nil || query.OverrideSourceIDs != nil

	if hasOverride {
		// Each supplied override constrains its own dimension; overrides
		// combine with AND and stored preferences are ignored entirely.
		if query.OverrideSourceIDs != nil {
			clause, clauseArgs := sourceMembership(query.OverrideSourceIDs)
			where = append(where, clause)
			args = append(args, clauseArgs...)
		}
		if query.OverrideCategoryIDs != nil {
			clause, clauseArgs := joinMembership("article_categories", "category_id", query.OverrideCategoryIDs)
			where = append(where, clause)
			args = append(args, clauseArgs...)
		}
		if query.OverrideAuthorIDs != nil {
			clause, clauseArgs := joinMembership("article_authors", "author_id", query.OverrideAuthorIDs)
			where = append(where, clause)
			args = append(args, clauseArgs...)
		}
	} else {
		// No override: an article matches when it hits ANY of the three
		// stored preference sets.
		var or []string
		if len(query.Preferred.CategoryIDs) > 0 {
			clause, clauseArgs := joinMembership("article_categories", "category_id", query.Preferred.CategoryIDs)
			or = append(or, clause)
			args = append(args, clauseArgs...)
		}
		if len(query.Preferred.AuthorIDs) > 0 {
			clause, clauseArgs := joinMembership("article_authors", "author_id", query.Preferred.AuthorIDs)
			or = append(or, clause)
			args = append(args, clauseArgs...)
		}
		if len(query.Preferred.SourceIDs) > 0 {
			clause, clauseArgs := sourceMembership(query.Preferred.SourceIDs)
			or = append(or, clause)
			args = append(args, clauseArgs...)
		}
		if len(or) == 0 {
			return nil, nil
		}
		where = append(where, "("+strings.Join(or, " OR ")+")")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := r.db.Query(`
		SELECT a.id, a.title, a.description, a.url, a.url_to_image, a.content,
		       a.published_at, a.provider, a.news_source_id, s.name, a.created_at
		FROM articles a
		JOIN news_sources s ON s.id = a.news_source_id`+whereSQL+`
		ORDER BY a.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles by preferences: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadRelations(articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *articleRepository) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// buildFilterClauses maps the recognized filters onto WHERE clauses. Column
// references use the bare "a." alias replaced at the call site for the count
// query; clauses reference the articles table through correlated subqueries
// so the same SQL works for both.
func buildFilterClauses(filters ArticleFilters) ([]string, []interface{}) {
	var where []string
	var args []interface{}

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		where = append(where, `(title LIKE ? OR description LIKE ? OR content LIKE ?
			OR EXISTS (SELECT 1 FROM article_authors aa JOIN authors au ON au.id = aa.author_id
			           WHERE aa.article_id = articles.id AND au.name LIKE ?))`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if filters.Provider != "" {
		where = append(where, "provider LIKE ?")
		args = append(args, "%"+filters.Provider+"%")
	}

	if filters.Source != "" {
		where = append(where, `EXISTS (SELECT 1 FROM news_sources ns
			WHERE ns.id = articles.news_source_id AND ns.name LIKE ?)`)
		args = append(args, "%"+filters.Source+"%")
	}

	if len(filters.Categories) > 0 {
		where = append(where, `EXISTS (SELECT 1 FROM article_categories ac JOIN categories c ON c.id = ac.category_id
			WHERE ac.article_id = articles.id AND c.name IN (`+placeholders(len(filters.Categories))+`))`)
		for _, name := range filters.Categories {
			args = append(args, name)
		}
	}

	switch {
	case filters.From != nil && filters.To != nil:
		where = append(where, "published_at BETWEEN ? AND ?")
		args = append(args, filters.From.UTC(), filters.To.UTC())
	case filters.From != nil:
		where = append(where, "published_at >= ?")
		args = append(args, filters.From.UTC())
	case filters.To != nil:
		where = append(where, "published_at <= ?")
		args = append(args, filters.To.UTC())
	}

	return where, args
}

func joinMembership(joinTable, idColumn string, ids []int64) (string, []interface{}) {
	clause := `EXISTS (SELECT 1 FROM ` + joinTable + ` j
		WHERE j.article_id = a.id AND j.` + idColumn + ` IN (` + placeholders(len(ids)) + `))`
	return clause, int64Args(ids)
}

func sourceMembership(ids []int64) (string, []interface{}) {
	return "a.news_source_id IN (" + placeholders(len(ids)) + ")", int64Args(ids)
}

func placeholders(n int) string {
	if n <= 0 {
		// IN () is invalid SQL; an impossible value keeps the clause well-formed.
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.URLToImage, &a.Content,
			&a.PublishedAt, &a.Provider, &a.NewsSourceID, &a.SourceName, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return articles, nil
}

// loadRelations fills Categories and Authors for the given articles with one
// query per relation instead of one per article.
func (r *articleRepository) loadRelations(articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	index := make(map[int64]*Article, len(articles))
	ids := make([]int64, 0, len(articles))
	for i := range articles {
		articles[i].Categories = []string{}
		articles[i].Authors = []string{}
		index[articles[i].ID] = &articles[i]
		ids = append(ids, articles[i].ID)
	}

	rows, err := r.db.Query(`
		SELECT ac.article_id, c.name
		FROM article_categories ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.article_id IN (`+placeholders(len(ids))+`)
		ORDER BY c.id
	`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load article categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var articleID int64
		var name string
		if err := rows.Scan(&articleID, &name); err != nil {
			return fmt.Errorf("failed to scan category relation: %w", err)
		}
		if a, ok := index[articleID]; ok {
			a.Categories = append(a.Categories, name)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating category relations: %w", err)
	}

	authorRows, err := r.db.Query(`
		SELECT aa.article_id, au.name
		FROM article_authors aa
		JOIN authors au ON au.id = aa.author_id
		WHERE aa.article_id IN (`+placeholders(len(ids))+`)
		ORDER BY au.id
	`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load article authors: %w", err)
	}
	defer authorRows.Close()
	for authorRows.Next() {
		var articleID int64
		var name string
		if err := authorRows.Scan(&articleID, &name); err != nil {
			return fmt.Errorf("failed to scan author relation: %w", err)
		}
		if a, ok := index[articleID]; ok {
			a.Authors = append(a.Authors, name)
		}
	}
	if err := authorRows.Err(); err != nil {
		return fmt.Errorf("error iterating author relations: %w", err)
	}

	return nil
}
