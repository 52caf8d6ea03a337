package database

import (
	"database/sql"
	"fmt"
	"strings"
)

var _ EntityRepository = (*entityRepository)(nil)

type entityRepository struct {
	db *DB
}

// NewEntityRepository creates a repository for news sources, categories and authors.
func NewEntityRepository(db *DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) ResolveSource(name string) (int64, error) {
	return r.getOrCreate("news_sources", name)
}

func (r *entityRepository) ResolveCategory(name string) (int64, error) {
	return r.getOrCreate("categories", name)
}

func (r *entityRepository) ResolveAuthors(names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		id, err := r.getOrCreate("authors", name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// getOrCreate resolves a name to its row ID, inserting the row when absent.
// Names are matched exactly, case-sensitive. Two concurrent resolutions of
// the same new name are serialized by the UNIQUE(name) constraint: the loser
// of the insert race re-reads the row the winner created.
func (r *entityRepository) getOrCreate(table, name string) (int64, error) {
	id, err := r.idByName(table, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up %s %q: %w", table, name, err)
	}

	result, err := r.db.Exec("INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			id, rereadErr := r.idByName(table, name)
			if rereadErr != nil {
				return 0, fmt.Errorf("failed to re-read %s %q after conflict: %w", table, name, rereadErr)
			}
			return id, nil
		}
		return 0, fmt.Errorf("failed to insert %s %q: %w", table, name, err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id for %s %q: %w", table, name, err)
	}
	return newID, nil
}

func (r *entityRepository) idByName(table, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id)
	return id, err
}

func (r *entityRepository) ListSources() ([]NamedEntity, error) {
	return r.listNamed("news_sources")
}

func (r *entityRepository) ListCategories() ([]NamedEntity, error) {
	return r.listNamed("categories")
}

func (r *entityRepository) ListAuthors() ([]NamedEntity, error) {
	return r.listNamed("authors")
}

func (r *entityRepository) listNamed(table string) ([]NamedEntity, error) {
	rows, err := r.db.Query("SELECT id, name FROM " + table + " ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var entities []NamedEntity
	for rows.Next() {
		var e NamedEntity
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return entities, nil
}

func (r *entityRepository) SourceIDsByName(name string) ([]int64, error) {
	return r.idsByName("news_sources", name)
}

func (r *entityRepository) CategoryIDsByName(name string) ([]int64, error) {
	return r.idsByName("categories", name)
}

func (r *entityRepository) AuthorIDsByName(name string) ([]int64, error) {
	return r.idsByName("authors", name)
}

func (r *entityRepository) idsByName(table, name string) ([]int64, error) {
	rows, err := r.db.Query("SELECT id FROM "+table+" WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s by name: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s id: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s ids: %w", table, err)
	}

	return ids, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
