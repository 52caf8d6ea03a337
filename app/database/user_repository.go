package database

import (
	"database/sql"
	"fmt"
)

var _ UserRepository = (*userRepository)(nil)

type userRepository struct {
	db *DB
}

// NewUserRepository creates a repository for API consumers and their preferences.
func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByAPIKey(apiKey string) (*User, error) {
	var user User
	err := r.db.QueryRow(`
		SELECT id, name, api_key, created_at FROM users WHERE api_key = ?
	`, apiKey).Scan(&user.ID, &user.Name, &user.APIKey, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by api key: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetPreferences(userID int64) (*Preferences, error) {
	prefs := &Preferences{}

	var err error
	prefs.CategoryIDs, err = r.preferenceIDs("user_categories", "category_id", userID)
	if err != nil {
		return nil, err
	}
	prefs.AuthorIDs, err = r.preferenceIDs("user_authors", "author_id", userID)
	if err != nil {
		return nil, err
	}
	prefs.SourceIDs, err = r.preferenceIDs("user_sources", "news_source_id", userID)
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

func (r *userRepository) preferenceIDs(table, column string, userID int64) ([]int64, error) {
	rows, err := r.db.Query("SELECT "+column+" FROM "+table+" WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return ids, nil
}
