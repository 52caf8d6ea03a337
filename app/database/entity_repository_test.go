package database

import (
	"testing"
)

func TestResolveSource_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntityRepository(db)

	first, err := repo.ResolveSource("BBC News")
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.ResolveSource("BBC News")
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("Expected the same ID for repeated resolution, got %d and %d", first, second)
	}

	sources, err := repo.ListSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 {
		t.Errorf("Expected a single source row, got %d", len(sources))
	}
}

func TestResolveCategory_CaseSensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntityRepository(db)

	lower, err := repo.ResolveCategory("politics")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := repo.ResolveCategory("Politics")
	if err != nil {
		t.Fatal(err)
	}

	if lower == upper {
		t.Error("Expected distinct rows for names differing only in case")
	}
}

func TestResolveAuthors_SkipsEmptyNames(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntityRepository(db)

	ids, err := repo.ResolveAuthors([]string{"Alice Reporter", "", "Bob Writer"})
	if err != nil {
		t.Fatal(err)
	}

	if len(ids) != 2 {
		t.Errorf("Expected 2 author IDs, got %d", len(ids))
	}
}

func TestListCategories_InsertionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntityRepository(db)

	for _, name := range []string{"world", "business", "arts"} {
		if _, err := repo.ResolveCategory(name); err != nil {
			t.Fatal(err)
		}
	}

	categories, err := repo.ListCategories()
	if err != nil {
		t.Fatal(err)
	}

	if len(categories) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(categories))
	}
	for i, expected := range []string{"world", "business", "arts"} {
		if categories[i].Name != expected {
			t.Errorf("Expected '%s' at position %d, got '%s'", expected, i, categories[i].Name)
		}
	}
}

func TestIDsByName_ExactMatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntityRepository(db)

	if _, err := repo.ResolveSource("The Guardian"); err != nil {
		t.Fatal(err)
	}

	ids, err := repo.SourceIDsByName("The Guardian")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected 1 match for exact name, got %d", len(ids))
	}

	ids, err = repo.SourceIDsByName("Guardian")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no match for partial name, got %d", len(ids))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.Exec("INSERT INTO authors (name) VALUES (?)", "Alice Reporter"); err != nil {
		t.Fatal(err)
	}

	_, err := db.Exec("INSERT INTO authors (name) VALUES (?)", "Alice Reporter")
	if err == nil {
		t.Fatal("Expected duplicate insert to fail")
	}
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation to be recognized, got: %v", err)
	}
}
