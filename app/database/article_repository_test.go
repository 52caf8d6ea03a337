package database

import (
	"fmt"
	"testing"
	"time"
)

func TestCreateArticleAndGetByID(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id := seedArticle(t, entities, articles, "Summit Concludes", "BBC News", "newsapi",
		published, []string{"world", "politics"}, []string{"Alice Reporter"})

	article, err := articles.GetByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if article == nil {
		t.Fatal("Expected article to be found")
	}

	if article.Title != "Summit Concludes" {
		t.Errorf("Expected title 'Summit Concludes', got '%s'", article.Title)
	}
	if article.SourceName != "BBC News" {
		t.Errorf("Expected source 'BBC News', got '%s'", article.SourceName)
	}
	if len(article.Categories) != 2 {
		t.Errorf("Expected 2 categories, got %v", article.Categories)
	}
	if len(article.Authors) != 1 || article.Authors[0] != "Alice Reporter" {
		t.Errorf("Expected author 'Alice Reporter', got %v", article.Authors)
	}
	if !article.PublishedAt.Equal(published) {
		t.Errorf("Expected published_at %v, got %v", published, article.PublishedAt)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db := newTestDB(t)
	articles := NewArticleRepository(db)

	article, err := articles.GetByID(9999)
	if err != nil {
		t.Fatal(err)
	}
	if article != nil {
		t.Error("Expected nil for unknown article ID")
	}
}

func TestList_Pagination(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		seedArticle(t, entities, articles, fmt.Sprintf("Article %03d", i), "Wire", "newsapi",
			published.Add(time.Duration(i)*time.Minute), nil, nil)
	}

	page1, total, err := articles.List(ArticleFilters{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if total != 120 {
		t.Errorf("Expected total 120, got %d", total)
	}
	if len(page1) != PageSize {
		t.Errorf("Expected a full page of %d, got %d", PageSize, len(page1))
	}

	page2, _, err := articles.List(ArticleFilters{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 20 {
		t.Errorf("Expected 20 articles on page 2, got %d", len(page2))
	}
	if page2[0].ID <= page1[len(page1)-1].ID {
		t.Error("Expected page 2 to continue after page 1")
	}
}

func TestList_SearchFilter(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "Climate Accord Signed", "Wire", "newsapi", published, nil, nil)
	seedArticle(t, entities, articles, "Market Rally", "Wire", "newsapi", published, nil, []string{"Climate Desk"})
	seedArticle(t, entities, articles, "Sports Final", "Wire", "newsapi", published, nil, nil)

	// Search matches title, description, content or author name.
	results, total, err := articles.List(ArticleFilters{Search: "Climate"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("Expected 2 matches for 'Climate', got %d", total)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 result rows, got %d", len(results))
	}
}

func TestList_ProviderAndSourceFilters(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "One", "BBC News", "newsapi", published, nil, nil)
	seedArticle(t, entities, articles, "Two", "The Guardian", "The Guardian", published, nil, nil)

	_, total, err := articles.List(ArticleFilters{Provider: "Guardian"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("Expected 1 article for provider substring 'Guardian', got %d", total)
	}

	_, total, err = articles.List(ArticleFilters{Source: "BBC"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("Expected 1 article for source substring 'BBC', got %d", total)
	}
}

func TestList_CategoryFilter(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "One", "Wire", "newsapi", published, []string{"world"}, nil)
	seedArticle(t, entities, articles, "Two", "Wire", "newsapi", published, []string{"business"}, nil)
	seedArticle(t, entities, articles, "Three", "Wire", "newsapi", published, []string{"arts"}, nil)

	_, total, err := articles.List(ArticleFilters{Categories: []string{"world", "arts"}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("Expected 2 articles across the requested categories, got %d", total)
	}
}

func TestList_DateRange(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	seedArticle(t, entities, articles, "Early", "Wire", "newsapi", day(1), nil, nil)
	seedArticle(t, entities, articles, "Middle", "Wire", "newsapi", day(5), nil, nil)
	seedArticle(t, entities, articles, "Late", "Wire", "newsapi", day(10), nil, nil)

	from := day(3)
	to := day(7)

	results, total, err := articles.List(ArticleFilters{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(results) != 1 || results[0].Title != "Middle" {
		t.Errorf("Expected only 'Middle' in range, got %d results", total)
	}

	_, total, err = articles.List(ArticleFilters{From: &from})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("Expected 2 articles from open-ended lower bound, got %d", total)
	}

	_, total, err = articles.List(ArticleFilters{To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("Expected 2 articles from open-ended upper bound, got %d", total)
	}
}

func TestListByPreferences_OrSemantics(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "World Story", "Wire", "newsapi", published, []string{"world"}, nil)
	seedArticle(t, entities, articles, "By Alice", "Wire", "newsapi", published, nil, []string{"Alice Reporter"})
	seedArticle(t, entities, articles, "Unrelated", "Wire", "newsapi", published, []string{"arts"}, []string{"Bob Writer"})

	categoryIDs, err := entities.CategoryIDsByName("world")
	if err != nil {
		t.Fatal(err)
	}
	authorIDs, err := entities.AuthorIDsByName("Alice Reporter")
	if err != nil {
		t.Fatal(err)
	}

	// A stored preference in any dimension is enough to match.
	results, err := articles.ListByPreferences(PreferenceQuery{
		Preferred: Preferences{CategoryIDs: categoryIDs, AuthorIDs: authorIDs},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 articles matching either preference, got %d", len(results))
	}
}

func TestListByPreferences_OverridesCombineWithAnd(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "Both", "Wire", "newsapi", published, []string{"world"}, []string{"Alice Reporter"})
	seedArticle(t, entities, articles, "Category Only", "Wire", "newsapi", published, []string{"world"}, []string{"Bob Writer"})
	seedArticle(t, entities, articles, "Author Only", "Wire", "newsapi", published, []string{"arts"}, []string{"Alice Reporter"})

	categoryIDs, err := entities.CategoryIDsByName("world")
	if err != nil {
		t.Fatal(err)
	}
	authorIDs, err := entities.AuthorIDsByName("Alice Reporter")
	if err != nil {
		t.Fatal(err)
	}
	arbitraryCategory, err := entities.CategoryIDsByName("arts")
	if err != nil {
		t.Fatal(err)
	}

	results, err := articles.ListByPreferences(PreferenceQuery{
		// Stored preferences are ignored when overrides are present.
		Preferred:           Preferences{CategoryIDs: arbitraryCategory},
		OverrideCategoryIDs: categoryIDs,
		OverrideAuthorIDs:   authorIDs,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "Both" {
		t.Errorf("Expected only the article matching every override, got %d results", len(results))
	}
}

func TestListByPreferences_EmptyPreferences(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "Story", "Wire", "newsapi", published, nil, nil)

	results, err := articles.ListByPreferences(PreferenceQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no articles for empty preferences, got %d", len(results))
	}
}

func TestGetArticleCount(t *testing.T) {
	db := newTestDB(t)
	entities := NewEntityRepository(db)
	articles := NewArticleRepository(db)

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, entities, articles, "One", "Wire", "newsapi", published, nil, nil)
	seedArticle(t, entities, articles, "Two", "Wire", "newsapi", published, nil, nil)

	count, err := articles.GetArticleCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 articles, got %d", count)
	}
}
