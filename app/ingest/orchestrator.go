package ingest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/antonvlasov/newshub/app/database"
	"github.com/antonvlasov/newshub/app/provider"
)

// Report aggregates the outcome of one ingestion run. Provider failures are
// absorbed here and never surfaced as run errors.
type Report struct {
	Created   int              `json:"created"`
	Skipped   int              `json:"skipped"`
	Providers []ProviderReport `json:"providers"`
}

type ProviderReport struct {
	Provider string `json:"provider"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Orchestrator drives the provider adapters and persists their normalized
// articles through the entity resolver.
type Orchestrator struct {
	adapters    []provider.Adapter
	entityRepo  database.EntityRepository
	articleRepo database.ArticleRepository
}

func NewOrchestrator(adapters []provider.Adapter, entityRepo database.EntityRepository,
	articleRepo database.ArticleRepository) *Orchestrator {
	return &Orchestrator{
		adapters:    adapters,
		entityRepo:  entityRepo,
		articleRepo: articleRepo,
	}
}

type fetchResult struct {
	articles []provider.Article
	skipped  int
	err      error
}

// Run fetches every provider concurrently, then persists the batches in the
// fixed adapter order. A provider whose fetch fails contributes nothing to
// the run; the others proceed. Repeated runs append article rows by design,
// only source/category/author resolution is idempotent.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	results := make([]fetchResult, len(o.adapters))

	var wg sync.WaitGroup
	for i, adapter := range o.adapters {
		wg.Add(1)
		go func(i int, adapter provider.Adapter) {
			defer wg.Done()
			articles, skipped, err := adapter.Fetch(ctx)
			results[i] = fetchResult{articles: articles, skipped: skipped, err: err}
		}(i, adapter)
	}
	wg.Wait()

	report := &Report{}
	for i, adapter := range o.adapters {
		providerReport := o.persistBatch(adapter.Provider(), results[i])
		report.Created += providerReport.Created
		report.Skipped += providerReport.Skipped
		report.Providers = append(report.Providers, providerReport)
	}

	slog.Info("Ingestion run completed", "created", report.Created, "skipped", report.Skipped,
		"providers", len(report.Providers))

	return report, nil
}

func (o *Orchestrator) persistBatch(providerName string, result fetchResult) ProviderReport {
	report := ProviderReport{Provider: providerName}

	if result.err != nil {
		slog.Warn("Provider fetch failed, batch skipped", "provider", providerName, "error", result.err)
		report.Error = result.err.Error()
		return report
	}

	report.Skipped = result.skipped

	for _, article := range result.articles {
		if err := o.persistArticle(providerName, article); err != nil {
			slog.Warn("Failed to persist article, record skipped", "provider", providerName,
				"url", article.URL, "error", err)
			report.Skipped++
			continue
		}
		report.Created++
	}

	slog.Debug("Provider batch persisted", "provider", providerName,
		"created", report.Created, "skipped", report.Skipped)

	return report
}

// persistArticle resolves the article's entities and writes the article with
// its join rows as one atomic unit.
func (o *Orchestrator) persistArticle(providerName string, article provider.Article) error {
	sourceID, err := o.entityRepo.ResolveSource(article.SourceName)
	if err != nil {
		return err
	}

	categoryIDs := make([]int64, 0, len(article.Categories))
	for _, name := range article.Categories {
		categoryID, err := o.entityRepo.ResolveCategory(name)
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, categoryID)
	}

	authorIDs, err := o.entityRepo.ResolveAuthors(article.Authors)
	if err != nil {
		return err
	}

	_, err = o.articleRepo.CreateArticle(database.NewArticle{
		Title:        article.Title,
		Description:  article.Description,
		URL:          article.URL,
		URLToImage:   article.URLToImage,
		Content:      article.Content,
		PublishedAt:  article.PublishedAt,
		Provider:     providerName,
		NewsSourceID: sourceID,
	}, categoryIDs, authorIDs)

	return err
}
