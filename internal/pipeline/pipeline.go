/*
Package pipeline drives a collection run: for every target company it gathers
news and classified disclosures, turns them into documents, chunks and embeds
them, and upserts the chunks into the vector store.
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shanehull/corpbrief/internal/ai"
	"github.com/shanehull/corpbrief/internal/chunk"
	"github.com/shanehull/corpbrief/internal/dart"
	"github.com/shanehull/corpbrief/internal/report"
	"github.com/shanehull/corpbrief/internal/types"
	"github.com/ternarybob/arbor"
)

const (
	DefaultNewsCount      = 10
	DefaultDisclosureDays = 30
	disclosurePageSize    = 100
)

type NewsFetcher interface {
	FetchNews(ctx context.Context, company string, count int) types.Result[types.NewsItem]
}

type DisclosureFetcher interface {
	FetchDisclosures(ctx context.Context, q dart.Query) types.Result[types.DisclosureRecord]
}

// IdentifierResolver maps a company name to its disclosure identifier.
type IdentifierResolver interface {
	Resolve(name string) (string, bool)
}

type Classifier interface {
	Classify(records []types.DisclosureRecord) types.Buckets
}

type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type Store interface {
	Upsert(ctx context.Context, chunks []chunk.Chunk, vectors [][]float32) (int, error)
}

type RunRecorder interface {
	Append(stats types.RunStats) error
}

type ReportGenerator interface {
	GenerateReport(ctx context.Context, prompt string) (*ai.Report, error)
}

type Config struct {
	Companies      []string
	NewsCount      int
	DisclosureDays int
}

// Deps are the collaborators a Driver calls. News, Disclosures, Resolver,
// Recorder and Generator may be nil; the matching step is then skipped.
type Deps struct {
	News        NewsFetcher
	Disclosures DisclosureFetcher
	Resolver    IdentifierResolver
	Classifier  Classifier
	Splitter    *chunk.Splitter
	Embedder    Embedder
	Store       Store
	Recorder    RunRecorder
	Generator   ReportGenerator
	Composer    *report.Composer
	Logger      arbor.ILogger
	Now         func() time.Time
}

type Driver struct {
	cfg  Config
	deps Deps
}

// Brief is the composed input for a report and, when a generator is set, the
// generated report itself.
type Brief struct {
	Company string
	Context string
	Prompt  string
	Report  *ai.Report
}

func New(cfg Config, deps Deps) *Driver {
	if cfg.NewsCount <= 0 {
		cfg.NewsCount = DefaultNewsCount
	}
	if cfg.DisclosureDays <= 0 {
		cfg.DisclosureDays = DefaultDisclosureDays
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Composer == nil {
		deps.Composer = report.NewComposer()
	}
	return &Driver{cfg: cfg, deps: deps}
}

// Run processes every configured company once and records the run.
func (d *Driver) Run(ctx context.Context) types.RunStats {
	log := d.deps.Logger
	stats := types.RunStats{StartTime: d.deps.Now(), Errors: []string{}}

	log.Info().Int("companies", len(d.cfg.Companies)).Msg("Pipeline run started")

	for i, company := range d.cfg.Companies {
		log.Info().Str("company", company).Int("index", i+1).Int("total", len(d.cfg.Companies)).Msg("Processing company")

		res := d.safeProcess(ctx, company)
		stats.Companies = append(stats.Companies, res)
		stats.TotalDocuments += res.Documents
		stats.TotalChunks += res.Chunks
		if res.Error != "" {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %s", company, res.Error))
		}
	}

	stats.EndTime = d.deps.Now()
	stats.DurationMinutes = stats.EndTime.Sub(stats.StartTime).Minutes()

	if d.deps.Recorder != nil {
		if err := d.deps.Recorder.Append(stats); err != nil {
			log.Error().Err(err).Msg("Failed to save run log")
		}
	}

	log.Info().
		Int("documents", stats.TotalDocuments).
		Int("chunks", stats.TotalChunks).
		Int("errors", len(stats.Errors)).
		Msg("Pipeline run finished")

	return stats
}

func (d *Driver) safeProcess(ctx context.Context, company string) (res types.CompanyResult) {
	defer func() {
		if r := recover(); r != nil {
			d.deps.Logger.Error().Str("company", company).Str("panic", fmt.Sprint(r)).Msg("Company processing panicked")
			res = types.CompanyResult{Company: company, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return types.CompanyResult{Company: company, Error: err.Error()}
	}

	res, err := d.processCompany(ctx, company)
	if err != nil {
		d.deps.Logger.Error().Err(err).Str("company", company).Msg("Company processing failed")
		res.Error = err.Error()
		res.Success = false
	}
	return res
}

func (d *Driver) processCompany(ctx context.Context, company string) (types.CompanyResult, error) {
	res := types.CompanyResult{Company: company}

	news, buckets := d.collect(ctx, company, d.cfg.NewsCount, d.cfg.DisclosureDays)
	res.News = len(news)
	res.Disclosures = buckets.Total()

	docs := d.buildDocuments(company, news, buckets)
	res.Documents = len(docs)

	n, err := d.store(ctx, docs)
	res.Chunks = n
	if err != nil {
		return res, err
	}

	res.Success = true
	d.deps.Logger.Info().
		Str("company", company).
		Int("news", res.News).
		Int("disclosures", res.Disclosures).
		Int("chunks", res.Chunks).
		Msg("Company processed")
	return res, nil
}

// collect fetches news mentioning the company and its classified disclosures.
// Fetch failures degrade to empty results.
func (d *Driver) collect(ctx context.Context, company string, newsCount, days int) ([]types.NewsItem, types.Buckets) {
	log := d.deps.Logger

	var news []types.NewsItem
	if d.deps.News != nil {
		result := d.deps.News.FetchNews(ctx, company, newsCount)
		if !result.OK() {
			log.Warn().Str("company", company).Str("reason", result.Reason).Msg("No news collected")
		}
		for _, item := range result.Items {
			if mentions(company, item) {
				news = append(news, item)
			}
		}
	}

	return news, d.disclosures(ctx, company, days)
}

func (d *Driver) disclosures(ctx context.Context, company string, days int) types.Buckets {
	log := d.deps.Logger
	if d.deps.Disclosures == nil || d.deps.Resolver == nil {
		return types.Buckets{}
	}

	id, ok := d.deps.Resolver.Resolve(company)
	if !ok {
		log.Warn().Str("company", company).Msg("Company identifier not found, skipping disclosures")
		return types.Buckets{}
	}

	start, end := dart.Window(days, d.deps.Now())
	result := d.deps.Disclosures.FetchDisclosures(ctx, dart.Query{
		Identifier: id,
		StartDate:  start,
		EndDate:    end,
		PageSize:   disclosurePageSize,
	})
	if !result.OK() {
		log.Warn().Str("company", company).Str("reason", result.Reason).Msg("No disclosures collected")
		return types.Buckets{}
	}

	return d.deps.Classifier.Classify(result.Items)
}

func (d *Driver) store(ctx context.Context, docs []chunk.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	chunks := d.deps.Splitter.SplitDocuments(docs)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := d.deps.Embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %d chunks: %w", len(chunks), err)
	}

	n, err := d.deps.Store.Upsert(ctx, chunks, vectors)
	if err != nil {
		return 0, fmt.Errorf("failed to store %d chunks: %w", len(chunks), err)
	}
	return n, nil
}

// ErrNoGenerator is returned by GenerateReport when the driver has no
// report generator.
var ErrNoGenerator = errors.New("no report generator configured")

// BuildReport composes the context and prompt for one company, using the
// composer's headline count and look-back window.
func (d *Driver) BuildReport(ctx context.Context, company string) *Brief {
	c := d.deps.Composer
	news, buckets := d.collect(ctx, company, c.NewsCount, c.LookbackDays)

	text := c.ComposeContext(company, news, buckets)
	return &Brief{
		Company: company,
		Context: text,
		Prompt:  c.ComposePrompt(company, text),
	}
}

// GenerateReport builds the brief and asks the generator to write the report.
func (d *Driver) GenerateReport(ctx context.Context, company string) (*Brief, error) {
	if d.deps.Generator == nil {
		return nil, ErrNoGenerator
	}

	brief := d.BuildReport(ctx, company)
	r, err := d.deps.Generator.GenerateReport(ctx, brief.Prompt)
	if err != nil {
		return brief, fmt.Errorf("failed to generate report for %s: %w", company, err)
	}
	brief.Report = r
	return brief, nil
}
