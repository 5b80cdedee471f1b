package main

import (
	"context"
	"fmt"

	"github.com/shanehull/corpbrief/internal/ai"
	"github.com/shanehull/corpbrief/internal/chunk"
	"github.com/shanehull/corpbrief/internal/classify"
	"github.com/shanehull/corpbrief/internal/config"
	"github.com/shanehull/corpbrief/internal/corpcode"
	"github.com/shanehull/corpbrief/internal/dart"
	"github.com/shanehull/corpbrief/internal/news"
	"github.com/shanehull/corpbrief/internal/notify"
	"github.com/shanehull/corpbrief/internal/pipeline"
	"github.com/ternarybob/arbor"
)

// app is shared by every command. cfg is filled by the parser before a
// command's Execute runs.
type app struct {
	cfg    config.Config
	logger arbor.ILogger
}

func (a *app) init() {
	if a.logger == nil {
		a.logger = newLogger(a.cfg.LogLevel)
	}
}

func (a *app) loadTable() (*corpcode.Table, error) {
	return corpcode.NewLoader(a.logger).LoadOptimized(a.cfg.CorpCodeXML, a.cfg.CorpCodeCache, a.cfg.RefreshCache)
}

func (a *app) classifier() (*classify.Classifier, error) {
	opts := classify.Options{KeepUnclassified: a.cfg.KeepUnclassified}
	if a.cfg.RulesFile == "" {
		return classify.Default(opts), nil
	}
	rules, err := classify.LoadRules(a.cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("path", a.cfg.RulesFile).Msg("Loaded classification rules")
	return classify.New(rules, opts), nil
}

func (a *app) aiClient(ctx context.Context) (*ai.Client, error) {
	if err := a.cfg.RequireGemini(); err != nil {
		return nil, err
	}
	return ai.NewClient(ctx, ai.Config{
		APIKey:         a.cfg.GeminiAPIKey,
		EmbeddingModel: a.cfg.EmbeddingModel,
		ReportModel:    a.cfg.ReportModel,
	}, a.logger)
}

// collectorDeps wires the fetch and classify side of the pipeline. News is
// skipped without Naver credentials; disclosures are skipped when the
// identifier table cannot be loaded.
func (a *app) collectorDeps() (pipeline.Deps, error) {
	if err := a.cfg.RequireDart(); err != nil {
		return pipeline.Deps{}, err
	}

	classifier, err := a.classifier()
	if err != nil {
		return pipeline.Deps{}, fmt.Errorf("failed to load classification rules: %w", err)
	}

	deps := pipeline.Deps{
		Disclosures: dart.NewClient(a.cfg.DartAPIKey, a.logger),
		Classifier:  classifier,
		Logger:      a.logger,
	}

	if err := a.cfg.RequireNaver(); err != nil {
		a.logger.Warn().Err(err).Msg("News collection disabled")
	} else {
		deps.News = news.NewClient(a.cfg.NaverClientID, a.cfg.NaverClientSecret, a.logger,
			news.WithRateLimit(a.cfg.NaverRateLimit))
	}

	table, err := a.loadTable()
	if err != nil {
		a.logger.Warn().Err(err).Msg("Company identifiers unavailable, disclosures will be skipped")
	} else {
		deps.Resolver = table
	}

	return deps, nil
}

func (a *app) emailSender() (*notify.EmailSender, *notify.HTMLEmailRenderer) {
	return notify.NewEmailSender(a.cfg.SMTP.EmailConfig(), a.logger), notify.NewHTMLEmailRenderer()
}

func newSplitter() *chunk.Splitter {
	s, err := chunk.NewSplitter(chunk.DefaultSettings())
	if err != nil {
		panic(err)
	}
	return s
}
