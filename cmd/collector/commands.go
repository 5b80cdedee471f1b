package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/shanehull/corpbrief/internal/companies"
	"github.com/shanehull/corpbrief/internal/history"
	"github.com/shanehull/corpbrief/internal/notify"
	"github.com/shanehull/corpbrief/internal/pipeline"
	"github.com/shanehull/corpbrief/internal/types"
	"github.com/shanehull/corpbrief/internal/vectorstore"
)

func addCommands(parser *flags.Parser, a *app) {
	parser.AddCommand("run", "Collect news and disclosures into the vector store",
		"Runs the pipeline once for every target company, or repeatedly with --schedule.", &runCmd{app: a})
	parser.AddCommand("report", "Write an investment report for a company",
		"Collects recent news and disclosures for one company and asks Gemini for a report.", &reportCmd{app: a})
	parser.AddCommand("search", "Search company names by keyword",
		"Lists companies whose name contains the keyword.", &searchCmd{app: a})
	parser.AddCommand("lookup", "Look up a company's disclosure identifier",
		"Prints the 8-digit identifier for an exact company name.", &lookupCmd{app: a})
	parser.AddCommand("companies", "Show or save a company preset",
		"Prints a preset company list, optionally saving it as the list file.", &companiesCmd{app: a})
	parser.AddCommand("query", "Semantic search over stored chunks",
		"Embeds the query and prints the most similar stored chunks.", &queryCmd{app: a})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type runCmd struct {
	Schedule string `long:"schedule" description:"Cron expression (e.g. \"0 8 * * 1-5\"); runs until interrupted"`
	NoEmail  bool   `long:"no-email" description:"Skip emailing the run summary"`

	app *app
}

func (c *runCmd) Execute(args []string) error {
	a := c.app
	a.init()

	ctx, stop := signalContext()
	defer stop()

	deps, err := a.collectorDeps()
	if err != nil {
		return err
	}

	client, err := a.aiClient(ctx)
	if err != nil {
		return err
	}

	store, err := vectorstore.Open(ctx, a.cfg.DBDir, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := history.NewManager(a.cfg.RunLog, history.DefaultLimit, a.logger)
	if err != nil {
		return err
	}

	deps.Splitter = newSplitter()
	deps.Embedder = client
	deps.Store = store
	deps.Recorder = runs

	targets := companies.NewResolver(a.logger).Resolve(a.cfg.CompanyList, a.cfg.Preset)
	driver := pipeline.New(pipeline.Config{
		Companies:      targets,
		NewsCount:      a.cfg.NewsCount,
		DisclosureDays: a.cfg.DisclosureDays,
	}, deps)

	sender, renderer := a.emailSender()
	once := func(ctx context.Context) {
		stats := driver.Run(ctx)
		notify.ReportRun(os.Stdout, stats, runs.Path())
		if !c.NoEmail && sender.Enabled() {
			c.email(sender, renderer, stats)
		}
	}

	if c.Schedule != "" {
		return pipeline.Schedule(ctx, c.Schedule, a.logger, once)
	}
	once(ctx)
	return nil
}

func (c *runCmd) email(sender *notify.EmailSender, renderer *notify.HTMLEmailRenderer, stats types.RunStats) {
	msg, err := renderer.RenderRun(stats)
	if err != nil {
		c.app.logger.Error().Err(err).Msg("Failed to render run summary")
		return
	}
	if err := sender.Send(msg); err != nil {
		c.app.logger.Error().Err(err).Msg("Failed to email run summary")
	}
}

type reportCmd struct {
	PromptOnly bool   `long:"prompt-only" description:"Print the composed prompt without calling Gemini"`
	Out        string `long:"out" short:"o" description:"Write the report to a file instead of stdout"`
	Email      bool   `long:"email" description:"Email the report"`

	app *app
}

func (c *reportCmd) Execute(args []string) error {
	a := c.app
	a.init()

	company := strings.TrimSpace(strings.Join(args, " "))
	if company == "" {
		return fmt.Errorf("usage: report <company>")
	}

	ctx, stop := signalContext()
	defer stop()

	deps, err := a.collectorDeps()
	if err != nil {
		return err
	}

	if c.PromptOnly {
		brief := pipeline.New(pipeline.Config{}, deps).BuildReport(ctx, company)
		return c.write(brief.Prompt)
	}

	client, err := a.aiClient(ctx)
	if err != nil {
		return err
	}
	deps.Generator = client

	brief, err := pipeline.New(pipeline.Config{}, deps).GenerateReport(ctx, company)
	if err != nil {
		return err
	}

	if err := c.write(brief.Report.Markdown(company)); err != nil {
		return err
	}

	if c.Email {
		sender, renderer := a.emailSender()
		if !sender.Enabled() {
			a.logger.Warn().Msg("Email requested but SMTP is not configured")
			return nil
		}
		msg, err := renderer.RenderReport(company, brief.Report, time.Now())
		if err != nil {
			return err
		}
		return sender.Send(msg)
	}
	return nil
}

func (c *reportCmd) write(text string) error {
	if c.Out == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(c.Out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", c.Out, err)
	}
	c.app.logger.Info().Str("path", c.Out).Msg("Report written")
	return nil
}

type searchCmd struct {
	Limit int `long:"limit" short:"n" default:"20" description:"Maximum results"`

	app *app
}

func (c *searchCmd) Execute(args []string) error {
	a := c.app
	a.init()

	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		return fmt.Errorf("usage: search <keyword>")
	}

	table, err := a.loadTable()
	if err != nil {
		return err
	}

	results := table.SearchByKeyword(keyword, c.Limit)
	if len(results) == 0 {
		fmt.Printf("No companies matching %q\n", keyword)
		return nil
	}
	for _, rec := range results {
		fmt.Printf("%s\t%s\n", rec.Identifier, rec.Name)
	}
	return nil
}

type lookupCmd struct {
	app *app
}

func (c *lookupCmd) Execute(args []string) error {
	a := c.app
	a.init()

	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("usage: lookup <company>")
	}

	table, err := a.loadTable()
	if err != nil {
		return err
	}

	rec, ok := table.LookupExact(name)
	if !ok {
		return fmt.Errorf("company %q not found", name)
	}
	fmt.Printf("%s\t%s\n", rec.Identifier, rec.Name)
	return nil
}

type companiesCmd struct {
	Preset string `long:"preset" default:"top_10" description:"Preset name"`
	Save   bool   `long:"save" description:"Save the preset to the company list file (--company-list)"`
	List   bool   `long:"list" description:"List preset names"`

	app *app
}

func (c *companiesCmd) Execute(args []string) error {
	a := c.app
	a.init()

	if c.List {
		for _, name := range companies.Presets() {
			fmt.Println(name)
		}
		return nil
	}

	list, ok := companies.Preset(c.Preset)
	if !ok {
		a.logger.Warn().Str("preset", c.Preset).Msg("Unknown preset, using top_10")
	}

	for i, name := range list {
		fmt.Printf("%3d. %s\n", i+1, name)
	}

	if !c.Save {
		return nil
	}
	path := a.cfg.CompanyList
	if path == "" {
		path = "target_companies.json"
	}
	if err := companies.Save(path, list, time.Now()); err != nil {
		return err
	}
	a.logger.Info().Str("path", path).Int("companies", len(list)).Msg("Company list saved")
	return nil
}

type queryCmd struct {
	Company string `long:"company" short:"c" description:"Only search chunks for this company"`
	K       int    `long:"k" default:"5" description:"Number of results"`

	app *app
}

func (c *queryCmd) Execute(args []string) error {
	a := c.app
	a.init()

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("usage: query <text>")
	}

	ctx, stop := signalContext()
	defer stop()

	client, err := a.aiClient(ctx)
	if err != nil {
		return err
	}

	store, err := vectorstore.Open(ctx, a.cfg.DBDir, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	vector, err := client.EmbedQuery(ctx, text)
	if err != nil {
		return err
	}

	matches, err := store.Search(ctx, vector, c.Company, c.K)
	if err != nil {
		return err
	}

	for i, m := range matches {
		fmt.Printf("\n[%d] %.4f  %s (%s)\n%s\n", i+1, m.Score,
			m.Chunk.Metadata["company"], m.Chunk.Metadata["source"], m.Chunk.Text)
	}
	return nil
}
