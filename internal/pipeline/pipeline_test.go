package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shanehull/corpbrief/internal/ai"
	"github.com/shanehull/corpbrief/internal/chunk"
	"github.com/shanehull/corpbrief/internal/classify"
	"github.com/shanehull/corpbrief/internal/dart"
	"github.com/shanehull/corpbrief/internal/types"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

type fakeNews struct {
	panicFor string
	calls    []string
}

func (f *fakeNews) FetchNews(_ context.Context, company string, count int) types.Result[types.NewsItem] {
	f.calls = append(f.calls, company)
	if company == f.panicFor {
		panic("news backend exploded")
	}
	return types.OK([]types.NewsItem{
		{Title: company + " 신규 수주", Description: "대형 계약"},
		{Title: "코스피 마감", Description: "지수 하락"},
	})
}

type fakeDisclosures struct {
	queries []dart.Query
}

func (f *fakeDisclosures) FetchDisclosures(_ context.Context, q dart.Query) types.Result[types.DisclosureRecord] {
	f.queries = append(f.queries, q)
	return types.OK([]types.DisclosureRecord{
		{ReportTitle: "2024 1분기 사업보고서", ReceiptNumber: "20240515000123", ReceiptDate: "20240515"},
		{ReportTitle: "임원ㆍ주요주주특정증권등소유상황보고서", ReceiptNumber: "20240516000001", ReceiptDate: "20240516"},
	})
}

type fakeResolver map[string]string

func (f fakeResolver) Resolve(name string) (string, bool) {
	id, ok := f[name]
	return id, ok
}

type fakeEmbedder struct {
	failFor string
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		if f.failFor != "" && strings.Contains(t, f.failFor) {
			return nil, errors.New("quota exceeded")
		}
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

type fakeStore struct {
	chunks []chunk.Chunk
}

func (f *fakeStore) Upsert(_ context.Context, chunks []chunk.Chunk, vectors [][]float32) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, errors.New("length mismatch")
	}
	f.chunks = append(f.chunks, chunks...)
	return len(chunks), nil
}

type fakeRecorder struct {
	runs []types.RunStats
}

func (f *fakeRecorder) Append(stats types.RunStats) error {
	f.runs = append(f.runs, stats)
	return nil
}

type fakeGenerator struct {
	prompt string
}

func (f *fakeGenerator) GenerateReport(_ context.Context, prompt string) (*ai.Report, error) {
	f.prompt = prompt
	return &ai.Report{Opinion: "중립"}, nil
}

type fixture struct {
	news        *fakeNews
	disclosures *fakeDisclosures
	embedder    *fakeEmbedder
	store       *fakeStore
	recorder    *fakeRecorder
	generator   *fakeGenerator
}

func newDriver(t *testing.T, companies []string) (*Driver, *fixture) {
	t.Helper()
	splitter, err := chunk.NewSplitter(chunk.DefaultSettings())
	require.NoError(t, err)

	f := &fixture{
		news:        &fakeNews{},
		disclosures: &fakeDisclosures{},
		embedder:    &fakeEmbedder{},
		store:       &fakeStore{},
		recorder:    &fakeRecorder{},
		generator:   &fakeGenerator{},
	}
	now := time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC)

	d := New(Config{Companies: companies}, Deps{
		News:        f.news,
		Disclosures: f.disclosures,
		Resolver:    fakeResolver{"삼성전자": "00126380", "카카오": "00258801", "NAVER": "00266961"},
		Classifier:  classify.Default(classify.Options{}),
		Splitter:    splitter,
		Embedder:    f.embedder,
		Store:       f.store,
		Recorder:    f.recorder,
		Generator:   f.generator,
		Logger:      arbor.NewLogger(),
		Now:         func() time.Time { return now },
	})
	return d, f
}

func TestRun_ProcessesCompany(t *testing.T) {
	d, f := newDriver(t, []string{"삼성전자"})

	stats := d.Run(context.Background())

	require.Len(t, stats.Companies, 1)
	res := stats.Companies[0]
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.News, "only headlines mentioning the company")
	assert.Equal(t, 1, res.Disclosures, "unclassified disclosures are dropped")
	assert.Equal(t, 2, res.Documents)
	assert.Equal(t, 2, res.Chunks)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Empty(t, stats.Errors)

	require.Len(t, f.disclosures.queries, 1)
	q := f.disclosures.queries[0]
	assert.Equal(t, "00126380", q.Identifier)
	assert.Equal(t, "20240531", q.StartDate)
	assert.Equal(t, "20240630", q.EndDate)

	require.Len(t, f.store.chunks, 2)
	news, disclosure := f.store.chunks[0], f.store.chunks[1]
	assert.Equal(t, "news", news.Metadata["source"])
	assert.Contains(t, news.Text, "제목: 삼성전자 신규 수주\n내용: 대형 계약")
	assert.Equal(t, "disclosure", disclosure.Metadata["source"])
	assert.Equal(t, "primary", disclosure.Metadata["priority"])
	assert.Equal(t, "삼성전자", disclosure.Metadata["company"])
	assert.Equal(t, "dart-20240515000123", disclosure.DocumentID)
	assert.Contains(t, disclosure.Text, "중요도: primary")

	require.Len(t, f.recorder.runs, 1)
	assert.Equal(t, stats.TotalChunks, f.recorder.runs[0].TotalChunks)
}

func TestRun_PanicIsRecordedOnce(t *testing.T) {
	d, f := newDriver(t, []string{"삼성전자", "카카오", "NAVER"})
	f.news.panicFor = "카카오"

	stats := d.Run(context.Background())

	assert.Equal(t, []string{"삼성전자", "카카오", "NAVER"}, f.news.calls)
	require.Len(t, stats.Companies, 3)
	require.Len(t, stats.Errors, 1)
	assert.True(t, strings.HasPrefix(stats.Errors[0], "카카오: panic"))

	assert.True(t, stats.Companies[0].Success)
	assert.False(t, stats.Companies[1].Success)
	assert.True(t, stats.Companies[2].Success)
	assert.Equal(t, 4, stats.TotalChunks)
}

func TestRun_EmbedFailureYieldsZeroChunks(t *testing.T) {
	d, f := newDriver(t, []string{"카카오", "NAVER"})
	f.embedder.failFor = "카카오"

	stats := d.Run(context.Background())

	require.Len(t, stats.Companies, 2)
	assert.Equal(t, 0, stats.Companies[0].Chunks)
	assert.Equal(t, 2, stats.Companies[0].Documents)
	assert.False(t, stats.Companies[0].Success)
	assert.True(t, stats.Companies[1].Success)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "quota exceeded")
}

func TestRun_UnknownIdentifierSkipsDisclosures(t *testing.T) {
	d, f := newDriver(t, []string{"없는회사"})

	stats := d.Run(context.Background())

	assert.Empty(t, f.disclosures.queries)
	require.Len(t, stats.Companies, 1)
	assert.True(t, stats.Companies[0].Success)
	assert.Equal(t, 0, stats.Companies[0].Disclosures)
	assert.Equal(t, 1, stats.Companies[0].News, "news is still collected")
	assert.Equal(t, 1, stats.TotalChunks)
	require.Len(t, f.store.chunks, 1)
	assert.Equal(t, "news", f.store.chunks[0].Metadata["source"])
}

func TestRun_CancelledContext(t *testing.T) {
	d, f := newDriver(t, []string{"삼성전자", "NAVER"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := d.Run(ctx)

	assert.Empty(t, f.news.calls)
	assert.Len(t, stats.Companies, 2)
	assert.Len(t, stats.Errors, 2)
}

func TestRun_DocumentIDsAreStable(t *testing.T) {
	d, f := newDriver(t, []string{"삼성전자"})

	d.Run(context.Background())
	d.Run(context.Background())

	require.Len(t, f.store.chunks, 4)
	assert.Equal(t, f.store.chunks[0].ID, f.store.chunks[2].ID)
	assert.Equal(t, f.store.chunks[1].ID, f.store.chunks[3].ID)
}

func TestBuildReport(t *testing.T) {
	d, f := newDriver(t, nil)

	brief := d.BuildReport(context.Background(), "삼성전자")

	assert.Contains(t, brief.Context, "### 삼성전자 최신 뉴스\n- 삼성전자 신규 수주\n")
	assert.Contains(t, brief.Context, "#### 🏆 핵심 실적 정보")
	assert.Contains(t, brief.Prompt, brief.Context)
	require.Len(t, f.disclosures.queries, 1)
	assert.Equal(t, "20240401", f.disclosures.queries[0].StartDate)
}

func TestGenerateReport(t *testing.T) {
	d, f := newDriver(t, nil)

	brief, err := d.GenerateReport(context.Background(), "NAVER")
	require.NoError(t, err)
	assert.Equal(t, "중립", brief.Report.Opinion)
	assert.Equal(t, brief.Prompt, f.generator.prompt)

	bare := New(Config{}, Deps{Logger: arbor.NewLogger()})
	_, err = bare.GenerateReport(context.Background(), "NAVER")
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestSchedule(t *testing.T) {
	err := Schedule(context.Background(), "not a schedule", arbor.NewLogger(), func(context.Context) {})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Schedule(ctx, "0 8 * * 1-5", arbor.NewLogger(), func(context.Context) {}))
}

func TestCronLogger(t *testing.T) {
	var l cron.Logger = cronLogger{logger: arbor.NewLogger()}

	assert.NotPanics(t, func() {
		l.Info("skip", "now", time.Now(), "entry", 1)
		l.Info("odd pairs", "dangling")
		l.Error(errors.New("boom"), "panic", "stack", "...")
	})
}
