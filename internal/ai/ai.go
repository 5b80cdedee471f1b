/*
Package ai wraps the Gemini API for two jobs: embedding chunk text for the
vector store, and writing the structured company report from a composed prompt.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"
)

const (
	DefaultEmbeddingModel = "gemini-embedding-001"
	DefaultReportModel    = "gemini-2.5-flash"
	DefaultDimensions     = 768
	maxBatchSize          = 100
)

type Config struct {
	APIKey         string
	EmbeddingModel string
	ReportModel    string
	Dimensions     int
	BatchSize      int
	// BaseURL overrides the Gemini endpoint.
	BaseURL string
}

type Client struct {
	client *genai.Client
	cfg    Config
	logger arbor.ILogger
}

type Report struct {
	Highlights  []string `json:"highlights"`
	Performance string   `json:"performance"`
	Momentum    string   `json:"momentum"`
	Risks       []string `json:"risks"`
	Opinion     string   `json:"opinion"`
}

func NewClient(ctx context.Context, cfg Config, logger arbor.ILogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ReportModel == "" {
		cfg.ReportModel = DefaultReportModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > maxBatchSize {
		cfg.BatchSize = maxBatchSize
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, cfg: cfg, logger: logger}, nil
}

// EmbedTexts returns one vector per text, in order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	dims := int32(c.cfg.Dimensions)
	embedConfig := &genai.EmbedContentConfig{OutputDimensionality: &dims}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}

		result, err := c.client.Models.EmbedContent(ctx, c.cfg.EmbeddingModel, contents, embedConfig)
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d failed: %w", start, end, err)
		}
		if result == nil || len(result.Embeddings) != end-start {
			got := 0
			if result != nil {
				got = len(result.Embeddings)
			}
			return nil, fmt.Errorf("embedding batch %d-%d returned %d vectors", start, end, got)
		}

		for _, e := range result.Embeddings {
			vectors = append(vectors, e.Values)
		}
		c.logger.Debug().Int("from", start).Int("to", end).Msg("Embedded batch")
	}

	return vectors, nil
}

// EmbedQuery embeds a single search string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) GenerateReport(ctx context.Context, prompt string) (*Report, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.ReportModel, contents, &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.2),
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    getResponseSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	respText := resp.Text()

	var report Report
	if err := json.Unmarshal([]byte(respText), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}

	return &report, nil
}

// Markdown renders the report under the same five headings the prompt asks for.
func (r *Report) Markdown(company string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s 투자 리포트\n\n", company)

	sb.WriteString("## 1. 투자 포인트 요약\n")
	for _, h := range r.Highlights {
		fmt.Fprintf(&sb, "- %s\n", h)
	}
	fmt.Fprintf(&sb, "\n## 2. 실적 및 경영 현황 분석\n%s\n", r.Performance)
	fmt.Fprintf(&sb, "\n## 3. 사업 동향 및 성장 동력\n%s\n", r.Momentum)
	sb.WriteString("\n## 4. 리스크 요인\n")
	for _, risk := range r.Risks {
		fmt.Fprintf(&sb, "- %s\n", risk)
	}
	fmt.Fprintf(&sb, "\n## 5. 종합 투자 의견\n%s\n", r.Opinion)

	return sb.String()
}
