/*
Package news searches the Naver news API for recent articles about a company.
*/
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shanehull/corpbrief/internal/types"
	"github.com/ternarybob/arbor"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://openapi.naver.com/v1/search/news.json"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10

	defaultCount = 5
	maxCount     = 100
)

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       arbor.ILogger
	limiter      *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit caps outgoing requests per second. Non-positive values keep
// the default.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

func NewClient(clientID, clientSecret string, logger arbor.ILogger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		logger:       logger,
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type searchResponse struct {
	Total int          `json:"total"`
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
}

// FetchNews returns at most count of the newest articles for company. It never
// fails: any problem yields an empty result carrying the reason.
func (c *Client) FetchNews(ctx context.Context, company string, count int) types.Result[types.NewsItem] {
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return c.fail(company, fmt.Sprintf("rate limiter: %v", err))
	}

	params := url.Values{}
	params.Set("query", company)
	params.Set("display", strconv.Itoa(count))
	params.Set("start", "1")
	params.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return c.fail(company, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(company, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return c.fail(company, "authentication failed (401): check the Naver client id and secret")
	case http.StatusTooManyRequests:
		return c.fail(company, "rate limited (429): daily search quota may be exhausted")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return c.fail(company, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return c.fail(company, fmt.Sprintf("failed to decode response: %v", err))
	}

	items := make([]types.NewsItem, 0, len(sr.Items))
	for _, it := range sr.Items {
		items = append(items, types.NewsItem{
			Title:       StripMarkup(it.Title),
			Description: StripMarkup(it.Description),
		})
		if len(items) == count {
			break
		}
	}

	c.logger.Info().Str("company", company).Int("total", sr.Total).Int("returned", len(items)).Msg("Fetched news")
	return types.OK(items)
}

func (c *Client) fail(company, reason string) types.Result[types.NewsItem] {
	c.logger.Warn().Str("company", company).Msg("News fetch failed: " + reason)
	return types.Empty[types.NewsItem](reason)
}

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// StripMarkup removes tags and unescapes entities, e.g. "<b>삼성</b>&amp;" becomes "삼성&".
func StripMarkup(s string) string {
	nodes, err := html.ParseFragment(strings.NewReader(s), bodyContext)
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(s))
	}

	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(extractText(n))
	}
	return strings.TrimSpace(sb.String())
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
	}
	return sb.String()
}
