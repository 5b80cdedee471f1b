/*
Package dart lists regulatory disclosures from the Open DART API.
*/
package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shanehull/corpbrief/internal/corpcode"
	"github.com/shanehull/corpbrief/internal/types"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://opendart.fss.or.kr/api/list.json"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 5
	DefaultWindowDays = 30

	defaultPageSize = 10
	maxPageSize     = 100
	dateLayout      = "20060102"

	statusOK     = "000"
	statusNoData = "013"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	now        func() time.Time
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

// WithClock replaces time.Now when computing the default window.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(apiKey string, logger arbor.ILogger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Query selects one page of disclosures. Empty dates default to the trailing
// 30 days ending today; PageSize is clamped to 1..100.
type Query struct {
	Identifier string
	StartDate  string
	EndDate    string
	Page       int
	PageSize   int
}

// Window returns the YYYYMMDD bounds of the days ending at now.
func Window(days int, now time.Time) (start, end string) {
	return now.AddDate(0, 0, -days).Format(dateLayout), now.Format(dateLayout)
}

type listResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	List    []listItem `json:"list"`
}

type listItem struct {
	CorpName string `json:"corp_name"`
	ReportNm string `json:"report_nm"`
	RceptNo  string `json:"rcept_no"`
	FlrNm    string `json:"flr_nm"`
	RceptDt  string `json:"rcept_dt"`
	Rm       string `json:"rm"`
}

func (c *Client) FetchDisclosures(ctx context.Context, q Query) types.Result[types.DisclosureRecord] {
	q = c.normalize(q)

	if err := c.limiter.Wait(ctx); err != nil {
		return c.fail(q, fmt.Sprintf("rate limiter: %v", err))
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("corp_code", q.Identifier)
	params.Set("bgn_de", q.StartDate)
	params.Set("end_de", q.EndDate)
	params.Set("page_no", strconv.Itoa(q.Page))
	params.Set("page_count", strconv.Itoa(q.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return c.fail(q, fmt.Sprintf("failed to create request: %v", err))
	}

	c.logger.Debug().Str("corp_code", q.Identifier).Str("from", q.StartDate).Str("to", q.EndDate).Msg("DART list request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(q, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fail(q, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return c.fail(q, fmt.Sprintf("failed to decode response: %v", err))
	}

	switch lr.Status {
	case statusOK:
	case statusNoData:
		c.logger.Info().Str("corp_code", q.Identifier).Msg("No disclosures in window")
		return types.Empty[types.DisclosureRecord]("no disclosures")
	default:
		msg := lr.Message
		if msg == "" {
			msg = "unknown error"
		}
		return c.fail(q, fmt.Sprintf("status %s: %s", lr.Status, msg))
	}

	records := make([]types.DisclosureRecord, 0, len(lr.List))
	for _, it := range lr.List {
		records = append(records, types.DisclosureRecord{
			CompanyName:   it.CorpName,
			ReportTitle:   it.ReportNm,
			ReceiptNumber: it.RceptNo,
			FilerName:     it.FlrNm,
			ReceiptDate:   it.RceptDt,
			Remark:        it.Rm,
		})
	}

	c.logger.Info().Str("corp_code", q.Identifier).Int("disclosures", len(records)).Msg("Fetched disclosures")
	return types.OK(records)
}

func (c *Client) normalize(q Query) Query {
	q.Identifier = corpcode.Normalize(q.Identifier)

	if q.StartDate == "" || q.EndDate == "" {
		start, end := Window(DefaultWindowDays, c.now())
		if q.StartDate == "" {
			q.StartDate = start
		}
		if q.EndDate == "" {
			q.EndDate = end
		}
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	return q
}

func (c *Client) fail(q Query, reason string) types.Result[types.DisclosureRecord] {
	c.logger.Warn().Str("corp_code", q.Identifier).Msg("Disclosure fetch failed: " + reason)
	return types.Empty[types.DisclosureRecord](reason)
}
