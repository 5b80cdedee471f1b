package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("id", "secret", arbor.NewLogger(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>삼성전자</b>, 신제품 공개", "삼성전자, 신제품 공개"},
		{"&quot;반도체&quot; 회복 &amp; 성장", `"반도체" 회복 & 성장`},
		{"plain text", "plain text"},
		{"  <i>x</i>  ", "x"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.in))
		})
	}
}

func TestFetchNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "secret", r.Header.Get("X-Naver-Client-Secret"))

		q := r.URL.Query()
		assert.Equal(t, "삼성전자", q.Get("query"))
		assert.Equal(t, "2", q.Get("display"))
		assert.Equal(t, "1", q.Get("start"))
		assert.Equal(t, "date", q.Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 3,
			"items": []map[string]string{
				{"title": "<b>삼성전자</b> 실적", "description": "영업이익 &lt;증가&gt;"},
				{"title": "두번째", "description": "설명"},
				{"title": "세번째", "description": "초과분"},
			},
		})
	})

	res := client.FetchNews(context.Background(), "삼성전자", 2)

	require.True(t, res.OK())
	require.Len(t, res.Items, 2, "never more than count")
	assert.Equal(t, "삼성전자 실적", res.Items[0].Title)
	assert.Equal(t, "영업이익 <증가>", res.Items[0].Description)
}

func TestFetchNews_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantReason: "authentication failed"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantReason: "rate limited"},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantReason: "unexpected status 500"},
		{name: "bad json", status: http.StatusOK, body: "{", wantReason: "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			res := client.FetchNews(context.Background(), "카카오", 5)
			assert.False(t, res.OK())
			assert.Empty(t, res.Items)
			assert.Contains(t, res.Reason, tt.wantReason)
		})
	}
}

func TestFetchNews_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("id", "secret", arbor.NewLogger(), WithBaseURL(srv.URL))
	res := client.FetchNews(context.Background(), "NAVER", 5)

	assert.False(t, res.OK())
	assert.Contains(t, res.Reason, "request failed")
}

func TestFetchNews_ClampsCount(t *testing.T) {
	var display string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		display = r.URL.Query().Get("display")
		w.Write([]byte(`{"total":0,"items":[]}`))
	})

	res := client.FetchNews(context.Background(), "NAVER", 500)
	assert.True(t, res.OK())
	assert.Equal(t, "100", display)

	client.FetchNews(context.Background(), "NAVER", 0)
	assert.Equal(t, "5", display)
}

func TestWithRateLimit(t *testing.T) {
	c := NewClient("id", "secret", arbor.NewLogger(), WithRateLimit(3))
	assert.Equal(t, rate.Limit(3), c.limiter.Limit())

	c = NewClient("id", "secret", arbor.NewLogger(), WithRateLimit(0))
	assert.Equal(t, rate.Limit(DefaultRateLimit), c.limiter.Limit())
}
