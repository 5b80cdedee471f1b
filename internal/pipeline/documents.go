package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/shanehull/corpbrief/internal/chunk"
	"github.com/shanehull/corpbrief/internal/types"
)

const (
	sourceNews       = "news"
	sourceDisclosure = "disclosure"
)

func mentions(company string, item types.NewsItem) bool {
	return strings.Contains(item.Title, company) || strings.Contains(item.Description, company)
}

// buildDocuments renders one document per news item and per classified
// disclosure. Document IDs are stable across runs so re-collection upserts.
func (d *Driver) buildDocuments(company string, news []types.NewsItem, buckets types.Buckets) []chunk.Document {
	collected := d.deps.Now().Format(time.RFC3339)
	docs := make([]chunk.Document, 0, len(news)+buckets.Total())

	for _, item := range news {
		text := fmt.Sprintf("제목: %s\n내용: %s\n\n기업: %s\n출처: 네이버 뉴스\n수집일시: %s",
			item.Title, item.Description, company, collected)
		docs = append(docs, chunk.Document{
			ID:   chunk.Hash(strings.Join([]string{company, sourceNews, item.Title, item.Description}, "|"))[:16],
			Text: text,
			Metadata: map[string]string{
				"company":         company,
				"source":          sourceNews,
				"title":           item.Title,
				"collection_date": collected,
				"data_type":       "news_article",
			},
		})
	}

	for _, rec := range buckets.All() {
		id := rec.ReceiptNumber
		if id == "" {
			id = chunk.Hash(strings.Join([]string{company, sourceDisclosure, rec.ReportTitle, rec.ReceiptDate}, "|"))[:16]
		}
		priority := rec.Tier.String()
		text := fmt.Sprintf("공시명: %s\n접수일자: %s\n중요도: %s\n\n기업: %s\n출처: DART 공시시스템\n수집일시: %s",
			rec.ReportTitle, rec.ReceiptDate, priority, company, collected)
		docs = append(docs, chunk.Document{
			ID:   "dart-" + id,
			Text: text,
			Metadata: map[string]string{
				"company":         company,
				"source":          sourceDisclosure,
				"priority":        priority,
				"category":        rec.Category,
				"report_name":     rec.ReportTitle,
				"receipt_date":    rec.ReceiptDate,
				"collection_date": collected,
				"data_type":       "disclosure_info",
			},
		})
	}

	return docs
}
