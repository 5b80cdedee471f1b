/*
Package report turns news and classified disclosures into the context block
and the analyst prompt handed to the report model.
*/
package report

import (
	"fmt"
	"strings"

	"github.com/shanehull/corpbrief/internal/types"
)

const (
	DefaultNewsCount    = 5
	DefaultLookbackDays = 90
)

type section struct {
	heading string
	label   string
}

var sections = map[types.Tier]section{
	types.TierPrimary:       {heading: "🏆 핵심 실적 정보", label: "분류"},
	types.TierSecondary:     {heading: "🚀 주요 경영 결정", label: "분류"},
	types.TierTertiary:      {heading: "📈 사업 동향", label: "분류"},
	types.TierRisk:          {heading: "⚠️ 주의 사항", label: "리스크 요인"},
	types.TierUncategorized: {heading: "📋 기타 공시", label: "분류"},
}

var sectionOrder = []types.Tier{
	types.TierPrimary,
	types.TierSecondary,
	types.TierTertiary,
	types.TierRisk,
	types.TierUncategorized,
}

// Composer renders report text. NewsCount and LookbackDays only describe the
// inputs in the rendered footer and placeholder; they do not filter anything.
type Composer struct {
	NewsCount    int
	LookbackDays int
}

func NewComposer() *Composer {
	return &Composer{NewsCount: DefaultNewsCount, LookbackDays: DefaultLookbackDays}
}

// FilterHeadlines keeps the titles of items that mention company in the title
// or description.
func FilterHeadlines(company string, items []types.NewsItem) []string {
	var headlines []string
	for _, item := range items {
		if strings.Contains(item.Title, company) || strings.Contains(item.Description, company) {
			headlines = append(headlines, item.Title)
		}
	}
	return headlines
}

func (c *Composer) FormatNews(company string, items []types.NewsItem) string {
	headlines := FilterHeadlines(company, items)
	if len(headlines) == 0 {
		return ""
	}
	return fmt.Sprintf("### %s 최신 뉴스\n- %s\n", company, strings.Join(headlines, "\n- "))
}

// FormatPriorityDisclosures renders one sub-section per non-empty tier, or a
// single placeholder line when every tier is empty.
func (c *Composer) FormatPriorityDisclosures(company string, buckets types.Buckets) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s 중요 공시 분석\n", company)

	for _, tier := range sectionOrder {
		records := buckets.Tier(tier)
		if len(records) == 0 {
			continue
		}

		s := sections[tier]
		fmt.Fprintf(&sb, "\n#### %s\n", s.heading)
		for _, rec := range records {
			category := rec.Category
			if category == "" {
				category = "미분류"
			}
			fmt.Fprintf(&sb, "- **%s** (%s)\n", rec.ReportTitle, FormatDate(rec.ReceiptDate))
			fmt.Fprintf(&sb, "  ✓ %s: %s\n", s.label, category)
		}
	}

	if buckets.Total() == 0 {
		fmt.Fprintf(&sb, "\n- 최근 %d일간 주요 공시가 없습니다.\n", c.LookbackDays)
	}

	return sb.String()
}

// ComposeContext joins the news section, the disclosure sections and a footer
// describing how the data was selected.
func (c *Composer) ComposeContext(company string, news []types.NewsItem, buckets types.Buckets) string {
	return fmt.Sprintf(contextTemplate,
		c.FormatNews(company, news),
		c.FormatPriorityDisclosures(company, buckets),
		c.NewsCount,
		c.LookbackDays,
	)
}

func (c *Composer) ComposePrompt(company, context string) string {
	return fmt.Sprintf(promptTemplate, company, context)
}

// FormatDisclosures renders disclosures as a flat numbered list with filer and
// remark, without classification.
func (c *Composer) FormatDisclosures(company string, records []types.DisclosureRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("### %s 최근 공시 정보\n- 최근 30일간 공시된 정보가 없습니다.", company)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s 최근 공시 정보\n", company)

	for i, rec := range records {
		title := rec.ReportTitle
		if title == "" {
			title = "제목 없음"
		}
		filer := rec.FilerName
		if filer == "" {
			filer = "제출인 미상"
		}

		fmt.Fprintf(&sb, "\n**%d. %s**\n", i+1, title)
		fmt.Fprintf(&sb, "   - 제출일: %s\n", FormatDate(rec.ReceiptDate))
		fmt.Fprintf(&sb, "   - 제출인: %s\n", filer)
		if rec.Remark != "" {
			fmt.Fprintf(&sb, "   - 비고: %s\n", rec.Remark)
		}
	}

	return sb.String()
}

// FormatDate turns YYYYMMDD into YYYY-MM-DD. Anything else is returned as is.
func FormatDate(s string) string {
	if len(s) != 8 || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}
