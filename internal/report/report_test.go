package report

import (
	"strings"
	"testing"

	"github.com/shanehull/corpbrief/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-05-15", FormatDate("20240515"))
	assert.Equal(t, "2024-5-1", FormatDate("2024-5-1"), "eight characters but not all digits")
	assert.Equal(t, "2024-05", FormatDate("2024-05"))
	assert.Equal(t, "2024051a", FormatDate("2024051a"))
	assert.Equal(t, "", FormatDate(""))
}

func TestFormatNews_FiltersByCompany(t *testing.T) {
	c := NewComposer()
	items := []types.NewsItem{
		{Title: "삼성전자, 2분기 실적 발표", Description: "반도체 회복"},
		{Title: "코스피 마감", Description: "삼성전자 강세"},
		{Title: "환율 동향", Description: "달러 약세"},
	}

	got := c.FormatNews("삼성전자", items)
	assert.Equal(t, "### 삼성전자 최신 뉴스\n- 삼성전자, 2분기 실적 발표\n- 코스피 마감\n", got)

	assert.Empty(t, c.FormatNews("카카오", items), "no matching headlines omits the section")
}

func TestFormatPriorityDisclosures(t *testing.T) {
	c := NewComposer()
	buckets := types.Buckets{
		Primary: []types.DisclosureRecord{
			{ReportTitle: "분기보고서 (2024.03)", ReceiptDate: "20240515", Category: "정기보고서", Tier: types.TierPrimary},
		},
		Risk: []types.DisclosureRecord{
			{ReportTitle: "소송등의제기", ReceiptDate: "20240601", Category: "법적리스크", Tier: types.TierRisk},
		},
	}

	got := c.FormatPriorityDisclosures("삼성전자", buckets)
	want := "### 삼성전자 중요 공시 분석\n" +
		"\n#### 🏆 핵심 실적 정보\n" +
		"- **분기보고서 (2024.03)** (2024-05-15)\n" +
		"  ✓ 분류: 정기보고서\n" +
		"\n#### ⚠️ 주의 사항\n" +
		"- **소송등의제기** (2024-06-01)\n" +
		"  ✓ 리스크 요인: 법적리스크\n"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "사업 동향", "empty tiers produce no sub-section")
}

func TestComposeContext_NoDisclosures(t *testing.T) {
	c := NewComposer()
	got := c.ComposeContext("NAVER", nil, types.Buckets{})

	assert.Equal(t, 1, strings.Count(got, "주요 공시가 없습니다"))
	assert.Contains(t, got, "- 최근 90일간 주요 공시가 없습니다.")
	assert.NotContains(t, got, "####")
	assert.NotContains(t, got, "최신 뉴스")
	assert.Contains(t, got, "- 뉴스: 최신 5건 중 관련 뉴스")
}

func TestComposeContext_NewsBeforeDisclosures(t *testing.T) {
	c := &Composer{NewsCount: 10, LookbackDays: 30}
	got := c.ComposeContext("카카오",
		[]types.NewsItem{{Title: "카카오 신사업", Description: ""}},
		types.Buckets{Tertiary: []types.DisclosureRecord{
			{ReportTitle: "단일판매ㆍ공급계약체결", ReceiptDate: "20240610", Category: "계약수주"},
		}},
	)

	newsAt := strings.Index(got, "### 카카오 최신 뉴스")
	disclosuresAt := strings.Index(got, "### 카카오 중요 공시 분석")
	assert.GreaterOrEqual(t, newsAt, 0)
	assert.Greater(t, disclosuresAt, newsAt)
	assert.Contains(t, got, "#### 📈 사업 동향")
	assert.Contains(t, got, "- 공시: 최근 30일 중요 공시만 선별 분석")
}

func TestComposePrompt(t *testing.T) {
	c := NewComposer()
	got := c.ComposePrompt("SK하이닉스", "CONTEXT-BODY 100%")

	assert.Contains(t, got, "'SK하이닉스'에 대한 투자 리포트")
	assert.Contains(t, got, "컨텍스트에 없는 내용은 절대 지어내지 마세요")
	for _, heading := range []string{
		"## 1. **투자 포인트 요약",
		"## 2. **실적 및 경영 현황 분석**",
		"## 3. **사업 동향 및 성장 동력**",
		"## 4. **리스크 요인**",
		"## 5. **종합 투자 의견**",
	} {
		assert.Contains(t, got, heading)
	}

	contextAt := strings.Index(got, "CONTEXT-BODY 100%")
	guardAt := strings.Index(got, guardrail)
	assert.Greater(t, contextAt, strings.Index(got, "# 컨텍스트 데이터"))
	assert.Greater(t, guardAt, contextAt, "guardrail follows the context")
}

func TestFormatDisclosures(t *testing.T) {
	c := NewComposer()

	assert.Equal(t, "### LG화학 최근 공시 정보\n- 최근 30일간 공시된 정보가 없습니다.", c.FormatDisclosures("LG화학", nil))

	got := c.FormatDisclosures("LG화학", []types.DisclosureRecord{
		{ReportTitle: "주요사항보고서", ReceiptDate: "20240102", FilerName: "LG화학", Remark: "유"},
		{ReportTitle: "", ReceiptDate: "2024", FilerName: ""},
	})
	want := "### LG화학 최근 공시 정보\n" +
		"\n**1. 주요사항보고서**\n" +
		"   - 제출일: 2024-01-02\n" +
		"   - 제출인: LG화학\n" +
		"   - 비고: 유\n" +
		"\n**2. 제목 없음**\n" +
		"   - 제출일: 2024\n" +
		"   - 제출인: 제출인 미상\n"
	assert.Equal(t, want, got)
}
