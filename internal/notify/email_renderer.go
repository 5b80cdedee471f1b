package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shanehull/corpbrief/internal/ai"
	"github.com/shanehull/corpbrief/internal/types"
)

const timeLayout = "2006-01-02 15:04"

// HTMLEmailRenderer renders run summaries and reports as HTML emails with a
// plain text fallback.
type HTMLEmailRenderer struct {
	run    *template.Template
	report *template.Template
}

func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	funcs := template.FuncMap{
		"fmtTime": func(t time.Time) string { return t.Format(timeLayout) },
	}
	return &HTMLEmailRenderer{
		run:    template.Must(template.New("run").Funcs(funcs).Parse(runHTMLTemplate)),
		report: template.Must(template.New("report").Funcs(funcs).Parse(reportHTMLTemplate)),
	}
}

type reportData struct {
	Company     string
	GeneratedAt time.Time
	Report      *ai.Report
}

func (r *HTMLEmailRenderer) RenderRun(stats types.RunStats) (*RenderedMessage, error) {
	failed := 0
	for _, c := range stats.Companies {
		if !c.Success {
			failed++
		}
	}
	subject := fmt.Sprintf("수집 완료: %d개 기업, %d개 청크", len(stats.Companies), stats.TotalChunks)
	if failed > 0 {
		subject += fmt.Sprintf(" (실패 %d)", failed)
	}

	var htmlBuf bytes.Buffer
	if err := r.run.Execute(&htmlBuf, stats); err != nil {
		return nil, fmt.Errorf("failed to render run template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderRunText(stats),
		HTML:    htmlBuf.String(),
	}, nil
}

func (r *HTMLEmailRenderer) RenderReport(company string, report *ai.Report, generatedAt time.Time) (*RenderedMessage, error) {
	if report == nil {
		return nil, fmt.Errorf("no report for %s", company)
	}

	var htmlBuf bytes.Buffer
	data := reportData{Company: company, GeneratedAt: generatedAt, Report: report}
	if err := r.report.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}

	return &RenderedMessage{
		Subject: fmt.Sprintf("%s 투자 리포트 (%s)", company, generatedAt.Format("2006-01-02")),
		Text:    report.Markdown(company),
		HTML:    htmlBuf.String(),
	}, nil
}

func renderRunText(stats types.RunStats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run %s - %s\n", stats.StartTime.Format(timeLayout), stats.EndTime.Format(timeLayout)))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Documents: %d\nChunks: %d\nDuration: %.2f min\n\n",
		stats.TotalDocuments, stats.TotalChunks, stats.DurationMinutes))

	sb.WriteString("COMPANIES\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	for _, c := range stats.Companies {
		mark := "✓"
		if !c.Success {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s: news %d, disclosures %d, chunks %d\n", mark, c.Company, c.News, c.Disclosures, c.Chunks))
	}

	if len(stats.Errors) > 0 {
		sb.WriteString("\nERRORS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, e := range stats.Errors {
			sb.WriteString(fmt.Sprintf("• %s\n", e))
		}
	}

	return sb.String()
}
