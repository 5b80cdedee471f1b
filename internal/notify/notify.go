/*
Package notify reports pipeline runs and generated reports via console output and email.
*/
package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/shanehull/corpbrief/internal/types"
)

type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// RenderedMessage is an email ready to send.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

func formatBulletList(points []string) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("\t- %s\n", p))
	}
	return sb.String()
}

// ReportRun prints a per-company summary of a finished run.
func ReportRun(w io.Writer, stats types.RunStats, logPath string) {
	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintf(w, "✅ 파이프라인 완료: %d개 기업, %d개 문서, %d개 청크\n",
		len(stats.Companies), stats.TotalDocuments, stats.TotalChunks)
	fmt.Fprintln(w, "===========================================")

	for _, c := range stats.Companies {
		status := "OK"
		if !c.Success {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%-20s %-6s news=%d disclosures=%d documents=%d chunks=%d\n",
			c.Company, status, c.News, c.Disclosures, c.Documents, c.Chunks)
	}

	if len(stats.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors (%d):\n%s", len(stats.Errors), formatBulletList(stats.Errors))
	}

	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintf(w, "Duration: %.2f min. Run log saved to %s.\n", stats.DurationMinutes, logPath)
	fmt.Fprintln(w, "===========================================")
}
