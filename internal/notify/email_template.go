package notify

const emailStyle = `
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "Apple SD Gothic Neo", sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #1e3a5f 0%, #37393b 100%);
      color: #ffffff;
    }

    .company {
      font-size: 22px;
      font-weight: 700;
      margin-bottom: 4px;
    }

    .subtitle {
      font-size: 14px;
      opacity: 0.9;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
      font-size: 14px;
    }

    .section-title {
      font-size: 12px;
      font-weight: 700;
      color: #6b7280;
      letter-spacing: 0.05em;
      margin-bottom: 10px;
    }

    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 13px;
    }

    th, td {
      text-align: left;
      padding: 6px 8px;
      border-bottom: 1px solid #f3f4f6;
    }

    .failed {
      color: #b91c1c;
      font-weight: 600;
    }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #9ca3af;
      text-align: center;
      background: #f9fafb;
      border-top: 1px solid #f3f4f6;
    }
  </style>`

const runHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>수집 결과</title>` + emailStyle + `
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="company">수집 결과</div>
      <div class="subtitle">{{fmtTime .StartTime}} – {{fmtTime .EndTime}} · {{printf "%.2f" .DurationMinutes}}분</div>
    </div>

    <div class="section">
      <div class="section-title">합계</div>
      문서 {{.TotalDocuments}}개 · 청크 {{.TotalChunks}}개
    </div>

    <div class="section">
      <div class="section-title">기업별</div>
      <table>
        <tr><th>기업</th><th>뉴스</th><th>공시</th><th>청크</th><th>상태</th></tr>
        {{range .Companies}}
        <tr>
          <td>{{.Company}}</td>
          <td>{{.News}}</td>
          <td>{{.Disclosures}}</td>
          <td>{{.Chunks}}</td>
          <td>{{if .Success}}OK{{else}}<span class="failed">실패</span>{{end}}</td>
        </tr>
        {{end}}
      </table>
    </div>

    {{if .Errors}}
    <div class="section">
      <div class="section-title">오류</div>
      <ul>
        {{range .Errors}}<li>{{.}}</li>{{end}}
      </ul>
    </div>
    {{end}}

    <div class="footer">corpbrief</div>
  </div>
</body>
</html>`

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>{{.Company}} 투자 리포트</title>` + emailStyle + `
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="company">{{.Company}}</div>
      <div class="subtitle">투자 리포트 · {{fmtTime .GeneratedAt}}</div>
    </div>

    <div class="section">
      <div class="section-title">1. 투자 포인트 요약</div>
      <ul>{{range .Report.Highlights}}<li>{{.}}</li>{{end}}</ul>
    </div>

    <div class="section">
      <div class="section-title">2. 실적 및 경영 현황 분석</div>
      {{.Report.Performance}}
    </div>

    <div class="section">
      <div class="section-title">3. 사업 동향 및 성장 동력</div>
      {{.Report.Momentum}}
    </div>

    <div class="section">
      <div class="section-title">4. 리스크 요인</div>
      <ul>{{range .Report.Risks}}<li>{{.}}</li>{{end}}</ul>
    </div>

    <div class="section">
      <div class="section-title">5. 종합 투자 의견</div>
      {{.Report.Opinion}}
    </div>

    <div class="footer">뉴스와 공시 데이터만을 근거로 작성되었습니다.</div>
  </div>
</body>
</html>`
