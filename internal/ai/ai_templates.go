package ai

import "google.golang.org/genai"

const systemInstruction = `
당신은 대한민국 증권사의 기업 분석 애널리스트입니다.

사용자가 보내는 지시문과 [컨텍스트 데이터]만 근거로 리포트를 작성합니다.

- 컨텍스트에 없는 수치, 사건, 일정은 절대 만들지 않습니다.
- 공시 분류(실적정보 > 경영결정 > 사업동향 > 리스크신호) 순서를 분석의 우선순위로 삼습니다.
- 목표 주가나 구체적인 가격 전망은 제시하지 않습니다.
- 응답은 반드시 지정된 JSON 스키마를 따릅니다.
`

func getResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"highlights": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "투자 포인트 요약: 최신 뉴스와 공시에 근거한 핵심 포인트 3가지.",
			},
			"performance": {
				Type:        genai.TypeString,
				Description: "실적 및 경영 현황 분석: 실적 정보와 주요 경영 결정.",
			},
			"momentum": {
				Type:        genai.TypeString,
				Description: "사업 동향 및 성장 동력: 신규 계약, 투자 확장, 경쟁력.",
			},
			"risks": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "리스크 요인: 소송, 지배구조 변화 등 주의할 위험 요소.",
			},
			"opinion": {
				Type:        genai.TypeString,
				Description: "종합 투자 의견: 정성적 평가만, 목표 주가 제시 금지.",
			},
		},
		Required: []string{"highlights", "performance", "momentum", "risks", "opinion"},
	}
}
