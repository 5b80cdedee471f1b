package report

const contextTemplate = `
%s

%s

---
※ 분석 기준:
- 뉴스: 최신 %d건 중 관련 뉴스
- 공시: 최근 %d일 중요 공시만 선별 분석
- 분류: 실적정보 > 경영결정 > 사업동향 > 리스크신호
`

const guardrail = "※ 주의사항: 위 데이터에 포함되지 않은 정보는 절대 사용하지 마세요."

const promptTemplate = `
# 지시문: 당신은 대한민국 최고의 증권사 애널리스트입니다. 아래 [컨텍스트 데이터]만을 사용하여, '%s'에 대한 투자 리포트를 다음 [리포트 형식]에 맞춰 작성해 주세요. 컨텍스트에 없는 내용은 절대 지어내지 마세요.

# 리포트 형식
## 1. **투자 포인트 요약 (Investment Highlights)**
- 최신 뉴스와 공시를 바탕으로 한 핵심 투자 포인트 3가지

## 2. **실적 및 경영 현황 분석**
- 🏆 최근 실적 정보 분석 (분기/반기 보고서, 영업실적 기준)
- 🚀 주요 경영 결정 분석 (M&A, 증자, 자사주 등)

## 3. **사업 동향 및 성장 동력**
- 📈 신규 계약, 투자 확장 등 미래 성장 요인 분석
- 시장에서의 경쟁력과 포지셔닝

## 4. **리스크 요인**
- ⚠️ 주의해야 할 위험 요소 (소송, 지배구조 변화 등)
- 단기/중기적 우려 사항

## 5. **종합 투자 의견**
- 위 분석을 종합한 투자 관점에서의 최종 의견
- 목표 주가나 구체적 수치 제시 금지 (정성적 평가만)

# 컨텍스트 데이터
%s

---
` + guardrail + "\n"
