/*
Package companies provides the target company lists a pipeline run iterates
over: built-in KOSPI presets and a JSON list file.
*/
package companies

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ternarybob/arbor"
)

const DefaultPreset = "top_10"

// DefaultTargets is used when no list can be resolved.
var DefaultTargets = []string{"삼성전자", "SK하이닉스", "NAVER", "카카오", "LG에너지솔루션"}

// kospiTop lists large KOSPI names by approximate 2024 market cap. It carries
// one duplicate ("삼성물산"), removed by Kospi.
var kospiTop = []string{
	"삼성전자", "SK하이닉스", "NAVER", "카카오", "LG에너지솔루션",
	"삼성바이오로직스", "현대자동차", "기아", "삼성SDI", "LG화학",

	"POSCO홀딩스", "삼성물산", "KB금융", "신한지주", "하나금융지주",
	"LG전자", "현대모비스", "셀트리온", "SK이노베이션", "삼성생명보험",

	"한국전력공사", "SK텔레콤", "포스코퓨처엠", "현대중공업", "삼성화재",
	"LG생활건강", "KT&G", "한화솔루션", "고려아연", "삼성에스디에스",

	"아모레퍼시픽", "SK", "두산에너빌리티", "HMM", "한국조선해양",
	"기업은행", "우리금융지주", "현대건설", "삼성전기", "LG이노텍",

	"KT", "한국가스공사", "롯데케미칼", "현대글로비스", "SK스퀘어",
	"한미반도체", "삼성중공업", "포스코인터내셔널", "두산", "현대제철",

	"LG", "한화에어로스페이스", "KB국민은행", "신한은행", "하나은행",
	"코웨이", "크래프톤", "펄어비스", "NCSoft", "넷마블",

	"카카오뱅크", "카카오페이", "컴투스", "위메이드", "넥슨게임즈",
	"삼천리", "GS", "GS칼텍스", "S-Oil", "현대오일뱅크",

	"롯데쇼핑", "롯데칠성음료", "신세계", "이마트", "홈플러스",
	"CJ제일제당", "CJ ENM", "CJ대한통운", "동원시스템즈", "오뚜기",

	"농심", "롯데제과", "한화시스템", "한화생명", "동화약품",
	"유한양행", "녹십자", "셀트리온제약", "대웅제약", "종근당",

	"삼성물산", "포스코DX", "SK머티리얼즈", "LG디스플레이", "삼성디스플레이",
	"SK바이오팜", "한미약품", "일동제약", "부광약품", "대한항공",
}

var techFocus = []string{
	"삼성전자", "SK하이닉스", "NAVER", "카카오", "LG에너지솔루션",
	"삼성바이오로직스", "삼성SDI", "LG화학", "LG전자", "셀트리온",
	"삼성에스디에스", "삼성전기", "LG이노텍", "한미반도체", "코웨이",
	"크래프톤", "펄어비스", "NCSoft", "넷마블", "컴투스",
}

var financeFocus = []string{
	"KB금융", "신한지주", "하나금융지주", "기업은행", "우리금융지주",
	"KB국민은행", "신한은행", "하나은행", "카카오뱅크", "카카오페이",
	"삼성생명보험", "삼성화재", "한화생명",
}

// Kospi returns the de-duplicated KOSPI list, capped at 100 names.
func Kospi() []string {
	seen := make(map[string]bool, len(kospiTop))
	out := make([]string, 0, len(kospiTop))
	for _, name := range kospiTop {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}

func Presets() []string {
	return []string{"top_10", "top_30", "top_50", "top_100", "tech_focus", "finance_focus"}
}

// Preset returns a named list. Unknown names fall back to the top 10 with ok false.
func Preset(name string) ([]string, bool) {
	kospi := Kospi()
	switch name {
	case "top_10":
		return kospi[:10], true
	case "top_30":
		return kospi[:30], true
	case "top_50":
		return kospi[:50], true
	case "top_100":
		return kospi, true
	case "tech_focus":
		return slices.Clone(techFocus), true
	case "finance_focus":
		return slices.Clone(financeFocus), true
	default:
		return kospi[:10], false
	}
}

type ListFile struct {
	CreatedAt      string   `json:"created_at"`
	TotalCompanies int      `json:"total_companies"`
	Companies      []string `json:"companies"`
}

func Save(path string, list []string, now time.Time) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(ListFile{
		CreatedAt:      now.Format(time.RFC3339),
		TotalCompanies: len(list),
		Companies:      list,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal company list: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write company list %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*ListFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read company list %s: %w", path, err)
	}

	var lf ListFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse company list %s: %w", path, err)
	}
	return &lf, nil
}

// Resolver picks the target list for a run: the list file when set, otherwise
// the named preset. Any failure falls back to DefaultTargets.
type Resolver struct {
	logger arbor.ILogger
}

func NewResolver(logger arbor.ILogger) *Resolver {
	return &Resolver{logger: logger}
}

func (r *Resolver) Resolve(listFile, preset string) []string {
	if listFile != "" {
		lf, err := Load(listFile)
		if err != nil {
			r.logger.Warn().Err(err).Msg("Falling back to default company list")
			return slices.Clone(DefaultTargets)
		}
		if len(lf.Companies) == 0 {
			r.logger.Warn().Str("path", listFile).Msg("Company list is empty, falling back to default company list")
			return slices.Clone(DefaultTargets)
		}
		r.logger.Info().Str("path", listFile).Int("companies", len(lf.Companies)).Str("created_at", lf.CreatedAt).Msg("Loaded company list")
		return lf.Companies
	}

	if preset == "" {
		return slices.Clone(DefaultTargets)
	}

	list, ok := Preset(preset)
	if !ok {
		r.logger.Warn().Str("preset", preset).Msg("Unknown preset, falling back to default company list")
		return slices.Clone(DefaultTargets)
	}
	return list
}
