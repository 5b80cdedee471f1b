/*
Package classify buckets disclosures into priority tiers by matching keywords
against their report titles.
*/
package classify

import (
	"strings"

	"github.com/shanehull/corpbrief/internal/types"
)

type Category struct {
	Name     string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type TierRule struct {
	Tier       types.Tier
	Categories []Category
}

type Options struct {
	// KeepUnclassified routes titles that match nothing into Buckets.Uncategorized
	// instead of dropping them.
	KeepUnclassified bool
}

type Classifier struct {
	rules []TierRule
	opts  Options
}

// New builds a classifier. Rules are always evaluated in tier priority order,
// whatever order they are given in.
func New(rules []TierRule, opts Options) *Classifier {
	ordered := make([]TierRule, 0, len(rules))
	for _, tier := range types.Tiers {
		for _, r := range rules {
			if r.Tier != tier {
				continue
			}
			ordered = append(ordered, lowerRule(r))
		}
	}
	return &Classifier{rules: ordered, opts: opts}
}

func Default(opts Options) *Classifier {
	return New(DefaultRules(), opts)
}

func lowerRule(r TierRule) TierRule {
	out := TierRule{Tier: r.Tier, Categories: make([]Category, len(r.Categories))}
	for i, c := range r.Categories {
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if kw = strings.ToLower(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		out.Categories[i] = Category{Name: c.Name, Keywords: kws}
	}
	return out
}

// Classify returns classified copies of records; the input is not modified.
func (c *Classifier) Classify(records []types.DisclosureRecord) types.Buckets {
	var buckets types.Buckets

	for _, rec := range records {
		tier, category, ok := c.Match(rec.ReportTitle)
		if !ok {
			if !c.opts.KeepUnclassified {
				continue
			}
			tier, category = types.TierUncategorized, ""
		}

		rec.Tier = tier
		rec.Category = category
		buckets.Add(rec)
	}

	return buckets
}

// Match reports the tier and category of the first keyword found in title.
func (c *Classifier) Match(title string) (types.Tier, string, bool) {
	lower := strings.ToLower(title)
	for _, rule := range c.rules {
		for _, cat := range rule.Categories {
			for _, kw := range cat.Keywords {
				if strings.Contains(lower, kw) {
					return rule.Tier, cat.Name, true
				}
			}
		}
	}
	return types.TierUncategorized, "", false
}

func DefaultRules() []TierRule {
	return []TierRule{
		{
			Tier: types.TierPrimary,
			Categories: []Category{
				{Name: "정기보고서", Keywords: []string{"사업보고서", "분기보고서", "반기보고서"}},
				{Name: "실적공시", Keywords: []string{"영업실적", "잠정실적", "연결실적", "별도실적"}},
			},
		},
		{
			Tier: types.TierSecondary,
			Categories: []Category{
				{Name: "M&A_투자", Keywords: []string{"타법인주식", "타법인 주식", "출자증권", "지분취득", "지분처분"}},
				{Name: "증자", Keywords: []string{"유상증자", "무상증자", "신주발행"}},
				{Name: "자사주", Keywords: []string{"자기주식취득", "자기주식처분", "자사주매입"}},
			},
		},
		{
			Tier: types.TierTertiary,
			Categories: []Category{
				{Name: "계약수주", Keywords: []string{"단일판매", "공급계약", "계약체결", "수주"}},
				{Name: "투자확장", Keywords: []string{"신규시설투자", "설비투자", "투자결정"}},
			},
		},
		{
			Tier: types.TierRisk,
			Categories: []Category{
				{Name: "지배구조", Keywords: []string{"최대주주변경", "주주변경"}},
				{Name: "법적리스크", Keywords: []string{"소송제기", "소송신청", "분쟁"}},
			},
		},
	}
}
