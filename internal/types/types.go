package types

import (
	"time"
)

type CompanyRecord struct {
	Name       string
	Identifier string
}

type NewsItem struct {
	Title       string
	Description string
}

type DisclosureRecord struct {
	CompanyName   string
	ReportTitle   string
	ReceiptNumber string
	FilerName     string
	ReceiptDate   string
	Remark        string
	Category      string
	Tier          Tier
}

// Tier orders classified disclosures. Lower values are reported first.
type Tier int

const (
	TierPrimary Tier = iota
	TierSecondary
	TierTertiary
	TierRisk
	TierUncategorized
)

// Tiers lists the classification tiers in priority order.
var Tiers = []Tier{TierPrimary, TierSecondary, TierTertiary, TierRisk}

var allTiers = []Tier{TierPrimary, TierSecondary, TierTertiary, TierRisk, TierUncategorized}

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	case TierRisk:
		return "risk"
	case TierUncategorized:
		return "uncategorized"
	default:
		return "unknown"
	}
}

// ParseTier maps a tier name back to its Tier.
func ParseTier(s string) (Tier, bool) {
	for _, t := range allTiers {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

type Buckets struct {
	Primary       []DisclosureRecord
	Secondary     []DisclosureRecord
	Tertiary      []DisclosureRecord
	Risk          []DisclosureRecord
	Uncategorized []DisclosureRecord
}

func (b *Buckets) Tier(t Tier) []DisclosureRecord {
	switch t {
	case TierPrimary:
		return b.Primary
	case TierSecondary:
		return b.Secondary
	case TierTertiary:
		return b.Tertiary
	case TierRisk:
		return b.Risk
	case TierUncategorized:
		return b.Uncategorized
	}
	return nil
}

func (b *Buckets) Add(rec DisclosureRecord) {
	switch rec.Tier {
	case TierPrimary:
		b.Primary = append(b.Primary, rec)
	case TierSecondary:
		b.Secondary = append(b.Secondary, rec)
	case TierTertiary:
		b.Tertiary = append(b.Tertiary, rec)
	case TierRisk:
		b.Risk = append(b.Risk, rec)
	default:
		b.Uncategorized = append(b.Uncategorized, rec)
	}
}

// Total counts every record held, including uncategorized ones.
func (b *Buckets) Total() int {
	return len(b.Primary) + len(b.Secondary) + len(b.Tertiary) + len(b.Risk) + len(b.Uncategorized)
}

// All returns every record in tier order.
func (b *Buckets) All() []DisclosureRecord {
	all := make([]DisclosureRecord, 0, b.Total())
	for _, t := range allTiers {
		all = append(all, b.Tier(t)...)
	}
	return all
}

// Result carries fetched items, or the reason there are none.
type Result[T any] struct {
	Items  []T
	Reason string
}

func OK[T any](items []T) Result[T] {
	return Result[T]{Items: items}
}

func Empty[T any](reason string) Result[T] {
	return Result[T]{Reason: reason}
}

func (r Result[T]) OK() bool {
	return r.Reason == ""
}

type CompanyResult struct {
	Company     string `json:"company"`
	News        int    `json:"news"`
	Disclosures int    `json:"disclosures"`
	Documents   int    `json:"documents"`
	Chunks      int    `json:"chunks"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

type RunStats struct {
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	DurationMinutes float64         `json:"duration_minutes"`
	Companies       []CompanyResult `json:"companies_processed"`
	TotalDocuments  int             `json:"total_documents"`
	TotalChunks     int             `json:"total_chunks"`
	Errors          []string        `json:"errors"`
}
