package linker

import (
	"context"
	"fmt"
	"math"
)

// Coverage summarizes how many deals carry company and contact references.
// Percentages are rounded to one decimal place; an empty deal table reports
// zero across the board.
type Coverage struct {
	TotalDeals     int     `json:"total_deals"`
	WithCompany    int     `json:"with_company"`
	WithContact    int     `json:"with_contact"`
	FullyLinked    int     `json:"fully_linked"`
	CompanyPct     float64 `json:"company_pct"`
	ContactPct     float64 `json:"contact_pct"`
	FullyLinkedPct float64 `json:"fully_linked_pct"`
}

// Report produces the deal coverage summary. Pure read; no mutation.
func (l *Linker) Report(ctx context.Context) (Coverage, error) {
	counts, err := l.store.DealCoverage(ctx)
	if err != nil {
		return Coverage{}, fmt.Errorf("coverage report: %w", err)
	}

	coverage := Coverage{
		TotalDeals:  counts.TotalDeals,
		WithCompany: counts.WithCompany,
		WithContact: counts.WithContact,
		FullyLinked: counts.FullyLinked,
	}
	coverage.CompanyPct = percentage(counts.WithCompany, counts.TotalDeals)
	coverage.ContactPct = percentage(counts.WithContact, counts.TotalDeals)
	coverage.FullyLinkedPct = percentage(counts.FullyLinked, counts.TotalDeals)
	return coverage, nil
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
