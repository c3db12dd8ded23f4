package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crmlink/internal/crm"
)

// InsertDeal persists a new deal row. Zero timestamps default to now.
func (s *Store) InsertDeal(ctx context.Context, deal crm.Deal) error {
	if deal.ID == "" {
		return errors.New("deal id is required")
	}
	if deal.Title == "" {
		return errors.New("deal title is required")
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO deals (id, title, contact_email, company_id, primary_contact_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		deal.ID,
		deal.Title,
		nullableString(deal.ContactEmail),
		nullableString(deal.CompanyID),
		nullableString(deal.PrimaryContactID),
		timestampOrNow(deal.CreatedAt),
		timestampOrNow(deal.UpdatedAt),
	); err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetDeal fetches a deal by identifier. Missing rows return nil.
func (s *Store) GetDeal(ctx context.Context, id string) (*crm.Deal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)
	deal, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return deal, nil
}

// CoverageCounts aggregates deal linkage state for the coverage report.
type CoverageCounts struct {
	TotalDeals  int
	WithCompany int
	WithContact int
	FullyLinked int
}

// DealCoverage returns deal linkage counts in a single aggregate read.
func (s *Store) DealCoverage(ctx context.Context) (CoverageCounts, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COUNT(company_id),
               COUNT(primary_contact_id),
               COALESCE(SUM(CASE WHEN company_id IS NOT NULL AND primary_contact_id IS NOT NULL THEN 1 ELSE 0 END), 0)
        FROM deals`)
	var counts CoverageCounts
	if err := row.Scan(&counts.TotalDeals, &counts.WithCompany, &counts.WithContact, &counts.FullyLinked); err != nil {
		return CoverageCounts{}, fmt.Errorf("deal coverage: %w", err)
	}
	return counts, nil
}
