package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crmlink/internal/crm"
)

// InsertCompany persists a new company row. Zero timestamps default to now.
func (s *Store) InsertCompany(ctx context.Context, company crm.Company) error {
	if company.ID == "" {
		return errors.New("company id is required")
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO companies (id, name, domain, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		company.ID,
		company.Name,
		nullableString(company.Domain),
		timestampOrNow(company.CreatedAt),
		timestampOrNow(company.UpdatedAt),
	); err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetCompany fetches a company by identifier. Missing rows return nil.
func (s *Store) GetCompany(ctx context.Context, id string) (*crm.Company, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	company, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

// CountCompanies returns the total number of company rows.
func (s *Store) CountCompanies(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}
