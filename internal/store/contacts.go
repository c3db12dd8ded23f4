package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crmlink/internal/crm"
)

// InsertContact persists a new contact row. Zero timestamps default to now.
func (s *Store) InsertContact(ctx context.Context, contact crm.Contact) error {
	if contact.ID == "" {
		return errors.New("contact id is required")
	}
	if contact.Email == "" {
		return errors.New("contact email is required")
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO contacts (id, email, company_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		contact.ID,
		contact.Email,
		nullableString(contact.CompanyID),
		timestampOrNow(contact.CreatedAt),
		timestampOrNow(contact.UpdatedAt),
	); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetContact fetches a contact by identifier. Missing rows return nil.
func (s *Store) GetContact(ctx context.Context, id string) (*crm.Contact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// CountContacts returns total and linked contact row counts.
func (s *Store) CountContacts(ctx context.Context) (total, linked int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(company_id) FROM contacts`)
	if err := row.Scan(&total, &linked); err != nil {
		return 0, 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, linked, nil
}
