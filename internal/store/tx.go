package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"crmlink/internal/crm"
)

// Tx exposes the reads and conditional updates a linking pass performs inside
// one unit of work. All reads see the transaction's snapshot, and the UPDATE
// statements guard on IS NULL so already-set references survive untouched.
type Tx struct {
	tx  *sql.Tx
	ctx context.Context
}

// Transact runs fn inside a transaction, committing on success and rolling
// back on error. The whole linking pass rides on one call so a rejected write
// aborts everything.
func (s *Store) Transact(ctx context.Context, fn func(*Tx) error) error {
	return s.runTx(ctx, true, fn)
}

// Preview runs fn inside a transaction that is always rolled back. Used for
// dry runs: fn observes the effect of its own writes but nothing persists.
func (s *Store) Preview(ctx context.Context, fn func(*Tx) error) error {
	return s.runTx(ctx, false, fn)
}

func (s *Store) runTx(ctx context.Context, commit bool, fn func(*Tx) error) error {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&Tx{tx: tx, ctx: ctx}); err != nil {
		return err
	}

	if !commit {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CompaniesWithDomain returns every company carrying a non-empty domain,
// ordered by creation time then id so tie-breaking is deterministic.
func (t *Tx) CompaniesWithDomain() ([]crm.Company, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+companyColumns+` FROM companies
         WHERE domain IS NOT NULL AND TRIM(domain) != ''
         ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("companies with domain: %w", err)
	}
	defer rows.Close()

	var companies []crm.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *company)
	}
	return companies, rows.Err()
}

// UnlinkedContacts returns contacts with no company reference.
func (t *Tx) UnlinkedContacts() ([]crm.Contact, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE company_id IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("unlinked contacts: %w", err)
	}
	defer rows.Close()

	var contacts []crm.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

// LinkedContacts returns contacts that already reference a company, ordered
// so the earliest-created contact wins when e-mails collide.
func (t *Tx) LinkedContacts() ([]crm.Contact, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE company_id IS NOT NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("linked contacts: %w", err)
	}
	defer rows.Close()

	var contacts []crm.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

// UnlinkedDeals returns deals with no company reference and a non-empty
// captured contact e-mail.
func (t *Tx) UnlinkedDeals() ([]crm.Deal, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+dealColumns+` FROM deals
         WHERE company_id IS NULL AND contact_email IS NOT NULL AND TRIM(contact_email) != ''
         ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("unlinked deals: %w", err)
	}
	defer rows.Close()

	var deals []crm.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *deal)
	}
	return deals, rows.Err()
}

// LinkContact sets a contact's company reference if it is still null and
// refreshes updated_at. Returns whether the row was actually mutated.
func (t *Tx) LinkContact(contactID, companyID string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE contacts SET company_id = ?, updated_at = ? WHERE id = ? AND company_id IS NULL`,
		companyID,
		time.Now().UTC().Format(time.RFC3339Nano),
		contactID,
	)
	if err != nil {
		return false, fmt.Errorf("link contact %s: %w", contactID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link contact rows affected: %w", err)
	}
	return affected > 0, nil
}

// LinkDeal sets a deal's company reference (and primary contact, unless one
// is already present) if the company reference is still null. Returns whether
// the row was actually mutated.
func (t *Tx) LinkDeal(dealID, companyID, contactID string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE deals
         SET company_id = ?, primary_contact_id = COALESCE(primary_contact_id, ?), updated_at = ?
         WHERE id = ? AND company_id IS NULL`,
		companyID,
		contactID,
		time.Now().UTC().Format(time.RFC3339Nano),
		dealID,
	)
	if err != nil {
		return false, fmt.Errorf("link deal %s: %w", dealID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link deal rows affected: %w", err)
	}
	return affected > 0, nil
}
