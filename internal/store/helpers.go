package store

import (
	"database/sql"
	"errors"
	"time"

	"crmlink/internal/crm"
)

const (
	companyColumns = "id, name, domain, created_at, updated_at"
	contactColumns = "id, email, company_id, created_at, updated_at"
	dealColumns    = "id, title, contact_email, company_id, primary_contact_id, created_at, updated_at"
)

type rowScanner interface{ Scan(dest ...any) error }

func scanCompany(scanner rowScanner) (*crm.Company, error) {
	var (
		id         string
		name       string
		domain     sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &name, &domain, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	company := &crm.Company{
		ID:     id,
		Name:   name,
		Domain: domain.String,
	}
	company.CreatedAt, company.UpdatedAt = parseTimestamps(createdRaw, updatedRaw)
	return company, nil
}

func scanContact(scanner rowScanner) (*crm.Contact, error) {
	var (
		id         string
		email      string
		companyID  sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &email, &companyID, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	contact := &crm.Contact{
		ID:        id,
		Email:     email,
		CompanyID: companyID.String,
	}
	contact.CreatedAt, contact.UpdatedAt = parseTimestamps(createdRaw, updatedRaw)
	return contact, nil
}

func scanDeal(scanner rowScanner) (*crm.Deal, error) {
	var (
		id           string
		title        string
		contactEmail sql.NullString
		companyID    sql.NullString
		contactID    sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(&id, &title, &contactEmail, &companyID, &contactID, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	deal := &crm.Deal{
		ID:               id,
		Title:            title,
		ContactEmail:     contactEmail.String,
		CompanyID:        companyID.String,
		PrimaryContactID: contactID.String,
	}
	deal.CreatedAt, deal.UpdatedAt = parseTimestamps(createdRaw, updatedRaw)
	return deal, nil
}

func parseTimestamps(createdRaw, updatedRaw string) (time.Time, time.Time) {
	var created, updated time.Time
	if t, err := parseTimeString(createdRaw); err == nil {
		created = t
	}
	if t, err := parseTimeString(updatedRaw); err == nil {
		updated = t
	}
	return created, updated
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timestampOrNow(value time.Time) string {
	if value.IsZero() {
		value = time.Now().UTC()
	}
	return value.UTC().Format(time.RFC3339Nano)
}
