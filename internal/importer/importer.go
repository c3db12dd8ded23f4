// Package importer loads CRM records from CSV exports into the local store.
// It stands in for the upstream ingestion pipeline: rows get generated ids
// and tidied display names, after which only the linker touches them.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"crmlink/internal/crm"
	"crmlink/internal/store"
)

// ImportCompanies reads a CSV with a header row containing at least "name"
// (optionally "domain") and inserts one company per record. Returns the
// number of rows imported.
func ImportCompanies(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
	return importRows(r, []string{"name"}, func(get func(string) string) error {
		name := strings.TrimSpace(get("name"))
		if name == "" {
			return errors.New("name is empty")
		}
		return st.InsertCompany(ctx, crm.Company{
			ID:     uuid.NewString(),
			Name:   displayName(name),
			Domain: crm.NormalizeEmail(get("domain")),
		})
	})
}

// ImportContacts reads a CSV with a header row containing at least "email"
// and inserts one contact per record. E-mails are stored as captured; the
// linker normalizes at match time.
func ImportContacts(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
	return importRows(r, []string{"email"}, func(get func(string) string) error {
		email := strings.TrimSpace(get("email"))
		if email == "" {
			return errors.New("email is empty")
		}
		return st.InsertContact(ctx, crm.Contact{
			ID:    uuid.NewString(),
			Email: email,
		})
	})
}

// ImportDeals reads a CSV with a header row containing at least "title"
// (optionally "contact_email") and inserts one deal per record.
func ImportDeals(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
	return importRows(r, []string{"title"}, func(get func(string) string) error {
		title := strings.TrimSpace(get("title"))
		if title == "" {
			return errors.New("title is empty")
		}
		return st.InsertDeal(ctx, crm.Deal{
			ID:           uuid.NewString(),
			Title:        title,
			ContactEmail: strings.TrimSpace(get("contact_email")),
		})
	})
}

func importRows(r io.Reader, required []string, insert func(get func(string) string) error) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("csv is empty")
		}
		return 0, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return 0, fmt.Errorf("missing required column %q", name)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		if blankRecord(record) {
			continue
		}

		get := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return record[idx]
		}
		if err := insert(get); err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// displayName collapses internal whitespace and title-cases names that were
// exported all-lowercase. Already-cased names pass through unchanged.
func displayName(name string) string {
	tidy := strings.Join(strings.Fields(name), " ")
	if tidy != strings.ToLower(tidy) {
		return tidy
	}
	return cases.Title(language.English).String(tidy)
}
