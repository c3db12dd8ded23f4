package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"crmlink/internal/config"
	"crmlink/internal/crm"
	"crmlink/internal/store"
)

// MustOpenStore opens a store against the test config and closes it when the
// test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// SeedCompany inserts a company with a generated id and returns it.
func SeedCompany(t testing.TB, st *store.Store, name, domain string, createdAt time.Time) crm.Company {
	t.Helper()

	company := crm.Company{
		ID:        uuid.NewString(),
		Name:      name,
		Domain:    domain,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := st.InsertCompany(context.Background(), company); err != nil {
		t.Fatalf("seed company %q: %v", name, err)
	}
	return company
}

// SeedContact inserts a contact with a generated id and returns it. An empty
// companyID leaves the contact unlinked.
func SeedContact(t testing.TB, st *store.Store, email, companyID string, createdAt time.Time) crm.Contact {
	t.Helper()

	contact := crm.Contact{
		ID:        uuid.NewString(),
		Email:     email,
		CompanyID: companyID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := st.InsertContact(context.Background(), contact); err != nil {
		t.Fatalf("seed contact %q: %v", email, err)
	}
	return contact
}

// SeedDeal inserts a deal with a generated id and returns it.
func SeedDeal(t testing.TB, st *store.Store, title, contactEmail string, createdAt time.Time) crm.Deal {
	t.Helper()

	deal := crm.Deal{
		ID:           uuid.NewString(),
		Title:        title,
		ContactEmail: contactEmail,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := st.InsertDeal(context.Background(), deal); err != nil {
		t.Fatalf("seed deal %q: %v", title, err)
	}
	return deal
}
