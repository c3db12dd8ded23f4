package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"crmlink/internal/crm"
	"crmlink/internal/store"
	"crmlink/internal/testsupport"
)

func crmCompany(id, name, domain string) crm.Company {
	return crm.Company{ID: id, Name: name, Domain: domain}
}

func crmContact(id, email string) crm.Contact {
	return crm.Contact{ID: id, Email: email}
}

func crmDeal(id, title string) crm.Deal {
	return crm.Deal{ID: id, Title: title}
}

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	company := testsupport.SeedCompany(t, st, "Acme", "acme.com", time.Now().UTC())

	fetched, err := st.GetCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("GetCompany failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Acme" || fetched.Domain != "acme.com" {
		t.Fatalf("unexpected company: %#v", fetched)
	}
}

func TestOpenIsIdempotentAcrossConnections(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCompany(t, st, "Acme", "acme.com", time.Now().UTC())
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.CountCompanies(context.Background())
	if err != nil {
		t.Fatalf("CountCompanies failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 company after reopen, got %d", count)
	}
}

func TestInsertValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.InsertCompany(ctx, crmCompany("", "Acme", "acme.com")); err == nil {
		t.Fatal("expected error for company without id")
	}
	if err := st.InsertContact(ctx, crmContact("c1", "")); err == nil {
		t.Fatal("expected error for contact without email")
	}
	if err := st.InsertDeal(ctx, crmDeal("d1", "")); err == nil {
		t.Fatal("expected error for deal without title")
	}
}

func TestTransactCommitsAndPreviewRollsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	company := testsupport.SeedCompany(t, st, "Acme", "acme.com", now)
	contact := testsupport.SeedContact(t, st, "a@acme.com", "", now)

	if err := st.Preview(ctx, func(tx *store.Tx) error {
		linked, err := tx.LinkContact(contact.ID, company.ID)
		if err != nil {
			return err
		}
		if !linked {
			t.Fatal("expected preview link to report a mutation")
		}
		return nil
	}); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	afterPreview, err := st.GetContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if afterPreview.CompanyID != "" {
		t.Fatalf("preview must not persist, got company %q", afterPreview.CompanyID)
	}

	if err := st.Transact(ctx, func(tx *store.Tx) error {
		_, err := tx.LinkContact(contact.ID, company.ID)
		return err
	}); err != nil {
		t.Fatalf("Transact failed: %v", err)
	}

	afterCommit, err := st.GetContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if afterCommit.CompanyID != company.ID {
		t.Fatalf("expected committed link to %q, got %q", company.ID, afterCommit.CompanyID)
	}
	if !afterCommit.UpdatedAt.After(contact.UpdatedAt) {
		t.Fatal("expected updated_at refresh on link")
	}
}

func TestTransactRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	company := testsupport.SeedCompany(t, st, "Acme", "acme.com", now)
	contact := testsupport.SeedContact(t, st, "a@acme.com", "", now)

	boom := errors.New("boom")
	err := st.Transact(ctx, func(tx *store.Tx) error {
		if _, err := tx.LinkContact(contact.ID, company.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	after, err := st.GetContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if after.CompanyID != "" {
		t.Fatal("failed pass must not leave partial linkage")
	}
}

func TestLinkContactSkipsAlreadyLinkedRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	first := testsupport.SeedCompany(t, st, "Acme", "acme.com", now)
	second := testsupport.SeedCompany(t, st, "Other", "other.com", now)
	contact := testsupport.SeedContact(t, st, "a@acme.com", first.ID, now)

	if err := st.Transact(ctx, func(tx *store.Tx) error {
		linked, err := tx.LinkContact(contact.ID, second.ID)
		if err != nil {
			return err
		}
		if linked {
			t.Fatal("already-linked contact must not be mutated")
		}
		return nil
	}); err != nil {
		t.Fatalf("Transact failed: %v", err)
	}

	after, err := st.GetContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if after.CompanyID != first.ID {
		t.Fatalf("company reference overwritten: %q", after.CompanyID)
	}
}

func TestLinkDealPreservesExistingPrimaryContact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	company := testsupport.SeedCompany(t, st, "Acme", "acme.com", now)
	existing := testsupport.SeedContact(t, st, "keep@acme.com", company.ID, now)
	other := testsupport.SeedContact(t, st, "other@acme.com", company.ID, now)

	deal := crmDeal("", "Big Deal")
	deal.ContactEmail = "keep@acme.com"
	deal.PrimaryContactID = existing.ID
	deal.ID = "deal-1"
	if err := st.InsertDeal(ctx, deal); err != nil {
		t.Fatalf("InsertDeal failed: %v", err)
	}

	if err := st.Transact(ctx, func(tx *store.Tx) error {
		linked, err := tx.LinkDeal(deal.ID, company.ID, other.ID)
		if err != nil {
			return err
		}
		if !linked {
			t.Fatal("expected company fill on deal with null company")
		}
		return nil
	}); err != nil {
		t.Fatalf("Transact failed: %v", err)
	}

	after, err := st.GetDeal(ctx, deal.ID)
	if err != nil {
		t.Fatalf("GetDeal failed: %v", err)
	}
	if after.CompanyID != company.ID {
		t.Fatalf("expected company %q, got %q", company.ID, after.CompanyID)
	}
	if after.PrimaryContactID != existing.ID {
		t.Fatalf("primary contact overwritten: %q", after.PrimaryContactID)
	}
}

func TestTxPredicateQueries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testsupport.SeedCompany(t, st, "Acme", "acme.com", base)
	testsupport.SeedCompany(t, st, "NoDomain", "", base)
	testsupport.SeedCompany(t, st, "Blank", "   ", base)

	linkedCompany := testsupport.SeedCompany(t, st, "Linked Co", "linked.com", base)
	testsupport.SeedContact(t, st, "free@x.com", "", base)
	testsupport.SeedContact(t, st, "bound@linked.com", linkedCompany.ID, base)

	testsupport.SeedDeal(t, st, "No Email", "", base)
	testsupport.SeedDeal(t, st, "Has Email", "free@x.com", base)

	if err := st.Transact(ctx, func(tx *store.Tx) error {
		companies, err := tx.CompaniesWithDomain()
		if err != nil {
			return err
		}
		if len(companies) != 2 {
			t.Fatalf("expected 2 companies with domains, got %d", len(companies))
		}

		unlinked, err := tx.UnlinkedContacts()
		if err != nil {
			return err
		}
		if len(unlinked) != 1 || unlinked[0].Email != "free@x.com" {
			t.Fatalf("unexpected unlinked contacts: %#v", unlinked)
		}

		linked, err := tx.LinkedContacts()
		if err != nil {
			return err
		}
		if len(linked) != 1 || linked[0].CompanyID != linkedCompany.ID {
			t.Fatalf("unexpected linked contacts: %#v", linked)
		}

		deals, err := tx.UnlinkedDeals()
		if err != nil {
			return err
		}
		if len(deals) != 1 || deals[0].Title != "Has Email" {
			t.Fatalf("unexpected unlinked deals: %#v", deals)
		}
		return nil
	}); err != nil {
		t.Fatalf("Transact failed: %v", err)
	}
}

func TestDealCoverageCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	counts, err := st.DealCoverage(ctx)
	if err != nil {
		t.Fatalf("DealCoverage failed: %v", err)
	}
	if counts.TotalDeals != 0 || counts.FullyLinked != 0 {
		t.Fatalf("expected zero counts on empty store: %#v", counts)
	}

	now := time.Now().UTC()
	company := testsupport.SeedCompany(t, st, "Acme", "acme.com", now)
	contact := testsupport.SeedContact(t, st, "a@acme.com", company.ID, now)

	deal := crmDeal("full", "Full")
	deal.CompanyID = company.ID
	deal.PrimaryContactID = contact.ID
	if err := st.InsertDeal(ctx, deal); err != nil {
		t.Fatalf("InsertDeal failed: %v", err)
	}

	partial := crmDeal("partial", "Partial")
	partial.CompanyID = company.ID
	if err := st.InsertDeal(ctx, partial); err != nil {
		t.Fatalf("InsertDeal failed: %v", err)
	}

	testsupport.SeedDeal(t, st, "Bare", "x@y.com", now)

	counts, err = st.DealCoverage(ctx)
	if err != nil {
		t.Fatalf("DealCoverage failed: %v", err)
	}
	if counts.TotalDeals != 3 || counts.WithCompany != 2 || counts.WithContact != 1 || counts.FullyLinked != 1 {
		t.Fatalf("unexpected coverage counts: %#v", counts)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedCompany(t, st, "Acme", "acme.com", time.Now().UTC())

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("unexpected health flags: %#v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables: %v", health.MissingTables)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if health.Companies != 1 {
		t.Fatalf("expected 1 company, got %d", health.Companies)
	}
}
