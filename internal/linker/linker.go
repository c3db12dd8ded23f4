package linker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"crmlink/internal/crm"
	"crmlink/internal/logging"
	"crmlink/internal/store"
)

// TieBreak selects the winning company when several share a normalized domain.
type TieBreak string

const (
	// TieBreakEarliestCreated picks the oldest company; ids break remaining ties.
	TieBreakEarliestCreated TieBreak = "earliest-created"
	// TieBreakLowestID picks the lexicographically smallest company id.
	TieBreakLowestID TieBreak = "lowest-id"
)

// ParseTieBreak converts a configuration string into a known TieBreak.
func ParseTieBreak(value string) (TieBreak, bool) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(value))) {
	case TieBreakEarliestCreated:
		return TieBreakEarliestCreated, true
	case TieBreakLowestID:
		return TieBreakLowestID, true
	default:
		return "", false
	}
}

// Linker performs the reconciliation pass against a store.
type Linker struct {
	store    *store.Store
	logger   *slog.Logger
	tieBreak TieBreak
}

// Result aggregates what a single pass examined and mutated.
type Result struct {
	ContactsExamined int `json:"contacts_examined"`
	ContactsLinked   int `json:"contacts_linked"`
	DealsExamined    int `json:"deals_examined"`
	DealsLinked      int `json:"deals_linked"`
	AmbiguousDomains int `json:"ambiguous_domains"`
}

// New constructs a Linker. A nil logger falls back to a no-op logger.
func New(st *store.Store, logger *slog.Logger, tieBreak TieBreak) (*Linker, error) {
	if st == nil {
		return nil, errors.New("linker requires a store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	switch tieBreak {
	case TieBreakEarliestCreated, TieBreakLowestID:
	default:
		return nil, fmt.Errorf("unknown tie break %q", tieBreak)
	}
	return &Linker{
		store:    st,
		logger:   logger.With(slog.String(logging.FieldComponent, "linker")),
		tieBreak: tieBreak,
	}, nil
}

// Run executes one linking pass inside a single transaction. A store error
// aborts the whole pass; nothing partial is committed.
func (l *Linker) Run(ctx context.Context) (Result, error) {
	return l.runPass(ctx, false)
}

// DryRun executes the same pass but rolls the transaction back, reporting
// what a real run would change.
func (l *Linker) DryRun(ctx context.Context) (Result, error) {
	return l.runPass(ctx, true)
}

func (l *Linker) runPass(ctx context.Context, dry bool) (Result, error) {
	ctx = logging.ContextWithRunID(ctx, uuid.NewString())
	log := logging.WithContext(ctx, l.logger)

	var result Result
	pass := func(tx *store.Tx) error {
		var err error
		result, err = l.pass(tx, log)
		return err
	}

	var err error
	if dry {
		err = l.store.Preview(ctx, pass)
	} else {
		err = l.store.Transact(ctx, pass)
	}
	if err != nil {
		return Result{}, fmt.Errorf("linking pass: %w", err)
	}

	log.Info("linking pass complete",
		slog.Bool("dry_run", dry),
		slog.Int("contacts_linked", result.ContactsLinked),
		slog.Int("deals_linked", result.DealsLinked),
		slog.Int("ambiguous_domains", result.AmbiguousDomains),
	)
	return result, nil
}

// pass runs both linking steps in order. Deal linkage depends on contact
// linkage having already happened inside the same transaction.
func (l *Linker) pass(tx *store.Tx, log *slog.Logger) (Result, error) {
	var result Result
	if err := l.linkContactsToCompanies(tx, log, &result); err != nil {
		return Result{}, err
	}
	if err := l.linkDealsToContacts(tx, log, &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// linkContactsToCompanies fills company references on contacts whose e-mail
// domain exactly matches a company domain.
func (l *Linker) linkContactsToCompanies(tx *store.Tx, log *slog.Logger, result *Result) error {
	companies, err := tx.CompaniesWithDomain()
	if err != nil {
		return err
	}
	choice := l.companiesByDomain(companies, log, result)

	contacts, err := tx.UnlinkedContacts()
	if err != nil {
		return err
	}
	result.ContactsExamined = len(contacts)

	for _, contact := range contacts {
		domain := crm.EmailDomain(contact.Email)
		if domain == "" {
			continue
		}
		company, ok := choice[domain]
		if !ok {
			continue
		}
		linked, err := tx.LinkContact(contact.ID, company.ID)
		if err != nil {
			return err
		}
		if linked {
			result.ContactsLinked++
			log.Debug("contact linked",
				slog.String(logging.FieldEntity, "contact"),
				slog.String("contact_id", contact.ID),
				slog.String("company_id", company.ID),
				slog.String("domain", domain),
			)
		}
	}
	return nil
}

// linkDealsToContacts fills company and primary-contact references on deals
// whose captured e-mail matches an already-linked contact.
func (l *Linker) linkDealsToContacts(tx *store.Tx, log *slog.Logger, result *Result) error {
	linkedContacts, err := tx.LinkedContacts()
	if err != nil {
		return err
	}
	byEmail := make(map[string]crm.Contact, len(linkedContacts))
	for _, contact := range linkedContacts {
		email := crm.NormalizeEmail(contact.Email)
		if email == "" {
			continue
		}
		// Rows arrive ordered by created_at then id; first one wins.
		if _, ok := byEmail[email]; !ok {
			byEmail[email] = contact
		}
	}

	deals, err := tx.UnlinkedDeals()
	if err != nil {
		return err
	}
	result.DealsExamined = len(deals)

	for _, deal := range deals {
		contact, ok := byEmail[crm.NormalizeEmail(deal.ContactEmail)]
		if !ok {
			continue
		}
		linked, err := tx.LinkDeal(deal.ID, contact.CompanyID, contact.ID)
		if err != nil {
			return err
		}
		if linked {
			result.DealsLinked++
			log.Debug("deal linked",
				slog.String(logging.FieldEntity, "deal"),
				slog.String("deal_id", deal.ID),
				slog.String("company_id", contact.CompanyID),
				slog.String("contact_id", contact.ID),
			)
		}
	}
	return nil
}

// companiesByDomain resolves each normalized domain to a single company,
// applying the configured tie-break when several collide.
func (l *Linker) companiesByDomain(companies []crm.Company, log *slog.Logger, result *Result) map[string]crm.Company {
	grouped := make(map[string][]crm.Company)
	for _, company := range companies {
		domain := crm.NormalizeEmail(company.Domain)
		if domain == "" {
			continue
		}
		grouped[domain] = append(grouped[domain], company)
	}

	choice := make(map[string]crm.Company, len(grouped))
	for domain, candidates := range grouped {
		winner := l.pickCompany(candidates)
		choice[domain] = winner
		if len(candidates) > 1 {
			result.AmbiguousDomains++
			log.Warn("multiple companies share a domain",
				slog.String("domain", domain),
				slog.Int("candidates", len(candidates)),
				slog.String("chosen_company_id", winner.ID),
			)
		}
	}
	return choice
}

// pickCompany applies the tie-break. Candidates arrive ordered by created_at
// then id, so earliest-created is simply the first element.
func (l *Linker) pickCompany(candidates []crm.Company) crm.Company {
	if l.tieBreak == TieBreakLowestID {
		winner := candidates[0]
		for _, candidate := range candidates[1:] {
			if candidate.ID < winner.ID {
				winner = candidate
			}
		}
		return winner
	}
	return candidates[0]
}
