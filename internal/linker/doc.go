// Package linker implements the entity reconciliation pass: contacts are
// attached to companies by normalized e-mail domain, then deals inherit
// company and primary-contact references through already-linked contacts.
//
// The two steps are ordered: deal linkage only resolves through contacts
// whose company reference is set, so contact linkage must run first within
// the same transaction. Run executes both steps inside one unit of work and
// is idempotent: only null references are ever filled, so re-running after a
// partial rollout touches nothing that is already linked.
//
// Matching is exact string equality over normalized keys. There is no fuzzy
// matching; an unmatched record is left alone and is not an error.
package linker
