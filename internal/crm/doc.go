// Package crm defines the CRM entities the linker reconciles and the
// normalization rules used to join them.
//
// Companies, contacts, and deals are created by upstream ingestion; this
// repository only fills their nullable reference columns. The join keys are
// exact string matches over normalized values: a contact joins a company on
// the lowercased, trimmed domain part of its e-mail, and a deal joins a
// contact on its lowercased, trimmed contact e-mail.
//
// Keep normalization logic here so the store, linker, and importer agree on
// what "equal" means.
package crm
