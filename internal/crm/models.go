package crm

import "time"

// Company is an organization record. Domain is the nullable join key used to
// attach contacts; an empty Domain means the company never participates in
// linking.
type Company struct {
	ID        string
	Name      string
	Domain    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDomain reports whether the company carries a usable join key.
func (c Company) HasDomain() bool {
	return NormalizeEmail(c.Domain) != ""
}

// Contact is a person record. CompanyID is empty until a linking pass (or
// upstream ingestion) resolves the contact's e-mail domain to a company.
type Contact struct {
	ID        string
	Email     string
	CompanyID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Linked reports whether the contact already references a company.
func (c Contact) Linked() bool {
	return c.CompanyID != ""
}

// Deal is an opportunity record. ContactEmail is free text captured
// independently of any Contact row; CompanyID and PrimaryContactID are empty
// until a linking pass resolves them through an already-linked contact.
type Deal struct {
	ID               string
	Title            string
	ContactEmail     string
	CompanyID        string
	PrimaryContactID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullyLinked reports whether the deal references both a company and a
// primary contact.
func (d Deal) FullyLinked() bool {
	return d.CompanyID != "" && d.PrimaryContactID != ""
}
