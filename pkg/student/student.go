// Package student defines the candidate student records that flow through
// the roster import and their conversions from untyped rows and into the
// registrar API shape.
package student

import (
	"strings"
)

// Column keys recognised in a roster. They double as the template headers.
const (
	KeyNom           = "nom"
	KeyPostNom       = "postNom"
	KeyPreNom        = "preNom"
	KeySexe          = "sexe"
	KeyDateNaissance = "dateNaissance"
	KeyLieuNaissance = "lieuNaissance"
	KeyAdresse       = "adresse"
	KeyEtudiantID    = "etudiantId"
	KeyEmail         = "email"
	KeyTelephone     = "telephone"
	KeyOptID         = "optId"
	KeySection       = "section"
	KeyOption        = "option"
	KeyPourcentage   = "pourcentage"
	KeyPromotionID   = "promotionId"
	KeyAnneeID       = "anneeId"
)

// Keys is the fixed 16-column template layout, in column order.
var Keys = []string{
	KeyNom, KeyPostNom, KeyPreNom, KeySexe, KeyDateNaissance, KeyLieuNaissance,
	KeyAdresse, KeyEtudiantID, KeyEmail, KeyTelephone, KeyOptID,
	KeySection, KeyOption, KeyPourcentage, KeyPromotionID, KeyAnneeID,
}

const (
	Male   = "M"
	Female = "F"
)

// RawRow is one decoded source row before validation.
type RawRow struct {
	// Line is the 1-based line (CSV) or row (spreadsheet) number in the
	// source file.
	Line int

	// Fields maps normalized header keys to cell text.
	Fields map[string]string
}

// Get returns the trimmed value for key, or "" if absent.
func (r RawRow) Get(key string) string {
	return strings.TrimSpace(r.Fields[key])
}

// Placement ties a student to a promotion within an academic year.
type Placement struct {
	PromotionID string
	AnneeID     string
}

// Candidate is a typed, validated roster row awaiting curation and commit.
type Candidate struct {
	// TempID identifies the candidate within its import session. It is
	// zero until the candidate joins a session.
	TempID uint64

	// Line is the source line the candidate was read from.
	Line int

	Nom           string
	PostNom       string
	PreNom        string
	Sexe          string
	DateNaissance string
	LieuNaissance string
	Adresse       string

	EtudiantID string
	Email      string
	Telephone  string
	OptID      string

	Section     string
	Option      string
	Pourcentage string

	Placement Placement

	// Selected is whether the candidate will be committed.
	Selected bool

	// HasError is true when Errors is non-empty.
	HasError bool

	// Errors lists the row defects found at validation time.
	Errors []string
}

// FullName returns "Nom PostNom PreNom" without empty parts.
func (c Candidate) FullName() string {
	var parts []string
	for _, s := range []string{c.Nom, c.PostNom, c.PreNom} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy of the candidate that shares no memory with c.
func (c Candidate) Clone() Candidate {
	c.Errors = append([]string(nil), c.Errors...)
	return c
}

// Field returns the value of the column named by key, or "" for an
// unknown key.
func (c Candidate) Field(key string) string {
	switch key {
	case KeyNom:
		return c.Nom
	case KeyPostNom:
		return c.PostNom
	case KeyPreNom:
		return c.PreNom
	case KeySexe:
		return c.Sexe
	case KeyDateNaissance:
		return c.DateNaissance
	case KeyLieuNaissance:
		return c.LieuNaissance
	case KeyAdresse:
		return c.Adresse
	case KeyEtudiantID:
		return c.EtudiantID
	case KeyEmail:
		return c.Email
	case KeyTelephone:
		return c.Telephone
	case KeyOptID:
		return c.OptID
	case KeySection:
		return c.Section
	case KeyOption:
		return c.Option
	case KeyPourcentage:
		return c.Pourcentage
	case KeyPromotionID:
		return c.Placement.PromotionID
	case KeyAnneeID:
		return c.Placement.AnneeID
	}
	return ""
}
