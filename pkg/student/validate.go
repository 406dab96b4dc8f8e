package student

import "strings"

const (
	ErrNomRequired     = "family name is required"
	ErrPostNomRequired = "middle name is required"
	ErrSexeInvalid     = "sex must be M or F"
)

// Defaults supplies placement values for rows that leave them blank.
type Defaults struct {
	PromotionID string
	AnneeID     string
}

// FromRawRow converts a raw row into a candidate. It is the only place an
// untyped row becomes typed. Row defects are recorded on the candidate and
// never returned as errors; candidates without defects start selected.
func FromRawRow(row RawRow, defaults Defaults) Candidate {
	c := Candidate{
		Line:          row.Line,
		Nom:           row.Get(KeyNom),
		PostNom:       row.Get(KeyPostNom),
		PreNom:        row.Get(KeyPreNom),
		Sexe:          normalizeSexe(row.Get(KeySexe)),
		DateNaissance: row.Get(KeyDateNaissance),
		LieuNaissance: row.Get(KeyLieuNaissance),
		Adresse:       row.Get(KeyAdresse),
		EtudiantID:    row.Get(KeyEtudiantID),
		Email:         row.Get(KeyEmail),
		Telephone:     row.Get(KeyTelephone),
		OptID:         row.Get(KeyOptID),
		Section:       row.Get(KeySection),
		Option:        row.Get(KeyOption),
		Pourcentage:   row.Get(KeyPourcentage),
		Placement: Placement{
			PromotionID: firstNonEmpty(row.Get(KeyPromotionID), defaults.PromotionID),
			AnneeID:     firstNonEmpty(row.Get(KeyAnneeID), defaults.AnneeID),
		},
	}
	c.Errors = Defects(c)
	c.HasError = len(c.Errors) > 0
	c.Selected = !c.HasError
	return c
}

// ValidateAll converts rows in order. The result has the same length as
// rows.
func ValidateAll(rows []RawRow, defaults Defaults) []Candidate {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, FromRawRow(row, defaults))
	}
	return candidates
}

// Defects returns the row-level defects of c, in a stable order.
func Defects(c Candidate) []string {
	var defects []string
	if c.Nom == "" {
		defects = append(defects, ErrNomRequired)
	}
	if c.PostNom == "" {
		defects = append(defects, ErrPostNomRequired)
	}
	if c.Sexe != Male && c.Sexe != Female {
		defects = append(defects, ErrSexeInvalid)
	}
	return defects
}

// Revalidate recomputes the defects of an edited candidate. Selection is
// left alone; the operator owns it after validation.
func (c *Candidate) Revalidate() {
	c.Sexe = normalizeSexe(c.Sexe)
	c.Errors = Defects(*c)
	c.HasError = len(c.Errors) > 0
}

func normalizeSexe(s string) string {
	switch upper := strings.ToUpper(s); upper {
	case Male, Female:
		return upper
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
