package student

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequest is the nested payload accepted by the student creation
// endpoint.
type CreateRequest struct {
	InfoPerso InfoPerso  `json:"infoPerso"`
	InfoSec   InfoSec    `json:"infoSec"`
	InfoScol  InfoScol   `json:"infoScol"`
	InfoAcad  []InfoAcad `json:"infoAcad"`
}

type InfoPerso struct {
	Nom           string `json:"nom"`
	PostNom       string `json:"postNom"`
	PreNom        string `json:"preNom,omitempty"`
	Sexe          string `json:"sexe"`
	DateNaissance string `json:"dateNaissance,omitempty"`
	LieuNaissance string `json:"lieuNaissance,omitempty"`
	Adresse       string `json:"adresse,omitempty"`
}

type InfoSec struct {
	EtudiantID string `json:"etudiantId,omitempty"`
	Email      string `json:"email,omitempty"`
	Telephone  string `json:"telephone,omitempty"`
	OptID      string `json:"optId,omitempty"`
}

type InfoScol struct {
	Section     string   `json:"section,omitempty"`
	Option      string   `json:"option,omitempty"`
	Pourcentage *float64 `json:"pourcentage,omitempty"`
}

type InfoAcad struct {
	PromotionID string `json:"promotionId"`
	AnneeID     string `json:"anneeId"`
}

// Record is a student as stored by the registrar.
type Record struct {
	ID        string     `json:"_id"`
	InfoPerso InfoPerso  `json:"infoPerso"`
	InfoSec   InfoSec    `json:"infoSec"`
	InfoScol  InfoScol   `json:"infoScol"`
	InfoAcad  []InfoAcad `json:"infoAcad"`
}

// Gender reads the stored sex loosely: "M" and "masculin" are both Male.
// It returns "" when the value is neither.
func (r Record) Gender() string {
	switch strings.ToLower(strings.TrimSpace(r.InfoPerso.Sexe)) {
	case "m", "masculin":
		return Male
	case "f", "féminin", "feminin":
		return Female
	}
	return ""
}

// PromotionID is the promotion of the most recent academic placement.
func (r Record) PromotionID() string {
	if len(r.InfoAcad) == 0 {
		return ""
	}
	return r.InfoAcad[len(r.InfoAcad)-1].PromotionID
}

// Request translates the candidate into the creation payload. Birth dates
// written dd/mm/yyyy are sent as yyyy-mm-dd; anything else is passed
// through untouched. A percentage that does not parse as a number is
// omitted.
func (c Candidate) Request() CreateRequest {
	return CreateRequest{
		InfoPerso: InfoPerso{
			Nom:           c.Nom,
			PostNom:       c.PostNom,
			PreNom:        c.PreNom,
			Sexe:          c.Sexe,
			DateNaissance: isoDate(c.DateNaissance),
			LieuNaissance: c.LieuNaissance,
			Adresse:       c.Adresse,
		},
		InfoSec: InfoSec{
			EtudiantID: c.EtudiantID,
			Email:      c.Email,
			Telephone:  c.Telephone,
			OptID:      c.OptID,
		},
		InfoScol: InfoScol{
			Section:     c.Section,
			Option:      c.Option,
			Pourcentage: parsePercentage(c.Pourcentage),
		},
		InfoAcad: []InfoAcad{{
			PromotionID: c.Placement.PromotionID,
			AnneeID:     c.Placement.AnneeID,
		}},
	}
}

const (
	DisplayDateLayout = "02/01/2006"
	isoDateLayout     = "2006-01-02"
)

func isoDate(s string) string {
	t, err := time.Parse(DisplayDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(isoDateLayout)
}

// DisplayDate renders an ISO date (or timestamp) as dd/mm/yyyy, returning
// s unchanged when it is not one.
func DisplayDate(s string) string {
	for _, layout := range []string{time.RFC3339Nano, isoDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return s
}

func parsePercentage(s string) *float64 {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
