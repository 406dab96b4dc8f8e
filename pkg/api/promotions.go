package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type Promotion struct {
	ID          string `json:"_id"`
	SectionID   string `json:"sectionId"`
	Niveau      string `json:"niveau"`
	Mention     string `json:"mention"`
	Orientation string `json:"orientation"`
	Statut      string `json:"statut"`
}

// Label is the human readable promotion name.
func (p Promotion) Label() string {
	niveau := p.Niveau
	if niveau == "" {
		niveau = "Non définie"
	}
	return strings.Join(strings.Fields(niveau+" "+p.Mention+" "+p.Orientation), " ")
}

// Annee is an academic year.
type Annee struct {
	ID     string `json:"_id"`
	Slogan string `json:"slogan"`
	Debut  int    `json:"debut,omitempty"`
	Fin    int    `json:"fin,omitempty"`
}

func (a Annee) Label() string {
	if a.Slogan != "" {
		return a.Slogan
	}
	return a.ID
}

func (cli *Client) Promotions(ctx context.Context) ([]Promotion, error) {
	var promotions []Promotion
	if err := cli.do(ctx, http.MethodGet, "/promotions", nil, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

func (cli *Client) PromotionsBySection(ctx context.Context, sectionID string) ([]Promotion, error) {
	var promotions []Promotion
	if err := cli.do(ctx, http.MethodGet, "/promotions/section/"+url.PathEscape(sectionID), nil, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

func (cli *Client) Annees(ctx context.Context) ([]Annee, error) {
	var annees []Annee
	if err := cli.do(ctx, http.MethodGet, "/annees", nil, &annees); err != nil {
		return nil, err
	}
	return annees, nil
}
