package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// DefaultDevise is the currency used when none is given.
const DefaultDevise = "CDF"

// Minerval is the tuition fee record of a promotion for one academic year.
type Minerval struct {
	ID          string          `json:"_id"`
	PromotionID string          `json:"promotionId"`
	AnneeID     string          `json:"anneeId"`
	Montant     decimal.Decimal `json:"montant"`
	Devise      string          `json:"devise"`
	Tranches    []Tranche       `json:"tranches"`
}

// Tranche is one installment of a minerval.
type Tranche struct {
	ID          string          `json:"_id,omitempty"`
	Designation string          `json:"designation"`
	Montant     decimal.Decimal `json:"montant"`
	DateFin     string          `json:"date_fin"`
}

// Scheduled sums the installment amounts.
func (m Minerval) Scheduled() decimal.Decimal {
	total := decimal.Zero
	for _, t := range m.Tranches {
		total = total.Add(t.Montant)
	}
	return total
}

type NewMinerval struct {
	PromotionID string
	AnneeID     string
	Montant     decimal.Decimal
	Devise      string
	Tranches    []NewTranche
}

type NewTranche struct {
	Designation string
	Montant     decimal.Decimal
	DateFin     time.Time
}

// amounts go over the wire as JSON numbers
type trancheBody struct {
	Designation string      `json:"designation"`
	Montant     json.Number `json:"montant"`
	DateFin     string      `json:"date_fin"`
}

func (t NewTranche) body() trancheBody {
	return trancheBody{
		Designation: t.Designation,
		Montant:     json.Number(t.Montant.String()),
		DateFin:     t.DateFin.UTC().Format(time.RFC3339),
	}
}

// Minerval returns the minerval of a promotion, or nil if it has none.
func (cli *Client) Minerval(ctx context.Context, promotionID string) (*Minerval, error) {
	var m Minerval
	err := cli.do(ctx, http.MethodGet, "/minervals/promotion/"+url.PathEscape(promotionID), nil, &m)
	switch {
	case IsNotFound(err):
		return nil, nil
	case err != nil:
		return nil, err
	case m.ID == "":
		return nil, nil
	}
	return &m, nil
}

func (cli *Client) CreateMinerval(ctx context.Context, m NewMinerval) (*Minerval, error) {
	type minervalBody struct {
		PromotionID string        `json:"promotionId"`
		AnneeID     string        `json:"anneeId"`
		Montant     json.Number   `json:"montant"`
		Devise      string        `json:"devise"`
		Tranches    []trancheBody `json:"tranches"`
	}

	if m.Devise == "" {
		m.Devise = DefaultDevise
	}
	body := minervalBody{
		PromotionID: m.PromotionID,
		AnneeID:     m.AnneeID,
		Montant:     json.Number(m.Montant.String()),
		Devise:      m.Devise,
		Tranches:    make([]trancheBody, 0, len(m.Tranches)),
	}
	for _, t := range m.Tranches {
		body.Tranches = append(body.Tranches, t.body())
	}

	created := new(Minerval)
	if err := cli.do(ctx, http.MethodPost, "/minervals", body, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (cli *Client) CreateTranche(ctx context.Context, minervalID string, t NewTranche) error {
	return cli.do(ctx, http.MethodPost, "/minervals/"+url.PathEscape(minervalID)+"/tranches", t.body(), nil)
}

func (cli *Client) DeleteTranche(ctx context.Context, minervalID, trancheID string) error {
	return cli.do(ctx, http.MethodDelete, "/minervals/"+url.PathEscape(minervalID)+"/tranches/"+url.PathEscape(trancheID), nil, nil)
}
