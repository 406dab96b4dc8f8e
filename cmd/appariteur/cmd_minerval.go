package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/clingy"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/store"
	"github.com/inbtp/appariteur/pkg/student"
)

type cmdMinervalShow struct {
	common
	promotionID string
}

func (cmd *cmdMinervalShow) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.promotionID = stringArg(params, "PROMOTION", "The promotion id")
}

func (cmd *cmdMinervalShow) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	m, err := e.store.Minerval(ctx, cmd.promotionID)
	if err != nil {
		return err
	}
	if m == nil {
		fancy.Fwarnf(stdout, "Promotion %s has no minerval\n", cmd.promotionID)
		return nil
	}
	printMinerval(stdout, m)
	return nil
}

func printMinerval(w io.Writer, m *api.Minerval) {
	fancy.Finfof(w, "Minerval %s (promotion %s, year %s)\n", m.ID, m.PromotionID, m.AnneeID)
	fancy.Finfof(w, "Amount......................: %s %s\n", m.Montant.StringFixed(2), m.Devise)
	for _, t := range m.Tranches {
		fancy.Finfof(w, "  %-24s %14s %s  due %s  (%s)\n", t.Designation, t.Montant.StringFixed(2), m.Devise, student.DisplayDate(t.DateFin), t.ID)
	}

	scheduled := m.Scheduled()
	level := fancy.Info
	if !scheduled.Equal(m.Montant) {
		level = fancy.Warn
	}
	fancy.Fprintf(w, level, "Scheduled...................: %s %s\n", scheduled.StringFixed(2), m.Devise)
}

type cmdMinervalCreate struct {
	common
	promotionID string
	montant     decimal.Decimal
	devise      string
}

func (cmd *cmdMinervalCreate) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.devise = stringFlag(params, "devise", "Currency", api.DefaultDevise)
	cmd.promotionID = stringArg(params, "PROMOTION", "The promotion id")
	cmd.montant = decimalArg(params, "AMOUNT", "The yearly amount")
}

func (cmd *cmdMinervalCreate) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	if !cmd.montant.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	if e.cfg.Import.AnneeID == "" {
		return fmt.Errorf("an academic year is required (--annee or import.annee_id)")
	}

	m, err := e.client.CreateMinerval(ctx, api.NewMinerval{
		PromotionID: cmd.promotionID,
		AnneeID:     e.cfg.Import.AnneeID,
		Montant:     cmd.montant,
		Devise:      cmd.devise,
	})
	if err != nil {
		return err
	}
	e.store.Invalidate(store.MinervalKey(cmd.promotionID))
	e.log.Info("Minerval created", zap.String("id", m.ID), zap.String("promotion", cmd.promotionID))

	printMinerval(stdout, m)
	return nil
}

type cmdTrancheAdd struct {
	common
	minervalID  string
	montant     decimal.Decimal
	designation string
	dateFin     time.Time
}

func (cmd *cmdTrancheAdd) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.designation = stringFlag(params, "designation", "Installment name", "Tranche")
	cmd.dateFin = dateFlag(params, "due", "Due date, DD/MM/YYYY")
	cmd.minervalID = stringArg(params, "MINERVAL", "The minerval id")
	cmd.montant = decimalArg(params, "AMOUNT", "The installment amount")
}

func (cmd *cmdTrancheAdd) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	if !cmd.montant.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if cmd.dateFin.IsZero() {
		return fmt.Errorf("a due date is required (--due)")
	}

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	err = e.client.CreateTranche(ctx, cmd.minervalID, api.NewTranche{
		Designation: cmd.designation,
		Montant:     cmd.montant,
		DateFin:     cmd.dateFin,
	})
	if err != nil {
		return err
	}
	e.store.InvalidateAll()

	fancy.Fsuccessf(stdout, "Added %s of %s to minerval %s\n", cmd.designation, cmd.montant.StringFixed(2), cmd.minervalID)
	return nil
}

type cmdTrancheRemove struct {
	common
	minervalID string
	trancheID  string
	yes        bool
}

func (cmd *cmdTrancheRemove) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.yes = toggleFlag(params, "yes", "Remove without asking for confirmation", false)
	cmd.minervalID = stringArg(params, "MINERVAL", "The minerval id")
	cmd.trancheID = stringArg(params, "TRANCHE", "The installment id")
}

func (cmd *cmdTrancheRemove) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	if !cmd.yes {
		if err := promptConfirm(fmt.Sprintf("Remove installment %s", cmd.trancheID)); err != nil {
			return err
		}
	}

	if err := e.client.DeleteTranche(ctx, cmd.minervalID, cmd.trancheID); err != nil {
		return err
	}
	e.store.InvalidateAll()

	fancy.Fsuccessf(stdout, "Removed installment %s\n", cmd.trancheID)
	return nil
}
