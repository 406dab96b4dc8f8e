package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zeebo/clingy"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/report"
)

type cmdRoster struct {
	common
	title       string
	promotionID string
	output      string
}

func (cmd *cmdRoster) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.title = stringFlag(params, "title", "Document title", "")
	cmd.promotionID = stringArg(params, "PROMOTION", "The promotion id")
	cmd.output = optStringArg(params, "OUTPUT", "Where to write the roster (default "+report.RosterFilename+")")
}

func (cmd *cmdRoster) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	promotion, err := e.store.Promotion(ctx, cmd.promotionID)
	if err != nil {
		return fmt.Errorf("failed to load promotions: %w", err)
	}
	if promotion == nil {
		return fmt.Errorf("no promotion %q", cmd.promotionID)
	}

	var annee *api.Annee
	if id := e.cfg.Import.AnneeID; id != "" {
		if annee, err = e.store.Annee(ctx, id); err != nil {
			return fmt.Errorf("failed to load academic years: %w", err)
		}
	}

	students, err := e.store.Students(ctx, promotion.ID)
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}

	f, err := report.Roster(students, report.RosterOptions{
		Title:     cmd.title,
		Promotion: promotion,
		Annee:     annee,
		Now:       time.Now(),
	})
	if err != nil {
		return err
	}

	output := cmd.output
	if output == "" {
		output = report.RosterFilename
	}
	if err := report.Save(f, output); err != nil {
		return err
	}

	fancy.Finfof(stdout, "%s: %s\n", promotion.Label(), report.Stats(students))
	fancy.Fsuccessf(stdout, "Roster written to %s\n", output)
	return nil
}
