package main

import (
	"context"
	"fmt"

	"github.com/zeebo/clingy"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/fancy"
)

type cmdPromotions struct {
	common
	section string
}

func (cmd *cmdPromotions) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.section = stringFlag(params, "section", "Only list the promotions of this section", "")
}

func (cmd *cmdPromotions) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	var promotions []api.Promotion
	if cmd.section != "" {
		promotions, err = e.client.PromotionsBySection(ctx, cmd.section)
	} else {
		promotions, err = e.store.Promotions(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load promotions: %w", err)
	}

	annees, err := e.store.Annees(ctx)
	if err != nil {
		return fmt.Errorf("failed to load academic years: %w", err)
	}

	fancy.Finfoln(stdout, "Promotions:")
	for _, p := range promotions {
		fancy.Finfof(stdout, "  %s  %-40s %s\n", p.ID, p.Label(), p.Statut)
	}
	fancy.Finfoln(stdout, "Academic years:")
	for _, a := range annees {
		fancy.Finfof(stdout, "  %s  %s\n", a.ID, a.Label())
	}
	return nil
}
