package main

import (
	"context"
	"fmt"

	"github.com/zeebo/clingy"

	"github.com/inbtp/appariteur/pkg/fancy"
)

type cmdOverview struct {
	common
}

func (cmd *cmdOverview) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
}

func (cmd *cmdOverview) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	overview, err := e.store.Overview(ctx)
	if err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}

	fancy.Finfof(stdout, "Promotions..................: %d\n", overview.Promotions)
	fancy.Finfof(stdout, "Students....................: %d\n", overview.Students)
	fancy.Finfof(stdout, "Men.........................: %d\n", overview.Men)
	fancy.Finfof(stdout, "Women.......................: %d\n", overview.Women)
	fancy.Finfoln(stdout)
	for _, pc := range overview.ByPromotion {
		level := fancy.Info
		if pc.Students == 0 {
			level = fancy.Warn
		}
		fancy.Fprintf(stdout, level, "%6d  %s (%s)\n", pc.Students, pc.Promotion.Label(), pc.Promotion.ID)
	}
	return nil
}
