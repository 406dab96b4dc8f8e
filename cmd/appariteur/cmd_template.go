package main

import (
	"context"
	"time"

	"github.com/zeebo/clingy"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/report"
)

type cmdTemplate struct {
	common
	output string
}

func (cmd *cmdTemplate) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.output = optStringArg(params, "OUTPUT", "Where to write the template (default "+report.TemplateFilename+")")
}

func (cmd *cmdTemplate) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	// The template is still useful offline, labelled with bare ids.
	promotion, annee, err := e.placement(ctx)
	if err != nil {
		e.log.Warn("Unable to resolve placement labels", zap.Error(err))
		promotion, annee = nil, nil
		if id := e.cfg.Import.PromotionID; id != "" {
			promotion = &api.Promotion{ID: id}
		}
		if id := e.cfg.Import.AnneeID; id != "" {
			annee = &api.Annee{ID: id}
		}
	}

	f, err := report.Template(report.TemplateOptions{
		Promotion: promotion,
		Annee:     annee,
		Now:       time.Now(),
	})
	if err != nil {
		return err
	}

	output := cmd.output
	if output == "" {
		output = report.TemplateFilename
	}
	if err := report.Save(f, output); err != nil {
		return err
	}

	fancy.Fsuccessf(stdout, "Template written to %s\n", output)
	return nil
}
