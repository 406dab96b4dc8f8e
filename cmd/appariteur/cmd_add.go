package main

import (
	"context"
	"errors"

	"github.com/zeebo/clingy"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/student"
)

type cmdAdd struct {
	common
	form student.Form
}

func (cmd *cmdAdd) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	f := &cmd.form
	f.Nom = stringFlag(params, "nom", "Family name (required)", "")
	f.PostNom = stringFlag(params, "post-nom", "Middle name (required)", "")
	f.PreNom = stringFlag(params, "pre-nom", "First name", "")
	f.Sexe = stringFlag(params, "sexe", "Sex, M or F (required)", "")
	f.DateNaissance = stringFlag(params, "date-naissance", "Birth date, DD/MM/YYYY", "")
	f.LieuNaissance = stringFlag(params, "lieu-naissance", "Birth place", "")
	f.Adresse = stringFlag(params, "adresse", "Postal address", "")
	f.EtudiantID = stringFlag(params, "matricule", "Student number", "")
	f.Email = stringFlag(params, "email", "Email address", "")
	f.Telephone = stringFlag(params, "telephone", "Phone number", "")
	f.OptID = stringFlag(params, "opt-id", "Option id", "")
	f.Section = stringFlag(params, "section", "Secondary school section", "")
	f.Option = stringFlag(params, "option", "Secondary school option", "")
	f.Pourcentage = stringFlag(params, "pourcentage", "Diploma percentage, 0 to 100", "")
}

func (cmd *cmdAdd) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	form := cmd.form
	form.PromotionID = e.cfg.Import.PromotionID
	form.AnneeID = e.cfg.Import.AnneeID

	req, err := student.ValidateForm(form)
	if err != nil {
		var verr *student.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				fancy.Ferrorf(stdout, "%s: %s\n", f.Field, f.Error)
			}
		}
		return err
	}

	id, err := e.client.CreateStudent(ctx, req)
	if err != nil {
		return err
	}
	e.log.Info("Student created", zap.String("id", id), zap.String("promotion", form.PromotionID))
	fancy.Fsuccessf(stdout, "Created %s (%s)\n", form.Candidate().FullName(), id)

	if form.PromotionID != "" {
		return refreshRosters(ctx, stdout, e.store, []string{form.PromotionID})
	}
	return nil
}

type cmdRemove struct {
	common
	id  string
	yes bool
}

func (cmd *cmdRemove) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.yes = toggleFlag(params, "yes", "Remove without asking for confirmation", false)
	cmd.id = stringArg(params, "STUDENT", "The student id")
}

func (cmd *cmdRemove) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	if !cmd.yes {
		if err := promptConfirm("Remove student " + cmd.id); err != nil {
			return err
		}
	}

	if err := e.client.DeleteStudent(ctx, cmd.id); err != nil {
		return err
	}
	e.log.Info("Student removed", zap.String("id", cmd.id))
	fancy.Fsuccessf(stdout, "Removed student %s\n", cmd.id)

	// The student's promotion is unknown here, so every cached roster goes.
	e.store.InvalidateAll()
	return refreshRosters(ctx, stdout, e.store, []string{""})
}
