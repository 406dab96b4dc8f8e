// Package report renders the spreadsheets handed to operators: the import
// result report, the blank import template and the promotion roster.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"

	"github.com/inbtp/appariteur/pkg/commit"
)

// ResultHeaders are the columns of the result table.
var ResultHeaders = []string{
	"Statut", "ID Base de données", "Nom", "Post-nom", "Prénom",
	"Sexe", "Email", "Téléphone", "Détails/Erreur",
}

const (
	resultSheet     = "Résultats"
	resultTitle     = "RÉSULTATS DE L'IMPORTATION DES ÉTUDIANTS"
	resultColWidth  = 25
	timestampLayout = "02/01/2006 15:04"

	placeholderID      = "-"
	placeholderSuccess = "Importé avec succès"
	placeholderSkipped = "Non soumis (import interrompu)"
)

// ResultFilename returns the report file name stamped with the date of t.
func ResultFilename(t time.Time) string {
	return "resultats-import-" + t.Format("2006-01-02") + ".xlsx"
}

// Result renders the batch result. The timestamp is when the import ran.
func Result(result *commit.BatchResult, timestamp time.Time) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return nil, errs.Wrap(err)
	}
	if err := setDocProps(f, resultTitle, timestamp); err != nil {
		return nil, err
	}

	w := newSheetWriter(f, resultSheet, len(ResultHeaders))
	w.letterhead()
	w.banner(resultTitle, "title", 28)
	w.blank()
	w.banner("Date d'importation: "+timestamp.Format(timestampLayout), "info", 22)

	summary := fmt.Sprintf("Total: %d | Succès: %d | Échecs: %d", result.Total, result.Succeeded, result.Failed)
	if result.NotAttempted > 0 {
		summary += fmt.Sprintf(" | Non soumis: %d", result.NotAttempted)
	}
	w.banner(summary, "info", 22)
	w.blank()

	w.values(toAny(ResultHeaders), "header", 24)
	for _, o := range result.Outcomes {
		w.values(resultRow(o), outcomeStyle(o.Status), 0)
	}
	w.uniformWidth(resultColWidth)

	if w.err != nil {
		return nil, w.err
	}
	return f, nil
}

// WriteResult renders the batch result to out.
func WriteResult(out io.Writer, result *commit.BatchResult, timestamp time.Time) (err error) {
	f, err := Result(result, timestamp)
	if err != nil {
		return err
	}
	return write(out, f)
}

func resultRow(o commit.Outcome) []any {
	status, id, details := "Échec", placeholderID, o.Error
	switch o.Status {
	case commit.Created:
		status, id, details = "Succès", o.ID, placeholderSuccess
	case commit.NotAttempted:
		status, details = "Non soumis", placeholderSkipped
	}
	c := o.Candidate
	return []any{status, id, c.Nom, c.PostNom, c.PreNom, c.Sexe, c.Email, c.Telephone, details}
}

func outcomeStyle(status commit.Status) string {
	switch status {
	case commit.Created:
		return "success"
	case commit.NotAttempted:
		return "not-attempted"
	default:
		return "failure"
	}
}

func setDocProps(f *excelize.File, title string, t time.Time) error {
	return errs.Wrap(f.SetDocProps(&excelize.DocProperties{
		Creator:        "INBTP App",
		LastModifiedBy: "Système d'Appariteur",
		Title:          title,
		Created:        t.UTC().Format(time.RFC3339),
		Modified:       t.UTC().Format(time.RFC3339),
	}))
}

// Save writes f to path and closes it.
func Save(f *excelize.File, path string) error {
	return errs.Combine(errs.Wrap(f.SaveAs(path)), errs.Wrap(f.Close()))
}

func write(out io.Writer, f *excelize.File) error {
	_, err := f.WriteTo(out)
	return errs.Combine(errs.Wrap(err), errs.Wrap(f.Close()))
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
