package report

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/student"
)

const (
	TemplateFilename = "modele-import-etudiants.xlsx"

	templateSheet        = "Modèle d'importation"
	instructionsSheet    = "Instructions"
	templateTitle        = "MODÈLE DE FICHIER POUR IMPORTATION DES ÉTUDIANTS"
	templatePrefilled    = 5
	templateCommentActor = "INBTP"
)

// TemplateOptions describe the placement the template is prepared for.
// Both are optional.
type TemplateOptions struct {
	Promotion *api.Promotion
	Annee     *api.Annee
	Now       time.Time
}

var templateWidths = []float64{20, 20, 20, 10, 15, 20, 25, 15, 25, 15, 15, 20, 20, 12, 15, 15}

// templateNotes are the guidance comments attached to the header cells.
var templateNotes = map[string]string{
	student.KeyNom:           "Nom de famille de l'étudiant (obligatoire)",
	student.KeyPostNom:       "Post-nom de l'étudiant (obligatoire)",
	student.KeyPreNom:        "Prénom de l'étudiant",
	student.KeySexe:          "Sexe: M ou F (obligatoire)",
	student.KeyDateNaissance: "Date de naissance (Format: JJ/MM/AAAA)",
	student.KeyLieuNaissance: "Lieu de naissance",
	student.KeyAdresse:       "Adresse complète",
	student.KeyEtudiantID:    "Identifiant étudiant (matricule)",
	student.KeyEmail:         "Adresse email",
	student.KeyTelephone:     "Numéro de téléphone",
	student.KeyOptID:         "ID d'option",
	student.KeySection:       "Section scolaire",
	student.KeyOption:        "Option scolaire",
	student.KeyPourcentage:   "Pourcentage obtenu (nombre entre 0 et 100)",
	student.KeyPromotionID:   "ID de promotion",
	student.KeyAnneeID:       "ID de l'année académique",
}

// Template builds the blank import workbook. The first sheet starts with
// the header row so that reading the template back yields exactly the
// column keys.
func Template(opts TemplateOptions) (_ *excelize.File, err error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return nil, errs.Wrap(err)
	}
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return nil, errs.Wrap(err)
	}
	if err := setDocProps(f, templateTitle, opts.Now); err != nil {
		return nil, err
	}

	var promotionID, anneeID string
	if opts.Promotion != nil {
		promotionID = opts.Promotion.ID
	}
	if opts.Annee != nil {
		anneeID = opts.Annee.ID
	}

	w := newSheetWriter(f, templateSheet, len(student.Keys))
	w.values(toAny(student.Keys), "header", 24)
	for i, key := range student.Keys {
		note := templateNotes[key]
		if key == student.KeyPromotionID && promotionID != "" {
			note += " (défaut: " + promotionID + ")"
		}
		w.do(f.AddComment(templateSheet, excelize.Comment{
			Cell:   w.cell(i+1, 1),
			Author: templateCommentActor,
			Text:   note,
		}))
	}

	for i := 0; i < templatePrefilled; i++ {
		row := make([]any, len(student.Keys))
		for j := range row {
			row[j] = ""
		}
		if promotionID != "" {
			row[len(row)-2] = promotionID
		}
		if anneeID != "" {
			row[len(row)-1] = anneeID
		}
		w.values(row, "cell", 0)
	}

	w.values([]any{
		"Ex. Mbala", "Mubiala", "Jonathan", "M", "15/05/2000",
		"Kinshasa", "Avenue des Écoles 123", "ET2024001", "jonathan.mbala@example.com",
		"+243123456789", "OPT001", "Sciences", "Informatique", "75",
		orDefault(promotionID, "PROM_ID"), orDefault(anneeID, "ANNEE_ID"),
	}, "example", 0)
	w.widths(templateWidths...)

	iw := newSheetWriter(f, instructionsSheet, 2)
	iw.letterhead()
	iw.banner(templateTitle, "title", 28)
	iw.blank()
	if opts.Promotion != nil {
		iw.banner("Promotion: "+opts.Promotion.Label(), "info", 22)
	}
	iw.banner("Année académique: "+anneeLabel(opts.Annee), "info", 22)
	iw.banner("Instructions: Veuillez remplir la feuille « "+templateSheet+" » avec les données des étudiants et l'importer via la commande d'importation.", "instruction", 36)
	iw.banner("Ne modifiez pas la première ligne. Supprimez la ligne d'exemple avant l'importation.", "instruction", 22)
	iw.blank()
	iw.values([]any{"Colonne", "Description"}, "header", 24)
	for _, key := range student.Keys {
		iw.values([]any{key, templateNotes[key]}, "cell", 0)
	}
	iw.widths(20, 60)

	switch {
	case w.err != nil:
		return nil, w.err
	case iw.err != nil:
		return nil, iw.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func WriteTemplate(out io.Writer, opts TemplateOptions) error {
	f, err := Template(opts)
	if err != nil {
		return err
	}
	return write(out, f)
}

func anneeLabel(annee *api.Annee) string {
	if annee == nil {
		return "Non définie"
	}
	return annee.Label()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
