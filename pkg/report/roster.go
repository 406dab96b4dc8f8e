package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/student"
)

const (
	RosterFilename = "liste-etudiants.xlsx"

	rosterSheet = "Étudiants"
	rosterTitle = "Liste des étudiants"
)

// RosterHeaders are the columns of the roster table.
var RosterHeaders = []string{
	"N°", "Nom", "Post-nom", "Prénom", "Matricule", "Sexe",
	"Date de naissance", "Lieu de naissance", "Email", "Téléphone",
	"Adresse", "ID Option",
}

var rosterWidths = []float64{6, 20, 20, 20, 15, 10, 18, 20, 28, 16, 30, 12}

type RosterOptions struct {
	// Title replaces the default document title.
	Title     string
	Promotion *api.Promotion
	Annee     *api.Annee
	Now       time.Time
}

// RosterStats counts students by sex.
type RosterStats struct {
	Total int
	Men   int
	Women int
}

func (s RosterStats) String() string {
	return fmt.Sprintf("%d étudiants (%d hommes, %d femmes)", s.Total, s.Men, s.Women)
}

// Stats counts the students. Sex values are matched loosely, so both
// "M" and "masculin" count as men.
func Stats(students []student.Record) RosterStats {
	stats := RosterStats{Total: len(students)}
	for _, s := range students {
		switch s.Gender() {
		case student.Male:
			stats.Men++
		case student.Female:
			stats.Women++
		}
	}
	return stats
}

// Roster renders the list of students of a promotion.
func Roster(students []student.Record, opts RosterOptions) (_ *excelize.File, err error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	title := opts.Title
	if title == "" {
		title = rosterTitle
	}

	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return nil, errs.Wrap(err)
	}
	if err := setDocProps(f, title, opts.Now); err != nil {
		return nil, err
	}

	w := newSheetWriter(f, rosterSheet, len(RosterHeaders))
	w.letterhead()
	w.banner(strings.ToUpper(title), "title", 28)
	w.blank()
	if opts.Promotion != nil {
		w.banner("Promotion: "+opts.Promotion.Label(), "info", 22)
	}
	if opts.Annee != nil {
		w.banner("Année académique: "+opts.Annee.Label(), "info", 22)
	}
	w.banner("Statistiques: "+Stats(students).String(), "info", 22)
	w.blank()

	w.values(toAny(RosterHeaders), "header", 24)
	for i, s := range students {
		w.values(rosterRow(i+1, s), "cell", 0)
		w.styleCell(1, w.row-1, "cell-center")
		w.styleCell(6, w.row-1, "cell-center")
	}
	w.blank()
	w.banner("Document généré le "+opts.Now.Format(student.DisplayDateLayout), "footer", 0)
	w.widths(rosterWidths...)

	if w.err != nil {
		return nil, w.err
	}
	return f, nil
}

func WriteRoster(out io.Writer, students []student.Record, opts RosterOptions) error {
	f, err := Roster(students, opts)
	if err != nil {
		return err
	}
	return write(out, f)
}

func rosterRow(n int, s student.Record) []any {
	p, sec := s.InfoPerso, s.InfoSec
	return []any{
		n, p.Nom, p.PostNom, p.PreNom, sec.EtudiantID, sexeLabel(s),
		student.DisplayDate(p.DateNaissance), p.LieuNaissance, sec.Email,
		sec.Telephone, p.Adresse, sec.OptID,
	}
}

func sexeLabel(s student.Record) string {
	switch s.Gender() {
	case student.Male:
		return "Masculin"
	case student.Female:
		return "Féminin"
	default:
		return s.InfoPerso.Sexe
	}
}
