package session

import (
	"github.com/inbtp/appariteur/pkg/student"
)

// FieldPatch builds a patch setting the column named by key, using the
// roster column keys. It reports false for an unknown key.
func FieldPatch(key, value string) (Patch, bool) {
	var p Patch
	var dst **string
	switch key {
	case student.KeyNom:
		dst = &p.Nom
	case student.KeyPostNom:
		dst = &p.PostNom
	case student.KeyPreNom:
		dst = &p.PreNom
	case student.KeySexe:
		dst = &p.Sexe
	case student.KeyDateNaissance:
		dst = &p.DateNaissance
	case student.KeyLieuNaissance:
		dst = &p.LieuNaissance
	case student.KeyAdresse:
		dst = &p.Adresse
	case student.KeyEtudiantID:
		dst = &p.EtudiantID
	case student.KeyEmail:
		dst = &p.Email
	case student.KeyTelephone:
		dst = &p.Telephone
	case student.KeyOptID:
		dst = &p.OptID
	case student.KeySection:
		dst = &p.Section
	case student.KeyOption:
		dst = &p.Option
	case student.KeyPourcentage:
		dst = &p.Pourcentage
	case student.KeyPromotionID:
		dst = &p.PromotionID
	case student.KeyAnneeID:
		dst = &p.AnneeID
	default:
		return Patch{}, false
	}
	*dst = &value
	return p, true
}
