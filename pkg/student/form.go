package student

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag  = "notblank"
	percentTag   = "percent"
	birthDateTag = "birthdate"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names rather than Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(percentTag, percentValidation)
	_ = validate.RegisterValidation(birthDateTag, birthDateValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, percentTag, birthDateTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomErrs)
	}
}

// Form is a single student entered by hand. Unlike roster rows it is
// validated strictly before anything is sent.
type Form struct {
	Nom           string `json:"nom" validate:"notblank"`
	PostNom       string `json:"postNom" validate:"notblank"`
	PreNom        string `json:"preNom"`
	Sexe          string `json:"sexe" validate:"oneof=M F"`
	DateNaissance string `json:"dateNaissance" validate:"omitempty,birthdate"`
	LieuNaissance string `json:"lieuNaissance"`
	Adresse       string `json:"adresse"`
	EtudiantID    string `json:"etudiantId"`
	Email         string `json:"email" validate:"omitempty,email"`
	Telephone     string `json:"telephone"`
	OptID         string `json:"optId"`
	Section       string `json:"section"`
	Option        string `json:"option"`
	Pourcentage   string `json:"pourcentage" validate:"omitempty,percent"`
	PromotionID   string `json:"promotionId" validate:"required"`
	AnneeID       string `json:"anneeId" validate:"required"`
}

type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		msgs = append(msgs, f.Error)
	}
	return fmt.Sprintf("%s: %s", err.Err, strings.Join(msgs, "; "))
}

func (err *ValidationError) Unwrap() error { return err.Err }

var errInvalidForm = errs.New("invalid student")

// ValidateForm checks the form and, when valid, returns the creation
// payload. Validation failures are reported as a *ValidationError.
func ValidateForm(form Form) (CreateRequest, error) {
	form = form.trimmed()
	if err := validate.Struct(form); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return CreateRequest{}, errs.Wrap(err)
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
		}
		return CreateRequest{}, &ValidationError{Err: errInvalidForm, Fields: fields}
	}
	return form.Candidate().Request(), nil
}

// Candidate converts the form into a candidate carrying the same fields.
func (f Form) Candidate() Candidate {
	c := Candidate{
		Nom:           f.Nom,
		PostNom:       f.PostNom,
		PreNom:        f.PreNom,
		Sexe:          normalizeSexe(f.Sexe),
		DateNaissance: f.DateNaissance,
		LieuNaissance: f.LieuNaissance,
		Adresse:       f.Adresse,
		EtudiantID:    f.EtudiantID,
		Email:         f.Email,
		Telephone:     f.Telephone,
		OptID:         f.OptID,
		Section:       f.Section,
		Option:        f.Option,
		Pourcentage:   f.Pourcentage,
		Placement:     Placement{PromotionID: f.PromotionID, AnneeID: f.AnneeID},
	}
	c.Revalidate()
	c.Selected = !c.HasError
	return c
}

func (f Form) trimmed() Form {
	v := reflect.ValueOf(&f).Elem()
	for i := 0; i < v.NumField(); i++ {
		if fv := v.Field(i); fv.Kind() == reflect.String {
			fv.SetString(strings.TrimSpace(fv.String()))
		}
	}
	f.Sexe = normalizeSexe(f.Sexe)
	return f
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fmt.Sprintf("%s cannot be blank", fe.Field())
	case percentTag:
		return fmt.Sprintf("%s must be a number between 0 and 100", fe.Field())
	case birthDateTag:
		return fmt.Sprintf("%s must be a date formatted DD/MM/YYYY", fe.Field())
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

var hundred = decimal.NewFromInt(100)

func percentValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

func birthDateValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, layout := range []string{DisplayDateLayout, isoDateLayout} {
		if _, err := time.Parse(layout, str); err == nil {
			return true
		}
	}
	return false
}
