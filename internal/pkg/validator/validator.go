package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	nonDigit     = regexp.MustCompile(`\D`)
	idPhone      = regexp.MustCompile(`^(08|02[1-9]|0[3-9][0-9])[0-9]{7,10}$`)
	personName   = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)
	errorMessage = map[string]string{
		"required":    "Field ini wajib diisi",
		"email":       "Format email tidak valid",
		"id_phone":    "Format nomor telepon tidak valid",
		"person_name": "Nama hanya boleh berisi huruf, spasi, titik, apostrof dan tanda hubung",
		"blood_group": "Golongan darah harus A, B, AB atau O",
		"rhesus":      "Rhesus harus Rh+ atau Rh-",
	}
)

// Validator wraps go-playground/validator with the donor field rules
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom tags registered
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	v.RegisterValidation("id_phone", validateIndonesianPhone)
	v.RegisterValidation("person_name", validatePersonName)
	v.RegisterValidation("blood_group", validateBloodGroup)
	v.RegisterValidation("rhesus", validateRhesus)

	return &Validator{validate: v}
}

// Validate checks a struct against its validate tags
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// FieldErrors flattens a validation error into field -> message.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := errorMessage[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "min":
		return "Minimal " + fe.Param() + " karakter"
	case "max":
		return "Maksimal " + fe.Param() + " karakter"
	}
	return "Nilai tidak valid"
}

// NormalizePhone strips everything but digits
func NormalizePhone(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// IsIndonesianPhone reports whether phone is a mobile or landline number
func IsIndonesianPhone(phone string) bool {
	return idPhone.MatchString(NormalizePhone(phone))
}

func validateIndonesianPhone(fl validator.FieldLevel) bool {
	return IsIndonesianPhone(fl.Field().String())
}

func validatePersonName(fl validator.FieldLevel) bool {
	return personName.MatchString(fl.Field().String())
}

func validateBloodGroup(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "A", "B", "AB", "O":
		return true
	}
	return false
}

func validateRhesus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Rh+", "Rh-":
		return true
	}
	return false
}
