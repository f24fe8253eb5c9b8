package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type donorForm struct {
	Name   string `json:"name" validate:"required,min=2,max=100,person_name"`
	Group  string `json:"blood_group" validate:"required,blood_group"`
	Rhesus string `json:"rhesus" validate:"required,rhesus"`
	Phone  string `json:"phone_number" validate:"required,id_phone"`
	Notes  string `json:"notes" validate:"max=500"`
}

func TestIsIndonesianPhone(t *testing.T) {
	valid := []string{"081234567890", "0812-3456-7890", "(021) 1234567", "0274 123456"}
	for _, p := range valid {
		assert.True(t, IsIndonesianPhone(p), p)
	}

	invalid := []string{"", "12345", "6281234567890", "0812", "0201234567", "081234567890123"}
	for _, p := range invalid {
		assert.False(t, IsIndonesianPhone(p), p)
	}
}

func TestValidate_DonorForm(t *testing.T) {
	v := New()

	ok := donorForm{Name: "Siti Nur'aini", Group: "AB", Rhesus: "Rh-", Phone: "081234567890"}
	require.NoError(t, v.Validate(ok))

	bad := donorForm{Name: "R2D2", Group: "C", Rhesus: "+", Phone: "123"}
	err := v.Validate(bad)
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "blood_group")
	assert.Contains(t, fields, "rhesus")
	assert.Contains(t, fields, "phone_number")
	assert.NotContains(t, fields, "notes")
	assert.Equal(t, "Format nomor telepon tidak valid", fields["phone_number"])
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
