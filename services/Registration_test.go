package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		Username:        "new_user42",
		Email:           "new@example.com",
		Password:        "Correct1!",
		ConfirmPassword: "Correct1!",
		AgreeTerms:      true,
	}
}

func TestValidateRegistrationAccepts(t *testing.T) {
	assert.True(t, ValidateRegistration(validForm()).Valid())
}

func TestValidateRegistrationRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RegistrationForm)
		field  string
	}{
		{"short username", func(f *RegistrationForm) { f.Username = "ab" }, "username"},
		{"bad username chars", func(f *RegistrationForm) { f.Username = "user name" }, "username"},
		{"bad email", func(f *RegistrationForm) { f.Email = "not-an-email" }, "email"},
		{"short password", func(f *RegistrationForm) { f.Password = "Ab1!"; f.ConfirmPassword = "Ab1!" }, "password"},
		{"weak password", func(f *RegistrationForm) { f.Password = "aaaaaaaa"; f.ConfirmPassword = "aaaaaaaa" }, "password"},
		{"mismatch", func(f *RegistrationForm) { f.ConfirmPassword = "Different1!" }, "confirmPassword"},
		{"terms", func(f *RegistrationForm) { f.AgreeTerms = false }, "agreeTerms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			errs := ValidateRegistration(form)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestPasswordStrength(t *testing.T) {
	assert.Less(t, PasswordStrength("abc"), 3)
	assert.Less(t, PasswordStrength("aaaaaaaa"), 3)
	assert.GreaterOrEqual(t, PasswordStrength("Correct1!"), 3)
	assert.Equal(t, 5, PasswordStrength("Correct1!Correct"))
}

func TestStrengthLabel(t *testing.T) {
	assert.Equal(t, "Слабый", StrengthLabel(PasswordStrength("abc")))
	assert.Equal(t, "Средний", StrengthLabel(PasswordStrength("Correct1!")))
	assert.Equal(t, "Надежный", StrengthLabel(5))
}
