package services

import (
	"regexp"
	"strings"
	"unicode"

	"eshopClient/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type RegistrationForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	AgreeTerms      bool
}

// ValidateRegistration checks the signup form before it is sent. The
// backend repeats these checks; this pass only exists so the user sees
// field errors without a round trip.
func ValidateRegistration(form RegistrationForm) models.ValidationErrors {
	errors := models.ValidationErrors{}

	username := strings.TrimSpace(form.Username)
	if len(username) < 3 {
		errors["username"] = "Имя пользователя должно содержать не менее 3 символов"
	} else if !usernamePattern.MatchString(username) {
		errors["username"] = "Имя пользователя может содержать только буквы, цифры и подчеркивания"
	}

	if !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
		errors["email"] = "Укажите корректный email"
	}

	if len(form.Password) < 8 {
		errors["password"] = "Пароль должен содержать не менее 8 символов"
	} else if PasswordStrength(form.Password) < 3 {
		errors["password"] = "Пароль слишком простой"
	}

	if form.ConfirmPassword != form.Password {
		errors["confirmPassword"] = "Пароли не совпадают"
	}

	if !form.AgreeTerms {
		errors["agreeTerms"] = "Необходимо принять условия использования"
	}

	if len(errors) == 0 {
		return nil
	}
	return errors
}

// PasswordStrength scores a password from 0 to 5: length eight, length
// twelve, mixed case, a digit and a punctuation character each add one.
func PasswordStrength(password string) int {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if lower && upper {
		score++
	}
	if digit {
		score++
	}
	if special {
		score++
	}
	return score
}

// StrengthLabel is the meter caption next to the password field.
func StrengthLabel(score int) string {
	switch {
	case score < 3:
		return "Слабый"
	case score < 5:
		return "Средний"
	default:
		return "Надежный"
	}
}
