package identity

import (
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region used to parse phone numbers submitted
// without a country prefix.
var DefaultPhoneRegion = "KR"

// MinPasswordLength is the floor of the password strength policy.
const MinPasswordLength = 8

// RegisterPayload is the registration command input. Validation runs before
// any storage access; a failing payload never touches the store.
type RegisterPayload struct {
	LoginID    string `json:"login_id"`
	Password   string `json:"password"`
	RealName   string `json:"real_name"`
	Nickname   string `json:"nickname"`
	Phone      string `json:"phone"`
	BirthYear  int    `json:"birth_year"`
	Gender     string `json:"gender"`
	NationalID string `json:"-"`
}

// Validate will run the registration validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LoginID, validation.Required, validation.Length(4, 50), is.Alphanumeric),
		validation.Field(&r.Password, validation.Required, validation.By(PasswordStrength)),
		validation.Field(&r.RealName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Nickname, validation.Length(0, 50)),
		validation.Field(&r.Phone, validation.By(ValidPhoneNumber)),
		validation.Field(&r.BirthYear, validation.Min(1900), validation.Max(time.Now().Year())),
		validation.Field(&r.Gender, validation.In("", "M", "F")),
	)
}

// PasswordStrength enforces the minimum secret policy: length plus at least
// one letter and one digit.
func PasswordStrength(value any) error {
	password, _ := value.(string)
	if password == "" {
		return ErrNoEmptyString
	}

	if len(password) < MinPasswordLength {
		return weakPassword("password is too short")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return weakPassword("password needs at least one letter and one digit")
	}

	return nil
}

// ValidPhoneNumber parses optional phone input against DefaultPhoneRegion.
func ValidPhoneNumber(value any) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}

	parsed, err := phonenumbers.Parse(phone, DefaultPhoneRegion)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid phone number")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return goerrors.New("invalid phone number", goerrors.CategoryValidation)
	}

	return nil
}

func weakPassword(message string) error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(TextCodeWeakPassword).
		WithCode(goerrors.CodeBadRequest)
}
