package client

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

var (
	postalCodeRe  = regexp.MustCompile(`^[1-9][0-9]{3}\s?[A-Z]{2}$`)
	phoneNumberRe = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneNumberRe.MatchString(fl.Field().String())
	})
	return v
}

// Form is the editable, flat representation of a subscriber. Every field is
// required before submission.
type Form struct {
	Email       string `json:"email" validate:"required,email"`
	Surname     string `json:"surname" validate:"required"`
	Lastname    string `json:"lastname" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required,postalcode"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

// FormFrom fills a form from a stored subscriber. A zero Subscriber gives
// an empty form.
func FormFrom(s entity.Subscriber) Form {
	return Form{
		Email:       entity.Value(s.Email),
		Surname:     entity.Value(s.Surname),
		Lastname:    entity.Value(s.Lastname),
		Address:     entity.Value(s.Address),
		City:        entity.Value(s.City),
		PostalCode:  entity.Value(s.PostalCode),
		PhoneNumber: entity.Value(s.PhoneNumber),
	}
}

// Subscriber converts the form into a full record. Every field is set
// explicitly, since updates replace the whole row.
func (f Form) Subscriber(id *int64) entity.Subscriber {
	f = f.trimmed()
	return entity.Subscriber{
		ID:          id,
		Email:       entity.Str(f.Email),
		Surname:     entity.Str(f.Surname),
		Lastname:    entity.Str(f.Lastname),
		Address:     entity.Str(f.Address),
		City:        entity.Str(f.City),
		PostalCode:  entity.Str(f.PostalCode),
		PhoneNumber: entity.Str(f.PhoneNumber),
	}
}

func (f Form) trimmed() Form {
	for _, p := range []*string{&f.Email, &f.Surname, &f.Lastname, &f.Address, &f.City, &f.PostalCode, &f.PhoneNumber} {
		*p = strings.TrimSpace(*p)
	}
	return f
}

// FieldErrors maps a form field (by its JSON name) to what is wrong with it.
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (fe FieldErrors) Error() string {
	keys := fe.Fields()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Validate checks the form before it is submitted. It returns FieldErrors
// listing every failing field.
func (f Form) Validate() error {
	err := validate.Struct(f.trimmed())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[jsonName(fe.StructField())] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "postalcode":
		return "must look like 1234 AB"
	case "phone":
		return "must be 8 to 15 digits, optionally starting with +"
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
