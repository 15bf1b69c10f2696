package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Form)
		fields []string
	}{
		{name: "valid", mutate: func(f *Form) {}},
		{name: "postal code without space", mutate: func(f *Form) { f.PostalCode = "1234AB" }},
		{name: "phone without plus", mutate: func(f *Form) { f.PhoneNumber = "0612345678" }},
		{name: "surrounding whitespace", mutate: func(f *Form) { f.City = "  Utrecht " }},
		{name: "missing email", mutate: func(f *Form) { f.Email = "" }, fields: []string{"email"}},
		{name: "bad email", mutate: func(f *Form) { f.Email = "not-an-email" }, fields: []string{"email"}},
		{name: "blank surname", mutate: func(f *Form) { f.Surname = "   " }, fields: []string{"surname"}},
		{name: "postal code leading zero", mutate: func(f *Form) { f.PostalCode = "0123 AB" }, fields: []string{"postalCode"}},
		{name: "postal code lowercase", mutate: func(f *Form) { f.PostalCode = "1234 ab" }, fields: []string{"postalCode"}},
		{name: "phone too short", mutate: func(f *Form) { f.PhoneNumber = "1234567" }, fields: []string{"phoneNumber"}},
		{name: "phone with letters", mutate: func(f *Form) { f.PhoneNumber = "+3161234abcd" }, fields: []string{"phoneNumber"}},
		{name: "empty form", mutate: func(f *Form) { *f = Form{} }, fields: []string{
			"email", "surname", "lastname", "address", "city", "postalCode", "phoneNumber",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm("a@b.com")
			tt.mutate(&f)
			err := f.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var fe FieldErrors
			require.True(t, errors.As(err, &fe), "got %v", err)
			got := make([]string, 0, len(fe))
			for k := range fe {
				got = append(got, k)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{"city": "is required", "email": "must be an email address"}
	assert.Equal(t, "invalid form: city: is required; email: must be an email address", fe.Error())
}

func TestForm_SubscriberSetsEveryField(t *testing.T) {
	s := Form{City: " Delft "}.Subscriber(entity.ID(3))
	assert.Equal(t, int64(3), s.IDOrNone())
	for _, p := range []*string{s.Email, s.Surname, s.Lastname, s.Address, s.PostalCode, s.PhoneNumber} {
		require.NotNil(t, p)
		assert.Equal(t, "", *p)
	}
	assert.Equal(t, "Delft", entity.Value(s.City))
}

func TestFormFrom_RoundTrip(t *testing.T) {
	f := validForm("a@b.com")
	assert.Equal(t, f, FormFrom(f.Subscriber(nil)))
	assert.Equal(t, Form{}, FormFrom(entity.Subscriber{}))
}
