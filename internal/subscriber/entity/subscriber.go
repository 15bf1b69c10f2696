package entity

// Subscriber is a row of the subscribers table. Text fields are pointers so
// that "not provided" (nil, stored as NULL) stays distinct from "" on write.
// Reads coalesce NULL to "", so listed rows always carry every field.
type Subscriber struct {
	ID          *int64  `json:"id,omitempty" db:"id"`
	Email       *string `json:"email,omitempty" db:"email"`
	Surname     *string `json:"surname,omitempty" db:"surname"`
	Lastname    *string `json:"lastname,omitempty" db:"lastname"`
	Address     *string `json:"address,omitempty" db:"address"`
	City        *string `json:"city,omitempty" db:"city"`
	PostalCode  *string `json:"postalCode,omitempty" db:"postal_code"`
	PhoneNumber *string `json:"phoneNumber,omitempty" db:"phone_number"`
}

// NoID is the identity an update targets when the caller sent none.
// It matches no row, so such an update leaves the store unchanged.
const NoID int64 = 0

// IDOrNone returns the subscriber id, or NoID when it is absent.
func (s *Subscriber) IDOrNone() int64 {
	if s == nil || s.ID == nil {
		return NoID
	}
	return *s.ID
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (s Subscriber) Clone() Subscriber {
	return Subscriber{
		ID:          cloneInt(s.ID),
		Email:       cloneStr(s.Email),
		Surname:     cloneStr(s.Surname),
		Lastname:    cloneStr(s.Lastname),
		Address:     cloneStr(s.Address),
		City:        cloneStr(s.City),
		PostalCode:  cloneStr(s.PostalCode),
		PhoneNumber: cloneStr(s.PhoneNumber),
	}
}

// Str returns a pointer to v.
func Str(v string) *string { return &v }

// ID returns a pointer to v.
func ID(v int64) *int64 { return &v }

// Value dereferences p, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
