package identity

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"smartfinance/internal/core"
)

// ErrInvalidForm is matched by every *ValidationError.
var ErrInvalidForm = errors.New("invalid form")

// Signup validation messages.
const (
	MsgAllFieldsRequired = "Please fill in all fields"
	MsgInvalidEmail      = "Please enter a valid email"
	MsgInvalidContact    = "Please enter a valid contact number"
	MsgInvalidBank       = "Please enter a valid bank account"
	MsgPasswordTooShort  = "Password must be at least 6 characters"
	MsgPasswordMismatch  = "Passwords do not match"
)

// ValidationError lists every problem found in a form, keyed by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

// SignupForm is what a new user submits. ConfirmPassword is checked and then
// dropped; Extra fields are stored alongside the profile.
type SignupForm struct {
	Name            string         `json:"name" validate:"required"`
	Email           string         `json:"email" validate:"required,min=5,contains=@"`
	Contact         string         `json:"contact" validate:"required,min=10"`
	BankAccount     string         `json:"bankAccount" validate:"required,min=4"`
	Password        string         `json:"password" validate:"required,min=6"`
	ConfirmPassword string         `json:"confirmPassword" validate:"required,eqfield=Password"`
	Extra           map[string]any `json:"-"`
}

var signupMessages = map[string]string{
	"email":           MsgInvalidEmail,
	"contact":         MsgInvalidContact,
	"bankAccount":     MsgInvalidBank,
	"password":        MsgPasswordTooShort,
	"confirmPassword": MsgPasswordMismatch,
}

// Validate returns a *ValidationError when any rule fails. Missing fields are
// reported alone; a password mismatch is only reported once the password is
// long enough.
func (f SignupForm) Validate() error {
	err := core.Validator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	missing := make(map[string]string)
	errs := make(map[string]string)
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing[fe.Field()] = MsgAllFieldsRequired
			continue
		}
		errs[fe.Field()] = signupMessages[fe.Field()]
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if _, short := errs["password"]; short {
		delete(errs, "confirmPassword")
	}
	return &ValidationError{Fields: errs}
}

func (f SignupForm) user() core.User {
	u := core.User{
		Name:        f.Name,
		Email:       f.Email,
		Contact:     f.Contact,
		BankAccount: f.BankAccount,
		Password:    f.Password,
	}
	for k, v := range f.Extra {
		if core.IsUserField(k) || k == "confirmPassword" {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]any)
		}
		u.Extra[k] = v
	}
	return u
}

// ProfileUpdate carries the fields to change; nil fields are kept. Extra
// entries are merged, and a nil value removes the entry.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	Contact     *string
	BankAccount *string
	Password    *string
	Extra       map[string]any
}

func (p ProfileUpdate) apply(u *core.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Contact, p.Contact)
	set(&u.BankAccount, p.BankAccount)
	set(&u.Password, p.Password)

	for k, v := range p.Extra {
		if core.IsUserField(k) {
			continue
		}
		if v == nil {
			delete(u.Extra, k)
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]any)
		}
		u.Extra[k] = v
	}
}

// ProfileUpdateFromMap builds an update from a decoded JSON object. Named
// fields must be strings. The id and confirmPassword are ignored and anything
// else goes to Extra.
func ProfileUpdateFromMap(m map[string]any) (ProfileUpdate, error) {
	var p ProfileUpdate
	targets := map[string]**string{
		"name":        &p.Name,
		"email":       &p.Email,
		"contact":     &p.Contact,
		"bankAccount": &p.BankAccount,
		"password":    &p.Password,
	}
	for k, v := range m {
		if k == "id" || k == "confirmPassword" {
			continue
		}
		if dst, ok := targets[k]; ok {
			s, isString := v.(string)
			if !isString {
				return ProfileUpdate{}, &ValidationError{Fields: map[string]string{k: "must be a string"}}
			}
			*dst = &s
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	return p, nil
}
