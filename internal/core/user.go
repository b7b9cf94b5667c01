package core

import (
	"encoding/json"
	"fmt"
)

// User is the single stored profile. Password is kept in plaintext: the
// record is a local convenience login, not a security boundary, and must not
// be reused in any networked or multi-user deployment.
type User struct {
	ID          int64
	Name        string
	Email       string
	Contact     string
	BankAccount string
	Password    string

	// Extra holds any additional signup fields so they survive a round trip.
	Extra map[string]any
}

var userFields = map[string]struct{}{
	"id": {}, "name": {}, "email": {}, "contact": {}, "bankAccount": {}, "password": {},
}

// IsUserField reports whether key is one of the named profile fields.
func IsUserField(key string) bool {
	_, ok := userFields[key]
	return ok
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+len(userFields))
	for k, v := range u.Extra {
		if IsUserField(k) {
			continue
		}
		out[k] = v
	}
	out["id"] = u.ID
	out["name"] = u.Name
	out["email"] = u.Email
	out["contact"] = u.Contact
	out["bankAccount"] = u.BankAccount
	out["password"] = u.Password
	return json.Marshal(out)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	var out User
	for k, v := range raw {
		var err error
		switch k {
		case "id":
			err = decodeID(v, &out.ID)
		case "name":
			err = json.Unmarshal(v, &out.Name)
		case "email":
			err = json.Unmarshal(v, &out.Email)
		case "contact":
			err = json.Unmarshal(v, &out.Contact)
		case "bankAccount":
			err = json.Unmarshal(v, &out.BankAccount)
		case "password":
			err = json.Unmarshal(v, &out.Password)
		default:
			var extra any
			err = json.Unmarshal(v, &extra)
			if err == nil {
				if out.Extra == nil {
					out.Extra = make(map[string]any)
				}
				out.Extra[k] = extra
			}
		}
		if err != nil {
			return fmt.Errorf("decode user field %q: %w", k, err)
		}
	}
	*u = out
	return nil
}

// decodeID accepts integral JSON numbers, including ones written in float form.
func decodeID(data json.RawMessage, id *int64) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if v, err := n.Int64(); err == nil {
		*id = v
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	*id = int64(f)
	return nil
}

// Clone returns a copy whose Extra map can be modified independently.
func (u User) Clone() User {
	if u.Extra != nil {
		extra := make(map[string]any, len(u.Extra))
		for k, v := range u.Extra {
			extra[k] = v
		}
		u.Extra = extra
	}
	return u
}
