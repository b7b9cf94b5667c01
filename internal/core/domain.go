package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
	KindWedding Kind = "wedding"
)

// DateLayout is the calendar-day format used on the wire and in storage.
const DateLayout = "2006-01-02"

type (
	// Kind names one of the three transaction collections.
	Kind string

	// Date is a calendar day. The time component is always 00:00 UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64  `json:"id"`
		Category    string `json:"category"`
		Amount      Amount `json:"amount"`
		Description string `json:"description"`
		Date        Date   `json:"date"`
	}

	// TransactionInput carries every transaction field except the id.
	TransactionInput struct {
		Category    string `json:"category" validate:"notblank"`
		Amount      Amount `json:"amount" validate:"gte=0"`
		Description string `json:"description" validate:"max=200"`
		Date        Date   `json:"date" validate:"required"`
	}

	WeddingGoal struct {
		Budget Amount `json:"budget"`
		Date   Date   `json:"date"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownKind      = errors.New("unknown collection kind")
	ErrDescriptionLimit = errors.New("description too long (max 200 characters)")
)

// Kinds lists the collections in a stable order.
func Kinds() []Kind {
	return []Kind{KindExpense, KindIncome, KindWedding}
}

// ParseKind accepts the singular and plural spellings used by the CLI and the
// HTTP routes.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "expenses":
		return KindExpense, nil
	case "income", "incomes":
		return KindIncome, nil
	case "wedding", "wedding-expense", "wedding-expenses", "marriage":
		return KindWedding, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

var location atomic.Pointer[time.Location]

// SetLocation sets the zone timestamps are converted to before their calendar
// day is taken. A nil loc restores time.Local.
func SetLocation(loc *time.Location) {
	location.Store(loc)
}

// Location returns the zone set by SetLocation, or time.Local.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	return time.Local
}

// Today returns the calendar day of now in Location.
func Today(now time.Time) Date {
	return DateOf(now.In(Location()))
}

// ParseDate reads a YYYY-MM-DD day. Full RFC 3339 timestamps are accepted too
// and converted to their day in Location.
func ParseDate(s string) (Date, error) {
	return ParseDateIn(s, Location())
}

// ParseDateIn is ParseDate with an explicit zone for timestamps.
func ParseDateIn(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t.In(loc)), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks an input against the registry for its collection. It is an
// entry-time check; the ledger itself stores whatever it is given.
func (in TransactionInput) Validate(reg Registry) error {
	failed := make(map[string]bool)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			failed[fe.Field()] = true
		}
	}
	switch {
	case failed["category"]:
		return ErrEmptyCategory
	case !reg.Contains(in.Category):
		return fmt.Errorf("%w: %q", ErrUnknownCategory, in.Category)
	case failed["amount"]:
		return ErrInvalidAmount
	case failed["date"]:
		return ErrInvalidDate
	case failed["description"]:
		return ErrDescriptionLimit
	}
	return nil
}

// Input returns the transaction without its id.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
	}
}

// WithID builds a transaction from an input and an already-issued id.
func (in TransactionInput) WithID(id int64) Transaction {
	return Transaction{
		ID:          id,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
	}
}
