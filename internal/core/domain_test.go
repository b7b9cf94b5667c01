package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-01-01", NewDate(2024, 1, 1), false},
		{" 2026-12-31 ", NewDate(2026, 12, 31), false},
		{"2024-03-05T00:00:00.000Z", NewDate(2024, 3, 5), false},
		{"2024-03-05T23:30:00+05:00", NewDate(2024, 3, 5), false},
		{"2026-12-30T19:00:00.000Z", NewDate(2026, 12, 30), false},
		{"", Date{}, true},
		{"05/03/2024", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateIn(tt.in, time.UTC)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.in, err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateUsesLocation(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*60*60)
	tests := []struct {
		in   string
		loc  *time.Location
		want string
	}{
		{"2026-12-30T19:00:00.000Z", karachi, "2026-12-31"},
		{"2026-12-30T18:59:59Z", karachi, "2026-12-30"},
		{"2026-12-31T02:00:00+05:00", time.UTC, "2026-12-30"},
		{"2026-12-30", karachi, "2026-12-30"},
	}
	for _, tt := range tests {
		got, err := ParseDateIn(tt.in, tt.loc)
		if err != nil {
			t.Fatalf("ParseDateIn(%q): %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("ParseDateIn(%q, %s) = %s, want %s", tt.in, tt.loc, got, tt.want)
		}
	}

	SetLocation(karachi)
	defer SetLocation(nil)
	got, err := ParseDate("2026-12-30T19:00:00.000Z")
	if err != nil || got.String() != "2026-12-31" {
		t.Errorf("ParseDate with location set = %s, %v; want 2026-12-31", got, err)
	}
	if d := Today(time.Date(2026, 12, 30, 20, 0, 0, 0, time.UTC)); d.String() != "2026-12-31" {
		t.Errorf("Today = %s, want 2026-12-31", d)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 1, 1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-01"` {
		t.Fatalf("marshal = %s", b)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-01-01"`), &d); err != nil {
		t.Fatalf("unmarshal day: %v", err)
	}
	if d.String() != "2024-01-01" {
		t.Errorf("unmarshal day = %s", d)
	}

	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsZero() {
		t.Errorf("null should decode to zero date, got %v err=%v", d, err)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Error("expected error for garbage date")
	}
}

func TestAmountUnmarshalIsLenient(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`500`, "500"},
		{`12.5`, "12.5"},
		{`864.13`, "864.13"},
		{`"42"`, "42"},
		{`""`, "0"},
		{`"abc"`, "0"},
		{`null`, "0"},
		{`true`, "0"},
		{`{}`, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.raw), &a); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if a.String() != tt.want {
				t.Errorf("unmarshal %s = %s, want %s", tt.raw, a, tt.want)
			}
		})
	}
}

func TestAmountFromFloatHandlesNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if a := AmountFromFloat(f); !a.IsZero() {
			t.Errorf("AmountFromFloat(%v) = %v, want 0", f, a)
		}
	}
	b, err := json.Marshal(AmountFromFloat(math.NaN()))
	if err != nil || string(b) != "0" {
		t.Errorf("marshal NaN = %s, %v", b, err)
	}
	var zero Amount
	if b, _ := json.Marshal(zero); string(b) != "0" {
		t.Errorf("marshal zero value = %s", b)
	}
}

func TestTransactionJSONShape(t *testing.T) {
	tx := Transaction{ID: 7, Category: "Salary", Amount: AmountFromInt(2000), Date: NewDate(2024, 1, 1)}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":7,"category":"Salary","amount":2000,"description":"","date":"2024-01-01"}`
	if string(b) != want {
		t.Errorf("marshal = %s\nwant %s", b, want)
	}

	var back Transaction
	legacy := `{"category":"Food & Dining","amount":"15","description":"x","date":"2024-02-03","id":1706000000000}`
	if err := json.Unmarshal([]byte(legacy), &back); err != nil {
		t.Fatalf("unmarshal legacy: %v", err)
	}
	if back.ID != 1706000000000 || !back.Amount.Equal(AmountFromInt(15)) || back.Date.String() != "2024-02-03" {
		t.Errorf("unexpected legacy decode: %+v", back)
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Category: "Food & Dining",
		Amount:   AmountFromInt(500),
		Date:     NewDate(2024, 1, 1),
	}
	if err := good.Validate(ExpenseCategories); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := good
	zero.Amount = Amount{}
	if err := zero.Validate(ExpenseCategories); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	wide := good
	wide.Description = strings.Repeat("ü", 200)
	if err := wide.Validate(ExpenseCategories); err != nil {
		t.Fatalf("200 multi-byte characters should be accepted, got %v", err)
	}

	one := AmountFromInt(1)
	day := NewDate(2024, 1, 1)

	bads := []struct {
		name string
		in   TransactionInput
		want error
	}{
		{"empty category", TransactionInput{Amount: one, Date: day}, ErrEmptyCategory},
		{"blank category", TransactionInput{Category: "  ", Amount: one, Date: day}, ErrEmptyCategory},
		{"wrong registry", TransactionInput{Category: "Salary", Amount: one, Date: day}, ErrUnknownCategory},
		{"negative", TransactionInput{Category: "Health", Amount: AmountFromInt(-1), Date: day}, ErrInvalidAmount},
		{"negative cents", TransactionInput{Category: "Health", Amount: AmountFromFloat(-0.01), Date: day}, ErrInvalidAmount},
		{"zero date", TransactionInput{Category: "Health", Amount: one}, ErrInvalidDate},
		{"long description", TransactionInput{Category: "Health", Amount: one, Date: day, Description: strings.Repeat("a", 201)}, ErrDescriptionLimit},
		{"long multi-byte description", TransactionInput{Category: "Health", Amount: one, Date: day, Description: strings.Repeat("ü", 201)}, ErrDescriptionLimit},
	}
	for _, tt := range bads {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(ExpenseCategories); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"expense":          KindExpense,
		"Expenses":         KindExpense,
		"incomes":          KindIncome,
		"wedding-expenses": KindWedding,
		"marriage":         KindWedding,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("savings"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(savings) error = %v, want ErrUnknownKind", err)
	}
}
