package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartfinance/internal/core"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		key         string
		want        string
	}{
		{"json string", "application/json", `{"category":" Transport "}`, "category", "Transport"},
		{"json number", "application/json", `{"amount":1500.5}`, "amount", "1500.5"},
		{"json number keeps digits", "application/json", `{"amount":864.130}`, "amount", "864.130"},
		{"json without header", "", `{"amount":12}`, "amount", "12"},
		{"form", "application/x-www-form-urlencoded", "category=Food+%26+Dining&amount=10", "category", "Food & Dining"},
		{"control characters dropped", "application/json", "{\"description\":\"a\\u0000b\"}", "description", "ab"},
		{"missing key", "application/json", `{}`, "category", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_Malformed(t *testing.T) {
	for _, body := range []string{`{"amount":`, `{"amount":1} {"amount":2}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if err := NewRequestBodyParser(req).Parse(); err == nil {
			t.Errorf("Parse(%s) expected an error", body)
		}
	}
}

func TestRequestBodyParser_RawKeepsWhitespace(t *testing.T) {
	p := newParser(t, "application/json", `{"password":" secret1 "}`)
	if got := p.Raw("password"); got != " secret1 " {
		t.Errorf("Raw() = %q", got)
	}
	if got := p.Get("password"); got != "secret1" {
		t.Errorf("Get() = %q", got)
	}
}

func TestParseTransactionInput(t *testing.T) {
	today := core.NewDate(2024, 5, 1)

	tests := []struct {
		name       string
		body       string
		wantFields []string
		want       core.TransactionInput
	}{
		{
			name: "complete",
			body: `{"category":"Transport","amount":"250","description":"bus","date":"2024-03-02"}`,
			want: core.TransactionInput{Category: "Transport", Amount: core.AmountFromInt(250), Description: "bus", Date: core.NewDate(2024, 3, 2)},
		},
		{
			name: "date defaults to today",
			body: `{"category":"Salary","amount":1000}`,
			want: core.TransactionInput{Category: "Salary", Amount: core.AmountFromInt(1000), Date: today},
		},
		{
			name: "comma decimal",
			body: "category=Health&amount=12,5",
			want: core.TransactionInput{Category: "Health", Amount: core.AmountFromFloat(12.5), Date: today},
		},
		{
			name: "grouped thousands",
			body: `{"category":"Rent","amount":"1,500"}`,
			want: core.TransactionInput{Category: "Rent", Amount: core.AmountFromInt(1500), Date: today},
		},
		{
			name: "description counted in characters",
			body: `{"category":"Health","amount":"5","description":"` + strings.Repeat("é", 200) + `"}`,
			want: core.TransactionInput{Category: "Health", Amount: core.AmountFromInt(5), Description: strings.Repeat("é", 200), Date: today},
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantFields: []string{"category", "amount"},
		},
		{
			name:       "negative amount and bad date",
			body:       `{"category":"Health","amount":"-5","date":"02/03/2024"}`,
			wantFields: []string{"amount", "date"},
		},
		{
			name:       "long description",
			body:       `{"category":"Health","amount":"5","description":"` + strings.Repeat("x", 201) + `"}`,
			wantFields: []string{"description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, "", tt.body)
			got, err := ParseTransactionInput(p, today)
			if len(tt.wantFields) > 0 {
				var fe fieldErrors
				if !errors.As(err, &fe) {
					t.Fatalf("error = %v, want fieldErrors", err)
				}
				for _, f := range tt.wantFields {
					if fe[f] == "" {
						t.Errorf("missing error for %q in %v", f, fe)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Category != tt.want.Category || !got.Amount.Equal(tt.want.Amount) ||
				got.Description != tt.want.Description || !got.Date.Equal(tt.want.Date.Time) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseWeddingGoal(t *testing.T) {
	current := core.WeddingGoal{Budget: core.AmountFromInt(500000), Date: core.NewDate(2026, 12, 31)}

	tests := []struct {
		name    string
		body    string
		want    core.WeddingGoal
		wantErr bool
	}{
		{"budget only", `{"budget":750000}`, core.WeddingGoal{Budget: core.AmountFromInt(750000), Date: current.Date}, false},
		{"date only", `{"date":"2027-04-10"}`, core.WeddingGoal{Budget: current.Budget, Date: core.NewDate(2027, 4, 10)}, false},
		{"null budget ignored", `{"budget":null}`, current, false},
		{"negative budget", `{"budget":-1}`, core.WeddingGoal{}, true},
		{"bad date", `{"date":"soon"}`, core.WeddingGoal{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeddingGoal(newParser(t, "application/json", tt.body), current)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Budget.Equal(tt.want.Budget) || !got.Date.Equal(tt.want.Date.Time) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
