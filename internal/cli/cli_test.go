package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartfinance/internal/core"
	"smartfinance/internal/storage"
)

// setupEnv points the commands at a fresh bolt file so state survives
// between invocations.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "bolt")
	t.Setenv("BOLT_DB_PATH", filepath.Join(dir, "test.bolt"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CURRENCY", "PKR")
	t.Setenv("TIMEZONE", "UTC")
	t.Cleanup(func() { core.SetLocation(nil) })
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestTransactionCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "income", "add", "--category", "Salary", "--amount", "2000", "--date", "2024-01-05")
	out := mustRun(t, "--json", "expense", "add", "-c", "Transport", "-a", "500,5", "-d", "bus pass", "--date", "2024-01-06")

	var added core.Transaction
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !added.Amount.Equal(core.AmountFromFloat(500.5)) || added.Description != "bus pass" {
		t.Errorf("added = %+v", added)
	}

	if _, err := run(t, "expense", "add", "-c", "Salary", "-a", "1"); err == nil {
		t.Error("income category accepted for an expense")
	}
	if _, err := run(t, "expense", "add", "-c", "Transport", "-a", "-1"); err == nil {
		t.Error("negative amount accepted")
	}

	id := jsonID(added.ID)
	out = mustRun(t, "expense", "update", id, "--amount", "600")
	if !strings.Contains(out, "PKR 600") {
		t.Errorf("update output = %q", out)
	}

	out = mustRun(t, "expense", "list")
	if !strings.Contains(out, "Transport") || !strings.Contains(out, "bus pass") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, "dashboard")
	if !strings.Contains(out, "PKR 1,400") {
		t.Errorf("dashboard should show the balance, got %q", out)
	}

	out = mustRun(t, "expense", "delete", id)
	if !strings.Contains(out, "Deleted") {
		t.Errorf("delete output = %q", out)
	}
	out = mustRun(t, "expense", "delete", id)
	if !strings.Contains(out, "No expense") {
		t.Errorf("second delete output = %q", out)
	}
}

func TestWeddingAndSavingsCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "marriage", "add", "-c", "Jewelry", "-a", "120000")
	mustRun(t, "wedding", "goal", "--budget", "100000", "--date", "2030-01-01")

	out := mustRun(t, "--json", "wedding", "plan")
	var plan struct {
		Budget     float64 `json:"budget"`
		Spent      float64 `json:"spent"`
		OverBudget bool    `json:"overBudget"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Budget != 100000 || plan.Spent != 120000 || !plan.OverBudget {
		t.Errorf("plan = %+v", plan)
	}

	if _, err := run(t, "savings", "--goal", "-5"); err == nil {
		t.Error("negative savings goal accepted")
	}
	out = mustRun(t, "savings", "--goal", "5000")
	if !strings.Contains(out, "PKR 5,000") {
		t.Errorf("savings output = %q", out)
	}
}

func TestUserCommands(t *testing.T) {
	setupEnv(t)

	if _, err := run(t, "user", "signup", "--name", "A", "--email", "bad"); err == nil {
		t.Error("incomplete signup accepted")
	}
	mustRun(t, "user", "signup", "--name", "Ayesha", "--email", "a@b.co", "--contact", "03001234567",
		"--bank-account", "1234", "--password", "secret1")

	if _, err := run(t, "user", "login", "--email", "a@b.co", "--password", "nope"); err == nil {
		t.Error("wrong password accepted")
	}
	mustRun(t, "user", "login", "--email", "a@b.co", "--password", "secret1")

	mustRun(t, "user", "update", "--name", "Ayesha K.", "--set", "city=Lahore")
	out := mustRun(t, "user", "show")
	if !strings.Contains(out, "name: Ayesha K.") || !strings.Contains(out, "city: Lahore") {
		t.Errorf("show output = %q", out)
	}
	if strings.Contains(out, "secret1") {
		t.Error("password printed")
	}
}

func TestExportImport(t *testing.T) {
	dir := setupEnv(t)

	mustRun(t, "income", "add", "-c", "Bonus", "-a", "750")
	file := filepath.Join(dir, "backup.json")
	mustRun(t, "export", "-o", file)

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc[storage.KeyIncomes]; !ok {
		t.Errorf("export missing %s: %s", storage.KeyIncomes, data)
	}

	t.Setenv("BOLT_DB_PATH", filepath.Join(dir, "restored.bolt"))
	out := mustRun(t, "import", file)
	if !strings.Contains(out, "Imported") {
		t.Errorf("import output = %q", out)
	}
	out = mustRun(t, "income", "list")
	if !strings.Contains(out, "Bonus") {
		t.Errorf("restored list = %q", out)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"other_key": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "import", bad); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestCategoriesCommand(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "categories", "wedding")
	if !strings.Contains(out, "Legal & Documentation") {
		t.Errorf("categories output = %q", out)
	}
	if _, err := run(t, "categories", "groceries"); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "postgres")

	_, err := run(t, "dashboard")
	if err == nil || !strings.Contains(err.Error(), "invalid data backend") {
		t.Errorf("error = %v", err)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestTimezoneDecidesTheDay(t *testing.T) {
	setupEnv(t)
	t.Setenv("TIMEZONE", "Asia/Karachi")

	out := mustRun(t, "--json", "wedding", "add", "-c", "Jewelry", "-a", "1000", "--date", "2026-12-30T19:00:00.000Z")
	var added core.Transaction
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if added.Date.String() != "2026-12-31" {
		t.Errorf("date = %s, want 2026-12-31", added.Date)
	}

	t.Setenv("TIMEZONE", "Nowhere/Special")
	if _, err := run(t, "wedding", "list"); err == nil {
		t.Error("unknown TIMEZONE accepted")
	}
}
