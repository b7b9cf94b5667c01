// Package services wires the ledger and the identity record into the single
// application-state object the HTTP server and the CLI share.
package services

import (
	"context"
	"fmt"
	"time"

	"smartfinance/internal/core"
	"smartfinance/internal/identity"
	"smartfinance/internal/ledger"
	"smartfinance/internal/log"
	"smartfinance/internal/storage"
)

// DefaultCurrency labels amounts when Options.Currency is empty.
const DefaultCurrency = "PKR"

// Options configure New.
type Options struct {
	AutoAuthenticate bool
	Currency         string
	Now              func() time.Time
	Logger           *log.Logger
}

// App owns the ledger and the identity record for one store.
type App struct {
	Ledger   *ledger.Ledger
	Identity *identity.Identity

	logger   *log.Logger
	now      func() time.Time
	currency string
}

// New loads the application state from store. The caller keeps ownership of
// store and closes it after the App is no longer used.
func New(ctx context.Context, store storage.Store, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	l, err := ledger.Open(ctx, store, ledger.Options{Now: now, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	id, err := identity.Open(ctx, store, identity.Options{
		AutoAuthenticate: opts.AutoAuthenticate,
		Now:              now,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open identity: %w", err)
	}

	return &App{
		Ledger:   l,
		Identity: id,
		logger:   logger.WithComponent(log.ComponentInsights),
		now:      now,
		currency: currency,
	}, nil
}

// Now returns the application clock.
func (a *App) Now() time.Time {
	return a.now()
}

// Today returns the current calendar day in core.Location.
func (a *App) Today() core.Date {
	return core.Today(a.now())
}

// Currency is the label used when formatting amounts.
func (a *App) Currency() string {
	return a.currency
}

// Format renders amount with the configured currency label.
func (a *App) Format(amount core.Amount) string {
	return core.FormatAmount(amount, a.currency)
}

// AddTransaction checks in against the collection's registry and records it.
func (a *App) AddTransaction(ctx context.Context, kind core.Kind, in core.TransactionInput) (core.Transaction, error) {
	if err := validate(kind, in); err != nil {
		return core.Transaction{}, err
	}
	return a.Ledger.Add(ctx, kind, in)
}

// UpdateTransaction checks in and replaces record id. It reports false when
// the record does not exist.
func (a *App) UpdateTransaction(ctx context.Context, kind core.Kind, id int64, in core.TransactionInput) (core.Transaction, bool, error) {
	if err := validate(kind, in); err != nil {
		return core.Transaction{}, false, err
	}
	return a.Ledger.Update(ctx, kind, id, in)
}

// DeleteTransaction removes record id; false means it did not exist.
func (a *App) DeleteTransaction(ctx context.Context, kind core.Kind, id int64) (bool, error) {
	return a.Ledger.Delete(ctx, kind, id)
}

func validate(kind core.Kind, in core.TransactionInput) error {
	reg, err := core.RegistryFor(kind)
	if err != nil {
		return err
	}
	return in.Validate(reg)
}

// Summary returns the per-category breakdown of one collection.
func (a *App) Summary(kind core.Kind) (core.Breakdown, error) {
	return a.Ledger.ByCategory(kind)
}

// Savings reports progress toward the savings goal.
func (a *App) Savings() (SavingsProgress, error) {
	income, err := a.Ledger.Total(core.KindIncome)
	if err != nil {
		return SavingsProgress{}, err
	}
	expenses, err := a.Ledger.Total(core.KindExpense)
	if err != nil {
		return SavingsProgress{}, err
	}
	return ComputeSavings(income, expenses, a.Ledger.SavingsGoal()), nil
}

// WeddingPlan reports wedding spending against the current goal.
func (a *App) WeddingPlan() (WeddingPlan, error) {
	b, err := a.Ledger.ByCategory(core.KindWedding)
	if err != nil {
		return WeddingPlan{}, err
	}
	plan := PlanWedding(a.Ledger.WeddingGoal(), b, a.now())
	if !plan.Breakdown.Unmatched.IsZero() {
		a.logger.Warn("Wedding expenses recorded under unknown categories", "unmatched", plan.Breakdown.Unmatched.String())
	}
	return plan, nil
}

// Dashboard builds the overview of every collection.
func (a *App) Dashboard() (Dashboard, error) {
	expenses, err := a.Ledger.ByCategory(core.KindExpense)
	if err != nil {
		return Dashboard{}, err
	}
	incomes, err := a.Ledger.ByCategory(core.KindIncome)
	if err != nil {
		return Dashboard{}, err
	}
	wedding, err := a.Ledger.ByCategory(core.KindWedding)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(expenses, incomes, wedding, a.Ledger.SavingsGoal()), nil
}
