// Package ledger holds the three transaction collections and the two goals,
// and writes every change through to a storage.Store before reporting it.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartfinance/internal/core"
	"smartfinance/internal/log"
	"smartfinance/internal/metrics"
	"smartfinance/internal/storage"
)

// ErrUnknownKind is returned for a collection kind the ledger does not hold.
var ErrUnknownKind = core.ErrUnknownKind

// Defaults used when nothing has been stored yet.
var (
	DefaultSavingsGoal = core.AmountFromInt(100000)
	DefaultWeddingGoal = core.WeddingGoal{Budget: core.AmountFromInt(500000), Date: core.NewDate(2026, 12, 31)}
)

// KeyFor returns the store key a collection is persisted under.
func KeyFor(kind core.Kind) (string, error) {
	switch kind {
	case core.KindExpense:
		return storage.KeyExpenses, nil
	case core.KindIncome:
		return storage.KeyIncomes, nil
	case core.KindWedding:
		return storage.KeyWeddingExpenses, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Options tune a Ledger. The zero value is usable.
type Options struct {
	Now    func() time.Time
	Logger *log.Logger
}

type collection struct {
	kind     core.Kind
	key      string
	registry core.Registry
	records  []core.Transaction
}

// Ledger is safe for concurrent use. Mutations hold the write lock across the
// store write, so the in-memory state always mirrors the last successful Put.
// When a Put fails the in-memory state is left as it was.
type Ledger struct {
	mu          sync.RWMutex
	store       storage.Store
	ids         *IDGenerator
	logger      *log.Logger
	collections map[core.Kind]*collection
	savingsGoal core.Amount
	weddingGoal core.WeddingGoal
}

// Open loads every collection and goal from store. Absent keys yield empty
// collections and default goals; a key holding malformed JSON is an error.
func Open(ctx context.Context, store storage.Store, opts Options) (*Ledger, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	l := &Ledger{
		store:       store,
		ids:         NewIDGenerator(opts.Now),
		logger:      logger.WithComponent(log.ComponentLedger),
		collections: make(map[core.Kind]*collection, 3),
		savingsGoal: DefaultSavingsGoal,
		weddingGoal: DefaultWeddingGoal,
	}

	for _, kind := range core.Kinds() {
		key, _ := KeyFor(kind)
		reg, _ := core.RegistryFor(kind)

		var records []core.Transaction
		if _, err := storage.GetJSON(ctx, store, key, &records); err != nil {
			return nil, fmt.Errorf("load %s: %w", kind, err)
		}
		if records == nil {
			records = []core.Transaction{}
		}
		for _, r := range records {
			l.ids.Observe(r.ID)
		}
		l.collections[kind] = &collection{kind: kind, key: key, registry: reg, records: records}
		metrics.LedgerRecords.WithLabelValues(string(kind)).Set(float64(len(records)))
	}

	var goal core.Amount
	found, err := storage.GetJSON(ctx, store, storage.KeySavingsGoal, &goal)
	if err != nil {
		return nil, fmt.Errorf("load savings goal: %w", err)
	}
	if found {
		l.savingsGoal = goal
	}

	var wedding core.WeddingGoal
	found, err = storage.GetJSON(ctx, store, storage.KeyWeddingGoal, &wedding)
	if err != nil {
		return nil, fmt.Errorf("load wedding goal: %w", err)
	}
	if found {
		l.weddingGoal = wedding
	}

	l.logger.DebugContext(ctx, "Ledger loaded",
		"expenses", len(l.collections[core.KindExpense].records),
		"incomes", len(l.collections[core.KindIncome].records),
		"wedding_expenses", len(l.collections[core.KindWedding].records))
	return l, nil
}

func (l *Ledger) collection(kind core.Kind) (*collection, error) {
	c, ok := l.collections[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return c, nil
}

// persist writes records under the collection key. The caller holds the write
// lock and swaps records in only when this returns nil.
func (l *Ledger) persist(ctx context.Context, c *collection, records []core.Transaction, op string) error {
	if err := storage.PutJSON(ctx, l.store, c.key, records); err != nil {
		metrics.LedgerStoreErrors.WithLabelValues(string(c.kind)).Inc()
		l.logger.ErrorContext(ctx, "Failed to persist collection",
			log.FieldKind, c.kind, log.FieldOperation, op, log.FieldError, err, log.FieldErrorType, log.ErrorTypeStorage)
		return err
	}
	metrics.RecordMutation(string(c.kind), op, len(records))
	return nil
}

// Add stores a new record with a fresh id. Only a store failure is reported.
func (l *Ledger) Add(ctx context.Context, kind core.Kind, in core.TransactionInput) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.collection(kind)
	if err != nil {
		return core.Transaction{}, err
	}

	t := in.WithID(l.ids.Next())

	next := make([]core.Transaction, len(c.records), len(c.records)+1)
	copy(next, c.records)
	next = append(next, t)

	if err := l.persist(ctx, c, next, log.OpCreate); err != nil {
		return core.Transaction{}, err
	}
	c.records = next

	l.logger.InfoContext(ctx, "Record added",
		log.NewFields().WithTransaction(string(kind), t.ID, t.Category, t.Amount.Value()).ToSlice()...)
	return t, nil
}

// Update replaces every field of record id except the id itself. It reports
// false, and writes nothing, when no record has that id.
func (l *Ledger) Update(ctx context.Context, kind core.Kind, id int64, in core.TransactionInput) (core.Transaction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.collection(kind)
	if err != nil {
		return core.Transaction{}, false, err
	}

	idx := indexOf(c.records, id)
	if idx < 0 {
		return core.Transaction{}, false, nil
	}

	t := in.WithID(id)

	next := make([]core.Transaction, len(c.records))
	copy(next, c.records)
	next[idx] = t

	if err := l.persist(ctx, c, next, log.OpUpdate); err != nil {
		return core.Transaction{}, false, err
	}
	c.records = next

	l.logger.InfoContext(ctx, "Record updated",
		log.NewFields().WithTransaction(string(kind), t.ID, t.Category, t.Amount.Value()).ToSlice()...)
	return t, true, nil
}

// Delete removes record id. A missing id is a no-op reported as false.
func (l *Ledger) Delete(ctx context.Context, kind core.Kind, id int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.collection(kind)
	if err != nil {
		return false, err
	}

	idx := indexOf(c.records, id)
	if idx < 0 {
		return false, nil
	}

	next := make([]core.Transaction, 0, len(c.records)-1)
	next = append(next, c.records[:idx]...)
	next = append(next, c.records[idx+1:]...)

	if err := l.persist(ctx, c, next, log.OpDelete); err != nil {
		return false, err
	}
	c.records = next

	l.logger.InfoContext(ctx, "Record deleted", log.FieldKind, kind, log.FieldRecordID, id)
	return true, nil
}

// Get looks up a single record.
func (l *Ledger) Get(kind core.Kind, id int64) (core.Transaction, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collection(kind)
	if err != nil {
		return core.Transaction{}, false, err
	}
	idx := indexOf(c.records, id)
	if idx < 0 {
		return core.Transaction{}, false, nil
	}
	return c.records[idx], true, nil
}

// List returns a copy of the collection in display order.
func (l *Ledger) List(kind core.Kind) ([]core.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collection(kind)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, len(c.records))
	copy(out, c.records)
	SortForDisplay(out)
	return out, nil
}

// Len reports how many records a collection holds.
func (l *Ledger) Len(kind core.Kind) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collection(kind)
	if err != nil {
		return 0, err
	}
	return len(c.records), nil
}

// Total sums a collection.
func (l *Ledger) Total(kind core.Kind) (core.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collection(kind)
	if err != nil {
		return core.Amount{}, err
	}
	return TotalOf(c.records), nil
}

// ByCategory summarises a collection against its registry.
func (l *Ledger) ByCategory(kind core.Kind) (core.Breakdown, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collection(kind)
	if err != nil {
		return core.Breakdown{}, err
	}
	return SumByCategory(c.records, c.registry), nil
}

// SavingsGoal returns the current savings target.
func (l *Ledger) SavingsGoal() core.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.savingsGoal
}

// SetSavingsGoal replaces the savings target.
func (l *Ledger) SetSavingsGoal(ctx context.Context, goal core.Amount) error {
	if !nonNegative(goal) {
		return core.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := storage.PutJSON(ctx, l.store, storage.KeySavingsGoal, goal); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist savings goal", log.FieldError, err, log.FieldErrorType, log.ErrorTypeStorage)
		return err
	}
	l.savingsGoal = goal
	metrics.LedgerMutations.WithLabelValues("savings_goal", log.OpUpdate).Inc()

	l.logger.InfoContext(ctx, "Savings goal updated", log.FieldAmount, goal.Value())
	return nil
}

// WeddingGoal returns the current wedding budget and date.
func (l *Ledger) WeddingGoal() core.WeddingGoal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.weddingGoal
}

// SetWeddingGoal replaces the wedding budget and date together.
func (l *Ledger) SetWeddingGoal(ctx context.Context, goal core.WeddingGoal) error {
	if !nonNegative(goal.Budget) {
		return core.ErrInvalidAmount
	}
	if err := goal.Date.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := storage.PutJSON(ctx, l.store, storage.KeyWeddingGoal, goal); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist wedding goal", log.FieldError, err, log.FieldErrorType, log.ErrorTypeStorage)
		return err
	}
	l.weddingGoal = goal
	metrics.LedgerMutations.WithLabelValues("wedding_goal", log.OpUpdate).Inc()

	l.logger.InfoContext(ctx, "Wedding goal updated",
		"budget", goal.Budget.Value(), "date", goal.Date.String())
	return nil
}

func indexOf(records []core.Transaction, id int64) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func nonNegative(a core.Amount) bool {
	return !a.IsNegative()
}
