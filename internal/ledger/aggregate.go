package ledger

import (
	"sort"

	"smartfinance/internal/core"
)

// TotalOf sums the amounts of records exactly, so the result does not depend
// on their order.
func TotalOf(records []core.Transaction) core.Amount {
	vals := make([]core.Amount, 0, len(records))
	for _, r := range records {
		vals = append(vals, r.Amount)
	}
	return core.SumAmounts(vals)
}

// SumByCategory builds one entry per registry category, in registry order,
// zero when nothing was recorded under it. Records whose category is not in
// the registry are left out of the entries and reported as Unmatched.
func SumByCategory(records []core.Transaction, reg core.Registry) core.Breakdown {
	buckets := make(map[string]core.Amount, reg.Len())
	var unmatched, total core.Amount
	for _, r := range records {
		total = total.Add(r.Amount)
		if reg.Contains(r.Category) {
			buckets[r.Category] = buckets[r.Category].Add(r.Amount)
			continue
		}
		unmatched = unmatched.Add(r.Amount)
	}

	cats := reg.Categories()
	entries := make([]core.CategoryAmount, 0, len(cats))
	for _, c := range cats {
		entries = append(entries, core.CategoryAmount{
			ID:     c.ID,
			Name:   c.Name,
			Emoji:  c.Emoji,
			Amount: buckets[c.Name],
		})
	}

	return core.Breakdown{
		Kind:      reg.Kind(),
		Entries:   entries,
		Total:     total,
		Unmatched: unmatched,
	}
}

// SortForDisplay orders records most recent date first, ties by descending id.
func SortForDisplay(records []core.Transaction) {
	sort.SliceStable(records, func(i, j int) bool {
		di, dj := records[i].Date.Time, records[j].Date.Time
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return records[i].ID > records[j].ID
	})
}
