package core

// CategoryAmount is an amount aggregated under one registry category.
type CategoryAmount struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	Amount Amount `json:"amount"`
}

// Breakdown is a per-category summary of one collection.
type Breakdown struct {
	Kind    Kind             `json:"kind"`
	Entries []CategoryAmount `json:"entries"` // registry order, zeros included
	Total   Amount           `json:"total"`

	// Unmatched is the amount recorded under names the registry does not know.
	// It is part of Total but of no entry.
	Unmatched Amount `json:"unmatched"`
}

// Sum adds the entries. Amounts are exact, so it equals Total minus Unmatched
// and is never more than Total.
func (b Breakdown) Sum() Amount {
	vals := make([]Amount, 0, len(b.Entries))
	for _, e := range b.Entries {
		vals = append(vals, e.Amount)
	}
	return SumAmounts(vals)
}

// Map returns the entries keyed by category name.
func (b Breakdown) Map() map[string]Amount {
	out := make(map[string]Amount, len(b.Entries))
	for _, e := range b.Entries {
		out[e.Name] = e.Amount
	}
	return out
}

// NonZero returns the entries with a positive amount, in registry order.
func (b Breakdown) NonZero() []CategoryAmount {
	var out []CategoryAmount
	for _, e := range b.Entries {
		if e.Amount.GreaterThan(Amount{}) {
			out = append(out, e)
		}
	}
	return out
}
