package core

import "fmt"

// Category is one registry entry. Emoji is the display glyph.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Registry is a fixed ordered list of categories for one collection.
type Registry struct {
	kind       Kind
	categories []Category
}

var (
	ExpenseCategories = newRegistry(KindExpense,
		Category{1, "Food & Dining", "🍕"},
		Category{2, "Rent & Housing", "🏠"},
		Category{3, "Transport", "🚗"},
		Category{4, "Education", "📚"},
		Category{5, "Shopping", "🛍️"},
		Category{6, "Utilities", "💡"},
		Category{7, "Entertainment", "🎬"},
		Category{8, "Health", "🏥"},
		Category{9, "Others", "📦"},
	)

	IncomeCategories = newRegistry(KindIncome,
		Category{1, "Salary", "💼"},
		Category{2, "Freelance", "💻"},
		Category{3, "Business", "🏢"},
		Category{4, "Investments", "📈"},
		Category{5, "Bonus", "🎉"},
		Category{6, "Others", "📦"},
	)

	WeddingCategories = newRegistry(KindWedding,
		Category{1, "Catering & Food", "🍽️"},
		Category{2, "Wedding Dresses", "👗"},
		Category{3, "Venue & Hall", "🏛️"},
		Category{4, "Decoration", "🎨"},
		Category{5, "Photography", "📸"},
		Category{6, "Music & DJ", "🎵"},
		Category{7, "Transportation", "🚗"},
		Category{8, "Jewelry", "💍"},
		Category{9, "Invitations", "💌"},
		Category{10, "Makeup & Salon", "💄"},
		Category{11, "Flowers", "🌸"},
		Category{12, "Gifts & Favors", "🎁"},
		Category{13, "Equipment Rentals", "🪑"},
		Category{14, "Legal & Documentation", "📜"},
		Category{15, "Other Expenses", "📋"},
	)
)

func newRegistry(kind Kind, cats ...Category) Registry {
	return Registry{kind: kind, categories: cats}
}

// RegistryFor returns the registry backing a collection.
func RegistryFor(kind Kind) (Registry, error) {
	switch kind {
	case KindExpense:
		return ExpenseCategories, nil
	case KindIncome:
		return IncomeCategories, nil
	case KindWedding:
		return WeddingCategories, nil
	}
	return Registry{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func (r Registry) Kind() Kind {
	return r.kind
}

func (r Registry) Len() int {
	return len(r.categories)
}

// Categories returns a copy of the entries in registry order.
func (r Registry) Categories() []Category {
	return append([]Category(nil), r.categories...)
}

// Names returns the category names in registry order.
func (r Registry) Names() []string {
	names := make([]string, len(r.categories))
	for i, c := range r.categories {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a category by exact name.
func (r Registry) Lookup(name string) (Category, bool) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

func (r Registry) Contains(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}
